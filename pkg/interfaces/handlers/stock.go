package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/infrastructure/events"
)

type stockResponse struct {
	PartCode entities.PartCode `json:"part_code"`
	OnHand   entities.Quantity `json:"on_hand"`
}

func (r *Router) adjustStock(w http.ResponseWriter, req *http.Request) {
	part := entities.PartCode(mux.Vars(req)["part"])

	var body struct {
		Delta  *entities.Quantity `json:"delta"`
		Reason string             `json:"reason"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Delta == nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	onHand, err := r.services.Stock.Adjust(req.Context(), part, *body.Delta, body.Reason)
	if err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, stockResponse{PartCode: part, OnHand: onHand})
}

// receive books a scheduled receipt into on-hand stock
func (r *Router) receive(w http.ResponseWriter, req *http.Request) {
	receiptID := mux.Vars(req)["id"]

	onHand, err := r.services.Stock.Receive(req.Context(), receiptID)
	if err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"receipt_id": receiptID, "on_hand": onHand})
}

type eventResponse struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Stream    string      `json:"stream"`
	Version   int         `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// listEvents returns the audit trail from the optional ?from= position. With
// ?stream= it returns one part's or plan's stream and from is a version.
func (r *Router) listEvents(w http.ResponseWriter, req *http.Request) {
	from := 0
	if raw := req.URL.Query().Get("from"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "from must be a non-negative integer")
			return
		}
		from = n
	}

	var all []events.Event
	var err error
	if stream := req.URL.Query().Get("stream"); stream != "" {
		all, err = r.services.Events.ReadEvents(stream, from)
	} else {
		all, err = r.services.Events.ReadAllEvents(from)
	}
	if err != nil {
		r.respondServiceError(w, req, err)
		return
	}

	out := make([]eventResponse, 0, len(all))
	for _, e := range all {
		out = append(out, eventResponse{
			ID:        e.ID(),
			Type:      e.Type(),
			Stream:    e.StreamID(),
			Version:   e.Version(),
			Timestamp: e.Timestamp(),
			Data:      e.Data(),
		})
	}
	respondJSON(w, http.StatusOK, out)
}
