package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vsinha/prodplan/pkg/domain/entities"
)

type reservationResponse struct {
	PlanID   entities.PlanID   `json:"plan_id"`
	PartCode entities.PartCode `json:"part_code"`
	Quantity entities.Quantity `json:"quantity"`
}

func newReservationResponses(reservations []*entities.Reservation) []reservationResponse {
	out := make([]reservationResponse, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, reservationResponse{PlanID: r.PlanID, PartCode: r.PartCode, Quantity: r.Quantity})
	}
	return out
}

func (r *Router) listReservations(w http.ResponseWriter, req *http.Request) {
	planID := entities.PlanID(mux.Vars(req)["id"])

	held, err := r.services.Reservations.PlanReservations(req.Context(), planID)
	if err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, newReservationResponses(held))
}

// reserve sets the plan's reservation for one BOM part; quantity 0 releases it
func (r *Router) reserve(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	planID := entities.PlanID(vars["id"])
	part := entities.PartCode(vars["part"])

	var body struct {
		Quantity *entities.Quantity `json:"quantity"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Quantity == nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if err := r.services.Planning.ReservePart(req.Context(), planID, part, *body.Quantity); err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, reservationResponse{PlanID: planID, PartCode: part, Quantity: *body.Quantity})
}

func (r *Router) release(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	planID := entities.PlanID(vars["id"])
	part := entities.PartCode(vars["part"])

	released, err := r.services.Reservations.Release(req.Context(), planID, part)
	if err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"released": released})
}

func (r *Router) releaseAll(w http.ResponseWriter, req *http.Request) {
	planID := entities.PlanID(mux.Vars(req)["id"])

	count, err := r.services.Reservations.ReleaseAll(req.Context(), planID)
	if err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"released": count})
}
