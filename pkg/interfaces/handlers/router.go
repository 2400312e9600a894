package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vsinha/prodplan/pkg/application/dto"
	"github.com/vsinha/prodplan/pkg/application/services/planning"
	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/infrastructure/events"
)

// Calculator computes requirement reports
type Calculator interface {
	Calculate(ctx context.Context, planID entities.PlanID) (*dto.RequirementReport, error)
}

// PlanLifecycle creates and moves production plans
type PlanLifecycle interface {
	CreatePlan(ctx context.Context, req planning.CreatePlanRequest) (*entities.ProductionPlan, error)
	ReservePart(ctx context.Context, planID entities.PlanID, part entities.PartCode, quantity entities.Quantity) error
	Commit(ctx context.Context, planID entities.PlanID) ([]*entities.Reservation, error)
	ChangeQuantity(ctx context.Context, planID entities.PlanID, quantity int64) (*entities.ProductionPlan, error)
	Transition(ctx context.Context, planID entities.PlanID, to entities.PlanStatus) (*entities.ProductionPlan, error)
}

// StockMover applies on-hand movements
type StockMover interface {
	Adjust(ctx context.Context, part entities.PartCode, delta entities.Quantity, reason string) (entities.Quantity, error)
	Receive(ctx context.Context, receiptID string) (entities.Quantity, error)
}

// EventReader exposes the audit trail
type EventReader interface {
	ReadEvents(streamID string, fromVersion int) ([]events.Event, error)
	ReadAllEvents(fromPosition int) ([]events.Event, error)
}

// Services are the collaborators behind the routes
type Services struct {
	Netting      Calculator
	Planning     PlanLifecycle
	Reservations planning.Reserver
	Stock        StockMover
	Events       EventReader
}

// Router wraps the mux router and the netting services
type Router struct {
	*mux.Router
	services Services
	logger   zerolog.Logger
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(services Services, logger zerolog.Logger) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		services: services,
		logger:   logger.With().Str("component", "http").Logger(),
	}

	r.HandleFunc("/health", r.healthCheck).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Plan routes
	plans := r.PathPrefix("/api/plans").Subrouter()
	plans.HandleFunc("", r.createPlan).Methods("POST")
	plans.HandleFunc("/{id}/requirements", r.getRequirements).Methods("GET")
	plans.HandleFunc("/{id}/commit", r.commitPlan).Methods("POST")
	plans.HandleFunc("/{id}/quantity", r.changeQuantity).Methods("PUT")
	plans.HandleFunc("/{id}/status", r.transitionPlan).Methods("POST")

	// Reservation routes
	plans.HandleFunc("/{id}/reservations", r.listReservations).Methods("GET")
	plans.HandleFunc("/{id}/reservations", r.releaseAll).Methods("DELETE")
	plans.HandleFunc("/{id}/reservations/{part}", r.reserve).Methods("PUT")
	plans.HandleFunc("/{id}/reservations/{part}", r.release).Methods("DELETE")

	// Stock routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/stock/{part}/adjustments", r.adjustStock).Methods("POST")
	api.HandleFunc("/receipts/{id}/receive", r.receive).Methods("POST")
	api.HandleFunc("/events", r.listEvents).Methods("GET")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON writes data as a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError writes an error message as a JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, entities.ErrUnavailableDependency),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	case errors.Is(err, entities.ErrEmptyBOM),
		errors.Is(err, entities.ErrPartNotInBOM),
		errors.Is(err, entities.ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	case errors.Is(err, entities.ErrPlanNotFound),
		errors.Is(err, entities.ErrProductNotFound),
		errors.Is(err, entities.ErrPartNotFound),
		errors.Is(err, entities.ErrReceiptNotFound):
		return http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidTransition),
		errors.Is(err, entities.ErrPlanNotActive),
		errors.Is(err, entities.ErrLockTimeout):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func (r *Router) respondServiceError(w http.ResponseWriter, req *http.Request, err error) {
	status := statusFor(err)
	event := r.logger.Warn()
	if status >= http.StatusInternalServerError {
		event = r.logger.Error()
	}
	event.Err(err).Str("method", req.Method).Str("path", req.URL.Path).Int("status", status).Msg("request failed")
	respondError(w, status, err.Error())
}
