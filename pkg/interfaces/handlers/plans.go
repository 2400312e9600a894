package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/vsinha/prodplan/pkg/application/services/planning"
	"github.com/vsinha/prodplan/pkg/domain/entities"
)

type createPlanRequest struct {
	ProductCode     string `json:"product_code"`
	PlannedQuantity int64  `json:"planned_quantity"`
	StartDate       string `json:"start_date"`
	Location        string `json:"location"`
	Remarks         string `json:"remarks"`
	CreatedBy       string `json:"created_by"`
}

type planResponse struct {
	ID              entities.PlanID      `json:"id"`
	ProductCode     entities.ProductCode `json:"product_code"`
	PlannedQuantity int64                `json:"planned_quantity"`
	StartDate       string               `json:"start_date"`
	Status          entities.PlanStatus  `json:"status"`
	Location        string               `json:"location,omitempty"`
	Remarks         string               `json:"remarks,omitempty"`
	CreatedBy       string               `json:"created_by,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

func newPlanResponse(plan *entities.ProductionPlan) planResponse {
	return planResponse{
		ID:              plan.ID,
		ProductCode:     plan.ProductCode,
		PlannedQuantity: plan.PlannedQuantity,
		StartDate:       plan.StartDate.Format("2006-01-02"),
		Status:          plan.Status,
		Location:        plan.Location,
		Remarks:         plan.Remarks,
		CreatedBy:       plan.CreatedBy,
		CreatedAt:       plan.CreatedAt,
		UpdatedAt:       plan.UpdatedAt,
	}
}

// createPlan stores a new plan in planned status without reserving
func (r *Router) createPlan(w http.ResponseWriter, req *http.Request) {
	var body createPlanRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	startDate, err := time.Parse("2006-01-02", body.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}

	plan, err := r.services.Planning.CreatePlan(req.Context(), planning.CreatePlanRequest{
		ProductCode:     entities.ProductCode(body.ProductCode),
		PlannedQuantity: body.PlannedQuantity,
		StartDate:       startDate,
		Location:        body.Location,
		Remarks:         body.Remarks,
		CreatedBy:       body.CreatedBy,
	})
	if err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusCreated, newPlanResponse(plan))
}

// getRequirements returns the read-only requirement report of a plan
func (r *Router) getRequirements(w http.ResponseWriter, req *http.Request) {
	planID := entities.PlanID(mux.Vars(req)["id"])

	report, err := r.services.Netting.Calculate(req.Context(), planID)
	if err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// commitPlan reserves the plan's current requirements
func (r *Router) commitPlan(w http.ResponseWriter, req *http.Request) {
	planID := entities.PlanID(mux.Vars(req)["id"])

	reserved, err := r.services.Planning.Commit(req.Context(), planID)
	if err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, newReservationResponses(reserved))
}

// changeQuantity updates the planned quantity and re-reserves committed plans
func (r *Router) changeQuantity(w http.ResponseWriter, req *http.Request) {
	planID := entities.PlanID(mux.Vars(req)["id"])

	var body struct {
		PlannedQuantity int64 `json:"planned_quantity"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	plan, err := r.services.Planning.ChangeQuantity(req.Context(), planID, body.PlannedQuantity)
	if err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, newPlanResponse(plan))
}

// transitionPlan moves a plan through its lifecycle
func (r *Router) transitionPlan(w http.ResponseWriter, req *http.Request) {
	planID := entities.PlanID(mux.Vars(req)["id"])

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	status, err := entities.ParsePlanStatus(body.Status)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := r.services.Planning.Transition(req.Context(), planID, status)
	if err != nil {
		r.respondServiceError(w, req, err)
		return
	}
	respondJSON(w, http.StatusOK, newPlanResponse(plan))
}
