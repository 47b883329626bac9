package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/webpulse/webpulse-api/internal/entity"
	"github.com/webpulse/webpulse-api/internal/infra/http/middleware"
	"github.com/webpulse/webpulse-api/internal/usecase"
)

// WorkflowService is the slice of the engine the workflow routes consume.
type WorkflowService interface {
	ApproveLead(ctx context.Context, leadID int64) error
	ProcessDepositPayment(ctx context.Context, leadID int64, paymentID string) error
	GetWorkflowStatus(ctx context.Context, leadID int64) (*usecase.WorkflowStatus, error)
	DeliverWebsite(ctx context.Context, leadID, siteID int64) error
}

type WorkflowHandler struct {
	Engine WorkflowService
	Sites  entity.SiteRepositoryInterface
}

func NewWorkflowHandler(engine WorkflowService, sites entity.SiteRepositoryInterface) *WorkflowHandler {
	return &WorkflowHandler{Engine: engine, Sites: sites}
}

type processDepositRequest struct {
	PaymentID string `json:"payment_id"`
}

func (h *WorkflowHandler) HandleApproveLead(w http.ResponseWriter, r *http.Request) {
	leadID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.Engine.ApproveLead(r.Context(), leadID); err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.RecordWorkflowTransition(string(entity.StageApproved))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Lead approved"})
}

func (h *WorkflowHandler) HandleProcessDeposit(w http.ResponseWriter, r *http.Request) {
	leadID, ok := pathID(w, r, "leadId")
	if !ok {
		return
	}

	var req processDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid JSON"})
		return
	}
	if req.PaymentID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "payment_id is required"})
		return
	}

	if err := h.Engine.ProcessDepositPayment(r.Context(), leadID, req.PaymentID); err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.RecordWorkflowTransition(string(entity.StageDepositPaid))
	middleware.RecordPayment("paypal", entity.PaymentStatusCompleted)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Deposit processed, development started"})
}

func (h *WorkflowHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	leadID, ok := pathID(w, r, "leadId")
	if !ok {
		return
	}

	status, err := h.Engine.GetWorkflowStatus(r.Context(), leadID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (h *WorkflowHandler) HandleDeliver(w http.ResponseWriter, r *http.Request) {
	leadID, ok := pathID(w, r, "leadId")
	if !ok {
		return
	}

	sites, err := h.Sites.GetByLeadID(r.Context(), leadID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to look up sites"})
		return
	}
	if len(sites) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "No site found for this lead"})
		return
	}

	if err := h.Engine.DeliverWebsite(r.Context(), leadID, sites[0].ID); err != nil {
		writeEngineError(w, err)
		return
	}

	middleware.RecordWorkflowTransition(string(entity.StageDelivered))
	writeJSON(w, http.StatusOK, map[string]string{"message": "Website delivered successfully"})
}

type errorResponse struct {
	Message string `json:"message"`
}

// writeEngineError maps the engine's error taxonomy onto status codes:
// NotFound → 404, InvalidState → 409, anything else → 500.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case usecase.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: err.Error()})
	case usecase.IsInvalidState(err):
		writeJSON(w, http.StatusConflict, errorResponse{Message: err.Error()})
	default:
		log.Printf("❌ Workflow operation failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid id"})
		return 0, false
	}
	return id, true
}
