package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/webpulse/webpulse-api/internal/entity"
	"github.com/webpulse/webpulse-api/internal/infra/http/middleware"
)

type PaymentHandler struct {
	Payments entity.PaymentRepositoryInterface
}

func NewPaymentHandler(payments entity.PaymentRepositoryInterface) *PaymentHandler {
	return &PaymentHandler{Payments: payments}
}

type createPaymentRequest struct {
	LeadID int64  `json:"lead_id"`
	Amount string `json:"amount"`
}

// HandleCreate records a pending deposit ahead of gateway capture. The
// captured transaction lands later through the workflow deposit route.
func (h *PaymentHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid JSON"})
		return
	}
	if req.LeadID == 0 || req.Amount == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "lead_id and amount are required"})
		return
	}

	payment := &entity.Payment{
		LeadID:      req.LeadID,
		Amount:      req.Amount,
		Gateway:     "paypal",
		Status:      entity.PaymentStatusPending,
		PaymentType: entity.PaymentTypeDeposit,
	}

	if err := h.Payments.Create(r.Context(), payment); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to create payment"})
		return
	}

	middleware.RecordPayment(payment.Gateway, payment.Status)
	writeJSON(w, http.StatusCreated, payment)
}

func (h *PaymentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Payments.ListAll(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to list payments"})
		return
	}
	if payments == nil {
		payments = []*entity.Payment{}
	}

	writeJSON(w, http.StatusOK, payments)
}
