package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/webpulse/webpulse-api/internal/entity"
)

type LeadHandler struct {
	Leads       entity.LeadRepositoryInterface
	rateLimiter *RateLimiter
}

func NewLeadHandler(leads entity.LeadRepositoryInterface) *LeadHandler {
	return &LeadHandler{
		Leads:       leads,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

type createLeadRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Industry    string `json:"industry"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	clientIP := getClientIP(r)
	if !h.rateLimiter.Allow(clientIP) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Message: "Too many requests. Please try again later."})
		return
	}

	var req createLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid JSON"})
		return
	}

	lead, err := entity.NewLead(req.Name, req.Email, req.Phone, req.Address, req.Industry, req.Description, req.Website)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: err.Error()})
		return
	}

	if err := h.Leads.Create(r.Context(), lead); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to create lead"})
		return
	}

	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var (
		leads []*entity.Lead
		err   error
	)

	switch {
	case r.URL.Query().Get("status") != "":
		leads, err = h.Leads.ListByStatus(r.Context(), entity.Stage(r.URL.Query().Get("status")))
	case r.URL.Query().Get("industry") != "":
		leads, err = h.Leads.ListByIndustry(r.Context(), r.URL.Query().Get("industry"))
	default:
		leads, err = h.Leads.ListAll(r.Context())
	}

	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to list leads"})
		return
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}

	writeJSON(w, http.StatusOK, leads)
}

type updateLeadRequest struct {
	DevelopmentNotes *string `json:"development_notes"`
	ClientFeedback   *string `json:"client_feedback"`
}

// HandleUpdate touches the free-text fields only. Status changes go through
// the workflow routes.
func (h *LeadHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid JSON"})
		return
	}
	if req.DevelopmentNotes == nil && req.ClientFeedback == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "No updatable fields provided"})
		return
	}

	upd := entity.LeadUpdate{
		DevelopmentNotes: req.DevelopmentNotes,
		ClientFeedback:   req.ClientFeedback,
	}
	if err := h.Leads.Update(r.Context(), id, upd); err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Lead not found"})
		return
	}

	lead, err := h.Leads.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to reload lead"})
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	lead, err := h.Leads.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Lead not found"})
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := time.Now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}
