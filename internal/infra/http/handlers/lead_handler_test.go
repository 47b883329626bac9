package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/webpulse/webpulse-api/internal/entity"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id int64) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) Update(ctx context.Context, id int64, upd entity.LeadUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockLeadRepository) ListByStatus(ctx context.Context, status entity.Stage) ([]*entity.Lead, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListByIndustry(ctx context.Context, industry string) ([]*entity.Lead, error) {
	args := m.Called(ctx, industry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListAll(ctx context.Context) ([]*entity.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func leadRouter(h *LeadHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Post("/api/leads", h.HandleCreate)
	r.Get("/api/leads", h.HandleList)
	r.Get("/api/leads/{id}", h.HandleGet)
	r.Put("/api/leads/{id}", h.HandleUpdate)
	return r
}

func TestHandleCreateLead(t *testing.T) {
	mockLeads := new(MockLeadRepository)
	mockLeads.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.Name == "Joe's Pizza" && l.Status == entity.StagePending
	})).Return(nil)

	h := NewLeadHandler(mockLeads)

	req := httptest.NewRequest(http.MethodPost, "/api/leads",
		strings.NewReader(`{"name":"Joe's Pizza","email":"joe@example.com","industry":"restaurant"}`))
	rec := httptest.NewRecorder()
	leadRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)
}

func TestHandleCreateLeadValidation(t *testing.T) {
	mockLeads := new(MockLeadRepository)

	h := NewLeadHandler(mockLeads)

	req := httptest.NewRequest(http.MethodPost, "/api/leads",
		strings.NewReader(`{"email":"joe@example.com","industry":"restaurant"}`))
	rec := httptest.NewRecorder()
	leadRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name is required")
	mockLeads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandleCreateLeadRateLimited(t *testing.T) {
	mockLeads := new(MockLeadRepository)
	mockLeads.On("Create", mock.Anything, mock.Anything).Return(nil)

	h := NewLeadHandler(mockLeads)
	router := leadRouter(h)

	var lastCode int
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/leads",
			strings.NewReader(`{"name":"Joe's Pizza","industry":"restaurant"}`))
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		lastCode = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}

func TestHandleListLeadsByStatus(t *testing.T) {
	mockLeads := new(MockLeadRepository)
	mockLeads.On("ListByStatus", mock.Anything, entity.StagePending).
		Return([]*entity.Lead{{ID: 1, Name: "Joe's Pizza", Status: entity.StagePending}}, nil)

	h := NewLeadHandler(mockLeads)

	req := httptest.NewRequest(http.MethodGet, "/api/leads?status=pending", nil)
	rec := httptest.NewRecorder()
	leadRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Joe's Pizza")
	mockLeads.AssertNotCalled(t, "ListAll", mock.Anything)
}

func TestHandleListLeadsEmpty(t *testing.T) {
	mockLeads := new(MockLeadRepository)
	mockLeads.On("ListAll", mock.Anything).Return([]*entity.Lead(nil), nil)

	h := NewLeadHandler(mockLeads)

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	rec := httptest.NewRecorder()
	leadRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	// Empty list, never null.
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestHandleUpdateLeadNotes(t *testing.T) {
	mockLeads := new(MockLeadRepository)
	mockLeads.On("Update", mock.Anything, int64(7), mock.MatchedBy(func(u entity.LeadUpdate) bool {
		return u.DevelopmentNotes != nil && *u.DevelopmentNotes == "Client asked for a darker palette" &&
			u.Status == nil
	})).Return(nil)
	mockLeads.On("GetByID", mock.Anything, int64(7)).
		Return(&entity.Lead{ID: 7, Name: "Joe's Pizza", Status: entity.StageInDevelopment,
			DevelopmentNotes: "Client asked for a darker palette"}, nil)

	h := NewLeadHandler(mockLeads)

	req := httptest.NewRequest(http.MethodPut, "/api/leads/7",
		strings.NewReader(`{"development_notes":"Client asked for a darker palette"}`))
	rec := httptest.NewRecorder()
	leadRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "darker palette")
}

func TestHandleUpdateLeadNoFields(t *testing.T) {
	mockLeads := new(MockLeadRepository)

	h := NewLeadHandler(mockLeads)

	req := httptest.NewRequest(http.MethodPut, "/api/leads/7", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	leadRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockLeads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleGetLeadNotFound(t *testing.T) {
	mockLeads := new(MockLeadRepository)
	mockLeads.On("GetByID", mock.Anything, int64(404)).Return(nil, fmt.Errorf("sql: no rows in result set"))

	h := NewLeadHandler(mockLeads)

	req := httptest.NewRequest(http.MethodGet, "/api/leads/404", nil)
	rec := httptest.NewRecorder()
	leadRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
