package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/webpulse/webpulse-api/internal/entity"
	"github.com/webpulse/webpulse-api/internal/infra/generator"
	"github.com/webpulse/webpulse-api/internal/usecase"
)

// SiteGeneratorService is the slice of the generate-site use case the routes
// consume.
type SiteGeneratorService interface {
	Execute(ctx context.Context, input usecase.GenerateSiteInput) (*entity.Site, error)
}

type SiteHandler struct {
	Generator SiteGeneratorService
	Sites     entity.SiteRepositoryInterface
	Catalog   *generator.Service
}

func NewSiteHandler(gen SiteGeneratorService, sites entity.SiteRepositoryInterface, catalog *generator.Service) *SiteHandler {
	return &SiteHandler{Generator: gen, Sites: sites, Catalog: catalog}
}

func (h *SiteHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var input usecase.GenerateSiteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid JSON"})
		return
	}
	if input.Template == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "template is required"})
		return
	}

	site, err := h.Generator.Execute(r.Context(), input)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, site)
}

func (h *SiteHandler) HandleListByLead(w http.ResponseWriter, r *http.Request) {
	leadID, ok := pathID(w, r, "leadId")
	if !ok {
		return
	}

	sites, err := h.Sites.GetByLeadID(r.Context(), leadID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to list sites"})
		return
	}
	if sites == nil {
		sites = []*entity.Site{}
	}

	writeJSON(w, http.StatusOK, sites)
}

func (h *SiteHandler) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.AvailableTemplates())
}
