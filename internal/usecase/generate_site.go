package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/webpulse/webpulse-api/internal/entity"
	"github.com/webpulse/webpulse-api/internal/infra/queue"
)

// SiteGenerator renders a website from a named template and the lead's
// customizations.
type SiteGenerator interface {
	Generate(template string, customizations json.RawMessage) (string, error)
}

// PreviewWriter persists rendered preview HTML so the API can serve it.
type PreviewWriter interface {
	WritePreview(siteID int64, html string) error
}

type GenerateSiteInput struct {
	LeadID         int64           `json:"lead_id"`
	Template       string          `json:"template"`
	Customizations json.RawMessage `json:"customizations"`
}

type GenerateSiteUseCase struct {
	Leads     entity.LeadRepositoryInterface
	Sites     entity.SiteRepositoryInterface
	Generator SiteGenerator
	Previews  PreviewWriter
	Queue     queue.NotificationProducerInterface
	Clock     Clock
}

func NewGenerateSiteUseCase(
	leads entity.LeadRepositoryInterface,
	sites entity.SiteRepositoryInterface,
	generator SiteGenerator,
	previews PreviewWriter,
	producer queue.NotificationProducerInterface,
	clock Clock,
) *GenerateSiteUseCase {
	return &GenerateSiteUseCase{
		Leads:     leads,
		Sites:     sites,
		Generator: generator,
		Previews:  previews,
		Queue:     producer,
		Clock:     clock,
	}
}

// Execute creates a draft site for the lead, renders it, stores the preview
// and moves the lead to preview_sent.
func (uc *GenerateSiteUseCase) Execute(ctx context.Context, input GenerateSiteInput) (*entity.Site, error) {
	lead, err := uc.Leads.GetByID(ctx, input.LeadID)
	if err != nil {
		return nil, &NotFoundError{Resource: "lead", ID: input.LeadID}
	}
	if !entity.CanTransition(lead.Status, entity.StagePreviewSent) {
		return nil, &InvalidStateError{
			Message: fmt.Sprintf("lead %d cannot move from %s to %s", lead.ID, lead.Status, entity.StagePreviewSent),
		}
	}

	site := &entity.Site{
		LeadID:         input.LeadID,
		Template:       input.Template,
		Customizations: input.Customizations,
		Status:         entity.SiteStatusDraft,
	}
	if err := uc.Sites.Create(ctx, site); err != nil {
		return nil, fmt.Errorf("failed to create site: %w", err)
	}

	html, err := uc.Generator.Generate(input.Template, input.Customizations)
	if err != nil {
		return nil, fmt.Errorf("failed to generate site: %w", err)
	}
	if err := uc.Previews.WritePreview(site.ID, html); err != nil {
		return nil, fmt.Errorf("failed to store preview: %w", err)
	}

	previewURL := fmt.Sprintf("/preview/%d", site.ID)
	err = uc.Sites.Update(ctx, site.ID, entity.SiteUpdate{
		PreviewURL: &previewURL,
		Status:     strPtr(entity.SiteStatusPreview),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update site %d: %w", site.ID, err)
	}

	now := uc.Clock.Now()
	err = uc.Leads.Update(ctx, input.LeadID, entity.LeadUpdate{
		Status:        stagePtr(entity.StagePreviewSent),
		PreviewSentAt: &now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update lead %d: %w", input.LeadID, err)
	}

	if lead.Email != "" {
		notifyPreview(ctx, uc.Queue, lead, previewURL)
	}

	site.PreviewURL = previewURL
	site.Status = entity.SiteStatusPreview
	return site, nil
}

func notifyPreview(ctx context.Context, producer queue.NotificationProducerInterface, lead *entity.Lead, previewURL string) {
	event := queue.NotificationEvent{
		EventID:    uuid.New().String(),
		Kind:       queue.KindPreviewReady,
		LeadID:     lead.ID,
		Email:      lead.Email,
		Name:       lead.Name,
		PreviewURL: previewURL,
	}

	if err := producer.PublishNotification(ctx, event); err != nil {
		// Preview is stored and the lead already moved on; the email is a
		// side channel.
		log.Printf("⚠️ CRITICAL: %s publish failed for lead %d: %v", event.Kind, lead.ID, err)
	}
}
