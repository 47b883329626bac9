package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/webpulse/webpulse-api/internal/entity"
	"github.com/webpulse/webpulse-api/internal/infra/queue"
	"github.com/webpulse/webpulse-api/internal/usecase"
)

// TestGenerateSiteSuccess - draft created, preview rendered and stored, lead
// moved to preview_sent, preview email queued.
func TestGenerateSiteSuccess(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 8, 15, 0, 0, 0, time.UTC)

	mockLeads := new(MockLeadRepository)
	mockSites := new(MockSiteRepository)
	mockGen := new(MockSiteGenerator)
	mockPreviews := new(MockPreviewWriter)
	mockProducer := new(MockNotificationProducer)

	customizations := json.RawMessage(`{"businessName":"Joe's Pizza","primaryColor":"#c0392b"}`)

	mockLeads.On("GetByID", ctx, int64(7)).Return(testLead(7, entity.StagePending), nil)
	mockLeads.On("Update", ctx, int64(7), mock.Anything).Return(nil)
	mockSites.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Site).ID = 3 // database-assigned
	}).Return(nil)
	mockSites.On("Update", ctx, int64(3), mock.Anything).Return(nil)
	mockGen.On("Generate", "restaurant", customizations).Return("<html>preview</html>", nil)
	mockPreviews.On("WritePreview", int64(3), "<html>preview</html>").Return(nil)
	mockProducer.On("PublishNotification", ctx, mock.Anything).Return(nil)

	uc := usecase.NewGenerateSiteUseCase(mockLeads, mockSites, mockGen, mockPreviews, mockProducer,
		fixedClock{now: now})

	site, err := uc.Execute(ctx, usecase.GenerateSiteInput{
		LeadID:         7,
		Template:       "restaurant",
		Customizations: customizations,
	})

	assert.NoError(t, err)
	assert.NotNil(t, site)
	assert.Equal(t, int64(3), site.ID)
	assert.Equal(t, entity.SiteStatusPreview, site.Status)
	assert.Equal(t, "/preview/3", site.PreviewURL)

	mockSites.AssertCalled(t, "Update", ctx, int64(3), mock.MatchedBy(func(u entity.SiteUpdate) bool {
		return u.PreviewURL != nil && *u.PreviewURL == "/preview/3" &&
			u.Status != nil && *u.Status == entity.SiteStatusPreview
	}))
	mockLeads.AssertCalled(t, "Update", ctx, int64(7), mock.MatchedBy(func(u entity.LeadUpdate) bool {
		return u.Status != nil && *u.Status == entity.StagePreviewSent &&
			u.PreviewSentAt != nil && u.PreviewSentAt.Equal(now)
	}))
	mockProducer.AssertCalled(t, "PublishNotification", ctx, mock.MatchedBy(func(e queue.NotificationEvent) bool {
		return e.Kind == queue.KindPreviewReady && e.LeadID == 7 && e.PreviewURL == "/preview/3"
	}))
}

// TestGenerateSiteWrongStage - no second preview once the lead moved on.
func TestGenerateSiteWrongStage(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockSites := new(MockSiteRepository)
	mockGen := new(MockSiteGenerator)
	mockPreviews := new(MockPreviewWriter)
	mockProducer := new(MockNotificationProducer)

	mockLeads.On("GetByID", ctx, int64(7)).Return(testLead(7, entity.StageInDevelopment), nil)

	uc := usecase.NewGenerateSiteUseCase(mockLeads, mockSites, mockGen, mockPreviews, mockProducer,
		fixedClock{now: time.Now()})

	site, err := uc.Execute(ctx, usecase.GenerateSiteInput{LeadID: 7, Template: "restaurant"})

	assert.Error(t, err)
	assert.Nil(t, site)
	assert.True(t, usecase.IsInvalidState(err))
	mockSites.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestGenerateSiteNoEmail - lead without an email still gets the preview, the
// notification is just skipped.
func TestGenerateSiteNoEmail(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockSites := new(MockSiteRepository)
	mockGen := new(MockSiteGenerator)
	mockPreviews := new(MockPreviewWriter)
	mockProducer := new(MockNotificationProducer)

	lead := testLead(7, entity.StagePending)
	lead.Email = ""

	mockLeads.On("GetByID", ctx, int64(7)).Return(lead, nil)
	mockLeads.On("Update", ctx, int64(7), mock.Anything).Return(nil)
	mockSites.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Site).ID = 3
	}).Return(nil)
	mockSites.On("Update", ctx, int64(3), mock.Anything).Return(nil)
	mockGen.On("Generate", "restaurant", mock.Anything).Return("<html></html>", nil)
	mockPreviews.On("WritePreview", int64(3), mock.Anything).Return(nil)

	uc := usecase.NewGenerateSiteUseCase(mockLeads, mockSites, mockGen, mockPreviews, mockProducer,
		fixedClock{now: time.Now()})

	site, err := uc.Execute(ctx, usecase.GenerateSiteInput{LeadID: 7, Template: "restaurant"})

	assert.NoError(t, err)
	assert.NotNil(t, site)
	mockProducer.AssertNotCalled(t, "PublishNotification", mock.Anything, mock.Anything)
}

// TestGenerateSiteRenderFailure
func TestGenerateSiteRenderFailure(t *testing.T) {
	ctx := context.Background()

	mockLeads := new(MockLeadRepository)
	mockSites := new(MockSiteRepository)
	mockGen := new(MockSiteGenerator)
	mockPreviews := new(MockPreviewWriter)
	mockProducer := new(MockNotificationProducer)

	mockLeads.On("GetByID", ctx, int64(7)).Return(testLead(7, entity.StagePending), nil)
	mockSites.On("Create", ctx, mock.Anything).Return(nil)
	mockGen.On("Generate", "bogus", mock.Anything).Return("", errors.New("template bogus not found"))

	uc := usecase.NewGenerateSiteUseCase(mockLeads, mockSites, mockGen, mockPreviews, mockProducer,
		fixedClock{now: time.Now()})

	site, err := uc.Execute(ctx, usecase.GenerateSiteInput{LeadID: 7, Template: "bogus"})

	assert.Error(t, err)
	assert.Nil(t, site)
	mockPreviews.AssertNotCalled(t, "WritePreview", mock.Anything, mock.Anything)
	mockLeads.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}
