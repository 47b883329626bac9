package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/webpulse/webpulse-api/internal/entity"
	"github.com/webpulse/webpulse-api/internal/infra/queue"
)

const (
	// Fixed deposit: 60% of the 11500 package price. Not derived per lead.
	depositAmount  = "6800.00"
	depositGateway = "paypal"

	minDevelopmentDays   = 3
	developmentDaySpread = 3 // uniform over {3,4,5}
)

// ApproveLead marks a previewed lead as approved by the client.
func (e *WorkflowEngine) ApproveLead(ctx context.Context, leadID int64) error {
	lock := e.leadLock(leadID)
	lock.Lock()
	defer lock.Unlock()

	lead, err := e.getLead(ctx, leadID)
	if err != nil {
		return err
	}
	if err := stageGuard(lead, entity.StageApproved); err != nil {
		return err
	}

	now := e.Clock.Now()
	return e.updateLead(ctx, leadID, entity.LeadUpdate{
		Status:     stagePtr(entity.StageApproved),
		ApprovedAt: &now,
	})
}

// ProcessDepositPayment records the captured deposit and kicks off development
// on the lead's first site. paymentID is the gateway transaction reference.
func (e *WorkflowEngine) ProcessDepositPayment(ctx context.Context, leadID int64, paymentID string) error {
	lock := e.leadLock(leadID)
	lock.Lock()
	defer lock.Unlock()

	lead, err := e.getLead(ctx, leadID)
	if err != nil {
		return err
	}
	if err := stageGuard(lead, entity.StageDepositPaid); err != nil {
		return err
	}

	now := e.Clock.Now()
	err = e.updateLead(ctx, leadID, entity.LeadUpdate{
		Status:           stagePtr(entity.StageDepositPaid),
		DepositPaidAt:    &now,
		DevelopmentNotes: strPtr("Deposit payment received - development will begin"),
	})
	if err != nil {
		return err
	}

	payment := &entity.Payment{
		LeadID:        leadID,
		Amount:        depositAmount,
		Gateway:       depositGateway,
		TransactionID: paymentID,
		Status:        entity.PaymentStatusCompleted,
		PaymentType:   entity.PaymentTypeDeposit,
	}
	if err := e.Payments.Create(ctx, payment); err != nil {
		return fmt.Errorf("failed to record deposit payment: %w", err)
	}

	e.notify(ctx, queue.NotificationEvent{
		Kind:   queue.KindPaymentConfirmation,
		LeadID: leadID,
		Email:  lead.Email,
		Name:   lead.Name,
	})

	sites, err := e.Sites.GetByLeadID(ctx, leadID)
	if err != nil {
		return fmt.Errorf("failed to look up sites for lead %d: %w", leadID, err)
	}
	if len(sites) == 0 {
		log.Printf("⚠️ lead %d paid deposit but has no generated site; development not started", leadID)
		return nil
	}

	// No primary-site concept exists; lowest ID wins.
	return e.startDevelopment(ctx, leadID, sites[0].ID)
}

// StartDevelopment begins the simulated build: picks a 3-5 day duration, sets
// the estimate on lead and site, arms the deferred completion task and
// notifies the client.
func (e *WorkflowEngine) StartDevelopment(ctx context.Context, leadID, siteID int64) error {
	lock := e.leadLock(leadID)
	lock.Lock()
	defer lock.Unlock()

	return e.startDevelopment(ctx, leadID, siteID)
}

func (e *WorkflowEngine) startDevelopment(ctx context.Context, leadID, siteID int64) error {
	lead, err := e.getLead(ctx, leadID)
	if err != nil {
		return err
	}
	site, err := e.getSite(ctx, siteID)
	if err != nil {
		return err
	}
	if err := stageGuard(lead, entity.StageInDevelopment); err != nil {
		return err
	}

	days := minDevelopmentDays + e.Dice.Roll(developmentDaySpread)
	now := e.Clock.Now()
	estimated := now.AddDate(0, 0, days)

	err = e.updateLead(ctx, leadID, entity.LeadUpdate{
		Status:               stagePtr(entity.StageInDevelopment),
		DevelopmentStartedAt: &now,
		EstimatedDelivery:    &estimated,
		DevelopmentNotes:     strPtr(fmt.Sprintf("Development started - estimated completion in %d days", days)),
	})
	if err != nil {
		return err
	}

	err = e.updateSite(ctx, site.ID, entity.SiteUpdate{
		Status:               strPtr(entity.SiteStatusInDevelopment),
		DevelopmentStartedAt: &now,
		EstimatedCompletion:  &estimated,
		DeveloperNotes:       strPtr("Website development in progress"),
	})
	if err != nil {
		return err
	}

	// The task fires when the estimate lands, d days out, so the completion
	// date the client was told and the actual completion stay in sync.
	if err := e.Scheduler.Schedule(ctx, leadID, siteID, estimated); err != nil {
		return &SchedulingError{Err: err}
	}

	e.notify(ctx, queue.NotificationEvent{
		Kind:          queue.KindDevelopmentStarted,
		LeadID:        leadID,
		Email:         lead.Email,
		Name:          lead.Name,
		EstimatedDate: estimated.Format("January 2, 2006"),
	})

	return nil
}

// CompleteDevelopment finishes the build: publishes the final URL, flags the
// quality check and notifies the client. Invoked by the scheduler worker when
// the deferred task fires.
func (e *WorkflowEngine) CompleteDevelopment(ctx context.Context, leadID, siteID int64) error {
	lock := e.leadLock(leadID)
	lock.Lock()
	defer lock.Unlock()

	lead, err := e.getLead(ctx, leadID)
	if err != nil {
		return err
	}
	site, err := e.getSite(ctx, siteID)
	if err != nil {
		return err
	}
	if err := stageGuard(lead, entity.StageCompleted); err != nil {
		return err
	}

	finalURL := e.finalSiteURL(lead.Name, leadID)
	now := e.Clock.Now()

	err = e.updateLead(ctx, leadID, entity.LeadUpdate{
		Status:           stagePtr(entity.StageCompleted),
		CompletedAt:      &now,
		DevelopmentNotes: strPtr("Website development completed successfully"),
	})
	if err != nil {
		return err
	}

	err = e.updateSite(ctx, site.ID, entity.SiteUpdate{
		Status:           strPtr(entity.SiteStatusCompleted),
		ActualCompletion: &now,
		FinalURL:         &finalURL,
		QualityChecked:   boolPtr(true),
		DeveloperNotes:   strPtr("Website ready for client review and delivery"),
	})
	if err != nil {
		return err
	}

	e.notify(ctx, queue.NotificationEvent{
		Kind:    queue.KindWebsiteCompleted,
		LeadID:  leadID,
		Email:   lead.Email,
		Name:    lead.Name,
		SiteURL: finalURL,
	})

	return nil
}

// DeliverWebsite hands the completed site over to the client.
func (e *WorkflowEngine) DeliverWebsite(ctx context.Context, leadID, siteID int64) error {
	lock := e.leadLock(leadID)
	lock.Lock()
	defer lock.Unlock()

	lead, err := e.getLead(ctx, leadID)
	if err != nil {
		return err
	}
	site, err := e.getSite(ctx, siteID)
	if err != nil {
		return err
	}

	if site.Status != entity.SiteStatusCompleted {
		return &InvalidStateError{Message: "website must be completed before delivery"}
	}
	// Covers repeat delivery too: delivered is terminal.
	if err := stageGuard(lead, entity.StageDelivered); err != nil {
		return err
	}

	now := e.Clock.Now()
	err = e.updateLead(ctx, leadID, entity.LeadUpdate{
		Status:           stagePtr(entity.StageDelivered),
		DeliveredAt:      &now,
		DevelopmentNotes: strPtr("Website delivered to client"),
	})
	if err != nil {
		return err
	}

	err = e.updateSite(ctx, site.ID, entity.SiteUpdate{
		Status:         strPtr(entity.SiteStatusDelivered),
		ClientApproved: boolPtr(true),
	})
	if err != nil {
		return err
	}

	e.notify(ctx, queue.NotificationEvent{
		Kind:    queue.KindWebsiteDelivered,
		LeadID:  leadID,
		Email:   lead.Email,
		Name:    lead.Name,
		SiteURL: site.FinalURL,
	})

	return nil
}

// CancelDevelopment disarms a pending completion task, e.g. when a lead is
// abandoned mid-build. The records themselves are left alone.
func (e *WorkflowEngine) CancelDevelopment(ctx context.Context, leadID, siteID int64) error {
	return e.Scheduler.Cancel(ctx, leadID, siteID)
}

func (e *WorkflowEngine) getLead(ctx context.Context, leadID int64) (*entity.Lead, error) {
	lead, err := e.Leads.GetByID(ctx, leadID)
	if err != nil {
		return nil, &NotFoundError{Resource: "lead", ID: leadID}
	}
	return lead, nil
}

func (e *WorkflowEngine) getSite(ctx context.Context, siteID int64) (*entity.Site, error) {
	site, err := e.Sites.GetByID(ctx, siteID)
	if err != nil {
		return nil, &NotFoundError{Resource: "site", ID: siteID}
	}
	return site, nil
}

func (e *WorkflowEngine) updateLead(ctx context.Context, leadID int64, upd entity.LeadUpdate) error {
	if err := e.Leads.Update(ctx, leadID, upd); err != nil {
		return fmt.Errorf("failed to update lead %d: %w", leadID, err)
	}
	return nil
}

func (e *WorkflowEngine) updateSite(ctx context.Context, siteID int64, upd entity.SiteUpdate) error {
	if err := e.Sites.Update(ctx, siteID, upd); err != nil {
		return fmt.Errorf("failed to update site %d: %w", siteID, err)
	}
	return nil
}

// notify publishes a client email event. A publish failure never rolls back
// the transition that triggered it; the event is lost to the DLQ-side alert
// and we log it as CRITICAL.
func (e *WorkflowEngine) notify(ctx context.Context, event queue.NotificationEvent) {
	if event.Email == "" {
		return
	}
	event.EventID = uuid.New().String()

	if err := e.Queue.PublishNotification(ctx, event); err != nil {
		log.Printf("⚠️ CRITICAL: %s transition committed but notification publish failed: %v", event.Kind, err)
	}
}

func stageGuard(lead *entity.Lead, to entity.Stage) error {
	if !entity.CanTransition(lead.Status, to) {
		return &InvalidStateError{
			Message: fmt.Sprintf("lead %d cannot move from %s to %s", lead.ID, lead.Status, to),
		}
	}
	return nil
}

// finalSiteURL builds the deterministic hosting URL: slug(name)-leadID under
// the configured base. "Joe's Pizza", 7 -> .../joes-pizza-7
func (e *WorkflowEngine) finalSiteURL(name string, leadID int64) string {
	return fmt.Sprintf("%s/%s-%d", strings.TrimRight(e.SiteBaseURL, "/"), Slugify(name), leadID)
}

// Slugify lowercases, drops apostrophes and collapses every other
// non-alphanumeric run into a single dash.
func Slugify(name string) string {
	var b strings.Builder
	dash := true // swallows leading separators
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r == '\'':
			// "Joe's" becomes "joes", not "joe-s"
		default:
			if !dash {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func stagePtr(s entity.Stage) *entity.Stage { return &s }
func strPtr(s string) *string               { return &s }
func boolPtr(b bool) *bool                  { return &b }
