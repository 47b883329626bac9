package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/webpulse/webpulse-api/internal/entity"
)

// GetWorkflowStatus projects the lead's pipeline position. Pure read,
// recomputed on every call: the status can change between calls.
func (e *WorkflowEngine) GetWorkflowStatus(ctx context.Context, leadID int64) (*WorkflowStatus, error) {
	lead, err := e.getLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if entity.StageIndex(lead.Status) < 0 {
		// A status outside the pipeline means the row was edited out of band.
		// Reporting made-up progress for it would be lying.
		return nil, &InvalidStateError{
			Message: fmt.Sprintf("lead %d has unknown status %q", leadID, lead.Status),
		}
	}

	status := &WorkflowStatus{
		CurrentStage:        lead.Status,
		Progress:            entity.Progress(lead.Status),
		EstimatedCompletion: lead.EstimatedDelivery,
	}

	if lead.EstimatedDelivery != nil {
		remaining := lead.EstimatedDelivery.Sub(e.Clock.Now())
		days := int(math.Ceil(remaining.Hours() / 24))
		if days > 0 {
			status.DaysRemaining = &days
		}
	}

	return status, nil
}
