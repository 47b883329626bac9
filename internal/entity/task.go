package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Scheduled task status values.
const (
	TaskStatusPending = "pending"
	TaskStatusDone    = "done"
	TaskStatusFailed  = "failed"
)

// ScheduledTask is a durable deferred-completion entry. One row per
// (lead, site) pair at most, so a duplicate StartDevelopment or a process
// restart can never arm a second completion for the same site.
type ScheduledTask struct {
	ID        string    `json:"id"`
	LeadID    int64     `json:"lead_id"`
	SiteID    int64     `json:"site_id"`
	FireAt    time.Time `json:"fire_at"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func NewScheduledTask(leadID, siteID int64, fireAt time.Time) *ScheduledTask {
	return &ScheduledTask{
		ID:     uuid.New().String(),
		LeadID: leadID,
		SiteID: siteID,
		FireAt: fireAt,
		Status: TaskStatusPending,
	}
}

type TaskRepositoryInterface interface {
	// Insert arms the task unless a pending one already exists for the pair.
	Insert(ctx context.Context, task *ScheduledTask) error
	// ClaimDue atomically claims up to limit due pending tasks.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*ScheduledTask, error)
	MarkDone(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string) error
	// Cancel removes a pending task before it fires.
	Cancel(ctx context.Context, leadID, siteID int64) error
}
