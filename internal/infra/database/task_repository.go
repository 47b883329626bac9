package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/webpulse/webpulse-api/internal/entity"
)

type TaskRepository struct {
	DB *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

// Insert arms a completion task. ON CONFLICT DO NOTHING keeps it at-most-one
// per (lead, site) even when StartDevelopment is called twice.
func (r *TaskRepository) Insert(ctx context.Context, task *entity.ScheduledTask) error {
	query := `
		INSERT INTO scheduled_tasks (id, lead_id, site_id, fire_at, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (lead_id, site_id) DO NOTHING
	`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		task.ID,
		task.LeadID,
		task.SiteID,
		task.FireAt,
		task.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert scheduled task: %w", err)
	}
	return nil
}

// ClaimDue flips due pending tasks to a claimed state and returns them.
// SKIP LOCKED keeps two pollers from claiming the same task.
func (r *TaskRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*entity.ScheduledTask, error) {
	query := `
		UPDATE scheduled_tasks
		SET status = 'claimed'
		WHERE id IN (
			SELECT id FROM scheduled_tasks
			WHERE status = 'pending' AND fire_at <= $1
			ORDER BY fire_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, lead_id, site_id, fire_at, status, created_at
	`

	rows, err := r.DB.QueryContext(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim due tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*entity.ScheduledTask
	for rows.Next() {
		var t entity.ScheduledTask
		if err := rows.Scan(&t.ID, &t.LeadID, &t.SiteID, &t.FireAt, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) MarkDone(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, entity.TaskStatusDone)
}

func (r *TaskRepository) MarkFailed(ctx context.Context, id string) error {
	return r.setStatus(ctx, id, entity.TaskStatusFailed)
}

func (r *TaskRepository) setStatus(ctx context.Context, id, status string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE scheduled_tasks SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to mark task %s %s: %w", id, status, err)
	}
	return nil
}

func (r *TaskRepository) Cancel(ctx context.Context, leadID, siteID int64) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM scheduled_tasks WHERE lead_id = $1 AND site_id = $2 AND status = 'pending'`,
		leadID, siteID)
	if err != nil {
		return fmt.Errorf("failed to cancel task for lead %d site %d: %w", leadID, siteID, err)
	}
	return nil
}
