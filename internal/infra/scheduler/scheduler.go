// Package scheduler persists deferred completion tasks and fires them with a
// polling worker. Tasks are rows, so pending completions survive a process
// restart; the first poll after boot picks up whatever came due while the
// process was down.
package scheduler

import (
	"context"
	"time"

	"github.com/webpulse/webpulse-api/internal/entity"
)

// DBScheduler arms tasks in the scheduled_tasks table.
type DBScheduler struct {
	Tasks entity.TaskRepositoryInterface
}

func NewDBScheduler(tasks entity.TaskRepositoryInterface) *DBScheduler {
	return &DBScheduler{Tasks: tasks}
}

func (s *DBScheduler) Schedule(ctx context.Context, leadID, siteID int64, fireAt time.Time) error {
	return s.Tasks.Insert(ctx, entity.NewScheduledTask(leadID, siteID, fireAt))
}

func (s *DBScheduler) Cancel(ctx context.Context, leadID, siteID int64) error {
	return s.Tasks.Cancel(ctx, leadID, siteID)
}
