package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/webpulse/webpulse-api/internal/entity"
	"github.com/webpulse/webpulse-api/internal/infra/http/middleware"
	"github.com/webpulse/webpulse-api/internal/usecase"
)

// Completer is the slice of the workflow engine the worker needs.
type Completer interface {
	CompleteDevelopment(ctx context.Context, leadID, siteID int64) error
}

type Worker struct {
	tasks        entity.TaskRepositoryInterface
	engine       Completer
	clock        usecase.Clock
	tickInterval time.Duration
	claimLimit   int
}

func NewWorker(tasks entity.TaskRepositoryInterface, engine Completer, clock usecase.Clock) *Worker {
	return &Worker{
		tasks:        tasks,
		engine:       engine,
		clock:        clock,
		tickInterval: 1 * time.Minute,
		claimLimit:   10,
	}
}

// Start polls until ctx is cancelled. The first pass runs immediately so
// tasks that came due during downtime fire on boot.
func (w *Worker) Start(ctx context.Context) {
	log.Println("🕒 Completion scheduler worker started")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.runDueTasks(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Completion scheduler worker stopped")
			return
		case <-ticker.C:
			w.runDueTasks(ctx)
		}
	}
}

func (w *Worker) runDueTasks(ctx context.Context) {
	tasks, err := w.tasks.ClaimDue(ctx, w.clock.Now(), w.claimLimit)
	if err != nil {
		log.Printf("❌ Failed to claim due completion tasks: %v", err)
		return
	}

	for _, task := range tasks {
		if err := w.engine.CompleteDevelopment(ctx, task.LeadID, task.SiteID); err != nil {
			// A missing record or a regressed status at fire time will not
			// fix itself; park the task instead of retrying forever.
			log.Printf("❌ Completion task %s (lead=%d site=%d) failed: %v",
				task.ID, task.LeadID, task.SiteID, err)
			middleware.RecordCompletionTask("failed")
			if markErr := w.tasks.MarkFailed(ctx, task.ID); markErr != nil {
				log.Printf("❌ Failed to mark task %s failed: %v", task.ID, markErr)
			}
			continue
		}

		log.Printf("✅ Development completed for lead=%d site=%d (task %s)",
			task.LeadID, task.SiteID, task.ID)
		middleware.RecordCompletionTask("done")
		if err := w.tasks.MarkDone(ctx, task.ID); err != nil {
			log.Printf("❌ Failed to mark task %s done: %v", task.ID, err)
		}
	}
}
