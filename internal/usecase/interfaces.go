package usecase

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/webpulse/webpulse-api/internal/entity"
	"github.com/webpulse/webpulse-api/internal/infra/queue"
)

// Scheduler arms and cancels deferred completion tasks. Durability is the
// implementation's problem; the engine only asks for "run completion later".
type Scheduler interface {
	Schedule(ctx context.Context, leadID, siteID int64, fireAt time.Time) error
	Cancel(ctx context.Context, leadID, siteID int64) error
}

// Clock is injectable so tests can pin time.
type Clock interface {
	Now() time.Time
}

// Dice is the random source for the development-duration pick.
type Dice interface {
	Roll(n int) int // uniform over [0, n)
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type SystemDice struct{}

func (SystemDice) Roll(n int) int { return rand.Intn(n) }

type WorkflowStatus struct {
	CurrentStage        entity.Stage `json:"current_stage"`
	Progress            int          `json:"progress"`
	EstimatedCompletion *time.Time   `json:"estimated_completion,omitempty"`
	DaysRemaining       *int         `json:"days_remaining,omitempty"`
}

// WorkflowEngine drives a lead/site pair through the lifecycle stages. It
// holds no state of its own beyond the per-lead locks; records live in the
// repositories, pending completions in the scheduler's store.
type WorkflowEngine struct {
	Leads     entity.LeadRepositoryInterface
	Sites     entity.SiteRepositoryInterface
	Payments  entity.PaymentRepositoryInterface
	Queue     queue.NotificationProducerInterface
	Scheduler Scheduler
	Clock     Clock
	Dice      Dice

	// SiteBaseURL is the hosting root final URLs are built under.
	SiteBaseURL string

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewWorkflowEngine(
	leads entity.LeadRepositoryInterface,
	sites entity.SiteRepositoryInterface,
	payments entity.PaymentRepositoryInterface,
	producer queue.NotificationProducerInterface,
	scheduler Scheduler,
	clock Clock,
	dice Dice,
	siteBaseURL string,
) *WorkflowEngine {
	return &WorkflowEngine{
		Leads:       leads,
		Sites:       sites,
		Payments:    payments,
		Queue:       producer,
		Scheduler:   scheduler,
		Clock:       clock,
		Dice:        dice,
		SiteBaseURL: siteBaseURL,
		locks:       make(map[int64]*sync.Mutex),
	}
}

// leadLock returns the mutex serializing mutations for one lead. Concurrent
// deposits or duplicate StartDevelopment calls for the same lead must not
// interleave (double payment, double task).
func (e *WorkflowEngine) leadLock(leadID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, ok := e.locks[leadID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[leadID] = l
	}
	return l
}
