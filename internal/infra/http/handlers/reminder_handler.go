package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/webpulse/webpulse-api/internal/entity"
	"github.com/webpulse/webpulse-api/internal/infra/queue"
)

// reminderAge is how long a lead may sit pending before we nudge the client.
const reminderAge = 48 * time.Hour

type ReminderHandler struct {
	Leads entity.LeadRepositoryInterface
	Queue queue.NotificationProducerInterface
}

func NewReminderHandler(leads entity.LeadRepositoryInterface, producer queue.NotificationProducerInterface) *ReminderHandler {
	return &ReminderHandler{Leads: leads, Queue: producer}
}

// HandleSend sweeps stale pending leads and queues a reminder for each.
func (h *ReminderHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.ListByStatus(r.Context(), entity.StagePending)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Failed to list pending leads"})
		return
	}

	cutoff := time.Now().Add(-reminderAge)
	sent := 0
	for _, lead := range leads {
		if lead.Email == "" || lead.CreatedAt.After(cutoff) {
			continue
		}

		event := queue.NotificationEvent{
			EventID: uuid.New().String(),
			Kind:    queue.KindReminder,
			LeadID:  lead.ID,
			Email:   lead.Email,
			Name:    lead.Name,
		}
		if err := h.Queue.PublishNotification(r.Context(), event); err != nil {
			log.Printf("⚠️ Failed to queue reminder for lead %d: %v", lead.ID, err)
			continue
		}
		sent++
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Sent %d reminder emails", sent),
	})
}
