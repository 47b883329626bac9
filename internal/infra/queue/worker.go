package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/webpulse/webpulse-api/internal/infra/http/middleware"
)

// MailSender is the delivery side of the notification pipeline.
type MailSender interface {
	SendPreviewReady(to, name, previewURL string) error
	SendPaymentConfirmation(to, name string) error
	SendDevelopmentStarted(to, name, estimatedDate string) error
	SendWebsiteCompleted(to, name, siteURL string) error
	SendWebsiteDelivered(to, name, siteURL string) error
	SendReminder(to, name string) error
}

type Worker struct {
	Channel *amqp.Channel
	Mail    MailSender
}

func NewWorker(ch *amqp.Channel, mail MailSender) *Worker {
	return &Worker{
		Channel: ch,
		Mail:    mail,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ Failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var event NotificationEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				log.Printf("❌ [WORKER] Malformed notification event: %s", err)
				// Poison message. Reject without requeue so it lands on the DLQ.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] %s notification for lead %d (%s)", event.Kind, event.LeadID, event.Email)

			if err := w.sendEmail(event); err != nil {
				log.Printf("❌ [WORKER] Failed to send %s email: %s", event.Kind, err)
				middleware.RecordNotification(event.Kind, "failed")
				// SMTP failures go to the DLQ for inspection instead of
				// hammering the server with immediate requeues.
				d.Nack(false, false)
			} else {
				middleware.RecordNotification(event.Kind, "sent")
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Notification worker waiting on queue '%s'", queueName)
	<-forever
}

func (w *Worker) sendEmail(event NotificationEvent) error {
	switch event.Kind {
	case KindPreviewReady:
		return w.Mail.SendPreviewReady(event.Email, event.Name, event.PreviewURL)
	case KindPaymentConfirmation:
		return w.Mail.SendPaymentConfirmation(event.Email, event.Name)
	case KindDevelopmentStarted:
		return w.Mail.SendDevelopmentStarted(event.Email, event.Name, event.EstimatedDate)
	case KindWebsiteCompleted:
		return w.Mail.SendWebsiteCompleted(event.Email, event.Name, event.SiteURL)
	case KindWebsiteDelivered:
		return w.Mail.SendWebsiteDelivered(event.Email, event.Name, event.SiteURL)
	case KindReminder:
		return w.Mail.SendReminder(event.Email, event.Name)
	default:
		// Ack and drop: we have no handler, requeueing will not grow one.
		log.Printf("⚠️ Unknown notification kind %q, dropping", event.Kind)
		return nil
	}
}
