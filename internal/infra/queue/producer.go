package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Notification kinds. Each maps to an email template on the consumer side.
const (
	KindPreviewReady        = "preview_ready"
	KindPaymentConfirmation = "payment_confirmation"
	KindDevelopmentStarted  = "development_started"
	KindWebsiteCompleted    = "website_completed"
	KindWebsiteDelivered    = "website_delivered"
	KindReminder            = "reminder"
)

// NotificationEvent is the wire payload for one outbound client email.
type NotificationEvent struct {
	EventID string `json:"event_id"`
	Kind    string `json:"kind"`
	LeadID  int64  `json:"lead_id"`

	Email string `json:"email"`
	Name  string `json:"name"`

	// Kind-specific fields. Empty when not applicable.
	PreviewURL    string `json:"preview_url,omitempty"`
	EstimatedDate string `json:"estimated_date,omitempty"`
	SiteURL       string `json:"site_url,omitempty"`
}

type NotificationProducerInterface interface {
	PublishNotification(ctx context.Context, event NotificationEvent) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishNotification(ctx context.Context, event NotificationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal notification event: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.EventID,
			Body:         body,
			DeliveryMode: amqp.Persistent, // survives a broker restart
		},
	)

	if err != nil {
		return fmt.Errorf("failed to publish to RabbitMQ: %v", err)
	}

	return nil
}
