package entity

import (
	"context"
	"time"
)

type Payment struct {
	ID            int64     `json:"id"`
	LeadID        int64     `json:"lead_id"`
	SiteID        *int64    `json:"site_id,omitempty"`
	Amount        string    `json:"amount"` // decimal carried as text, never float
	Gateway       string    `json:"gateway"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Status        string    `json:"status"`       // pending, completed, failed, refunded
	PaymentType   string    `json:"payment_type"` // deposit, full, refund
	CreatedAt     time.Time `json:"created_at"`
}

type PaymentUpdate struct {
	Status        *string
	TransactionID *string
}

type PaymentRepositoryInterface interface {
	Create(ctx context.Context, payment *Payment) error
	GetByLeadID(ctx context.Context, leadID int64) ([]*Payment, error)
	Update(ctx context.Context, id int64, upd PaymentUpdate) error
	ListAll(ctx context.Context) ([]*Payment, error)
}
