package entity

import (
	"context"
	"errors"
	"time"
)

type Lead struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Industry    string `json:"industry"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
	Status      Stage  `json:"status"`
	SearchQuery string `json:"search_query,omitempty"`

	PreviewSentAt        *time.Time `json:"preview_sent_at,omitempty"`
	ApprovedAt           *time.Time `json:"approved_at,omitempty"`
	DepositPaidAt        *time.Time `json:"deposit_paid_at,omitempty"`
	DevelopmentStartedAt *time.Time `json:"development_started_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	DeliveredAt          *time.Time `json:"delivered_at,omitempty"`
	EstimatedDelivery    *time.Time `json:"estimated_delivery,omitempty"`

	DevelopmentNotes string `json:"development_notes,omitempty"`
	ClientFeedback   string `json:"client_feedback,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeadUpdate carries the partial fields of an update; nil means leave as is.
type LeadUpdate struct {
	Status               *Stage
	PreviewSentAt        *time.Time
	ApprovedAt           *time.Time
	DepositPaidAt        *time.Time
	DevelopmentStartedAt *time.Time
	CompletedAt          *time.Time
	DeliveredAt          *time.Time
	EstimatedDelivery    *time.Time
	DevelopmentNotes     *string
	ClientFeedback       *string
}

// Factory
func NewLead(name, email, phone, address, industry, description, website string) (*Lead, error) {
	lead := &Lead{
		Name:        name,
		Email:       email,
		Phone:       phone,
		Address:     address,
		Industry:    industry,
		Description: description,
		Website:     website,
		Status:      StagePending,
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Industry == "" {
		return errors.New("industry is required")
	}
	return nil
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	GetByID(ctx context.Context, id int64) (*Lead, error)
	Update(ctx context.Context, id int64, upd LeadUpdate) error
	ListByStatus(ctx context.Context, status Stage) ([]*Lead, error)
	ListByIndustry(ctx context.Context, industry string) ([]*Lead, error)
	ListAll(ctx context.Context) ([]*Lead, error)
}
