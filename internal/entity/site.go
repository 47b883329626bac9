package entity

import (
	"context"
	"encoding/json"
	"time"
)

type Site struct {
	ID             int64           `json:"id"`
	LeadID         int64           `json:"lead_id"`
	Template       string          `json:"template"`
	Customizations json.RawMessage `json:"customizations"`
	PreviewURL     string          `json:"preview_url,omitempty"`
	FinalURL       string          `json:"final_url,omitempty"`
	Status         string          `json:"status"` // draft, preview, in_development, completed, delivered

	DevelopmentStartedAt *time.Time `json:"development_started_at,omitempty"`
	EstimatedCompletion  *time.Time `json:"estimated_completion,omitempty"`
	ActualCompletion     *time.Time `json:"actual_completion,omitempty"`

	DeveloperNotes string `json:"developer_notes,omitempty"`
	QualityChecked bool   `json:"quality_checked"`
	ClientApproved bool   `json:"client_approved"`

	CreatedAt time.Time `json:"created_at"`
}

type SiteUpdate struct {
	Status               *string
	PreviewURL           *string
	FinalURL             *string
	DevelopmentStartedAt *time.Time
	EstimatedCompletion  *time.Time
	ActualCompletion     *time.Time
	DeveloperNotes       *string
	QualityChecked       *bool
	ClientApproved       *bool
}

type SiteRepositoryInterface interface {
	Create(ctx context.Context, site *Site) error
	GetByID(ctx context.Context, id int64) (*Site, error)
	GetByLeadID(ctx context.Context, leadID int64) ([]*Site, error)
	Update(ctx context.Context, id int64, upd SiteUpdate) error
}
