package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/webpulse/webpulse-api/internal/entity"
)

type LeadRepository struct {
	DB *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

const leadColumns = `
	id, name, email, phone, address, industry, description, website, status,
	search_query, preview_sent_at, approved_at, deposit_paid_at,
	development_started_at, completed_at, delivered_at, estimated_delivery,
	development_notes, client_feedback, created_at, updated_at
`

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	query := `
		INSERT INTO business_leads (
			name, email, phone, address, industry, description, website,
			status, search_query, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRowContext(
		ctx,
		query,
		lead.Name,
		nullString(lead.Email),
		nullString(lead.Phone),
		nullString(lead.Address),
		lead.Industry,
		nullString(lead.Description),
		nullString(lead.Website),
		lead.Status,
		nullString(lead.SearchQuery),
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) GetByID(ctx context.Context, id int64) (*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM business_leads WHERE id = $1`
	return scanLead(r.DB.QueryRowContext(ctx, query, id))
}

// Update applies only the fields set on upd.
func (r *LeadRepository) Update(ctx context.Context, id int64, upd entity.LeadUpdate) error {
	set := []string{"updated_at = NOW()"}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.PreviewSentAt != nil {
		add("preview_sent_at", *upd.PreviewSentAt)
	}
	if upd.ApprovedAt != nil {
		add("approved_at", *upd.ApprovedAt)
	}
	if upd.DepositPaidAt != nil {
		add("deposit_paid_at", *upd.DepositPaidAt)
	}
	if upd.DevelopmentStartedAt != nil {
		add("development_started_at", *upd.DevelopmentStartedAt)
	}
	if upd.CompletedAt != nil {
		add("completed_at", *upd.CompletedAt)
	}
	if upd.DeliveredAt != nil {
		add("delivered_at", *upd.DeliveredAt)
	}
	if upd.EstimatedDelivery != nil {
		add("estimated_delivery", *upd.EstimatedDelivery)
	}
	if upd.DevelopmentNotes != nil {
		add("development_notes", *upd.DevelopmentNotes)
	}
	if upd.ClientFeedback != nil {
		add("client_feedback", *upd.ClientFeedback)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE business_leads SET %s WHERE id = $%d",
		strings.Join(set, ", "), len(args),
	)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *LeadRepository) ListByStatus(ctx context.Context, status entity.Stage) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM business_leads WHERE status = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, status)
}

func (r *LeadRepository) ListByIndustry(ctx context.Context, industry string) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM business_leads WHERE industry = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, industry)
}

func (r *LeadRepository) ListAll(ctx context.Context) ([]*entity.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM business_leads ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *LeadRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Lead, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []*entity.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLead(row rowScanner) (*entity.Lead, error) {
	var lead entity.Lead
	var email, phone, address, description, website, searchQuery sql.NullString
	var devNotes, feedback sql.NullString

	err := row.Scan(
		&lead.ID,
		&lead.Name,
		&email,
		&phone,
		&address,
		&lead.Industry,
		&description,
		&website,
		&lead.Status,
		&searchQuery,
		&lead.PreviewSentAt,
		&lead.ApprovedAt,
		&lead.DepositPaidAt,
		&lead.DevelopmentStartedAt,
		&lead.CompletedAt,
		&lead.DeliveredAt,
		&lead.EstimatedDelivery,
		&devNotes,
		&feedback,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	lead.Email = email.String
	lead.Phone = phone.String
	lead.Address = address.String
	lead.Description = description.String
	lead.Website = website.String
	lead.SearchQuery = searchQuery.String
	lead.DevelopmentNotes = devNotes.String
	lead.ClientFeedback = feedback.String

	return &lead, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
