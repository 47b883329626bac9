package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/webpulse/webpulse-api/internal/entity"
)

type SiteRepository struct {
	DB *sql.DB
}

func NewSiteRepository(db *sql.DB) *SiteRepository {
	return &SiteRepository{DB: db}
}

const siteColumns = `
	id, lead_id, template, customizations, preview_url, final_url, status,
	development_started_at, estimated_completion, actual_completion,
	developer_notes, quality_checked, client_approved, created_at
`

func (r *SiteRepository) Create(ctx context.Context, site *entity.Site) error {
	query := `
		INSERT INTO generated_sites (lead_id, template, customizations, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.DB.QueryRowContext(
		ctx,
		query,
		site.LeadID,
		site.Template,
		[]byte(site.Customizations),
		site.Status,
	).Scan(&site.ID, &site.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create site: %w", err)
	}
	return nil
}

func (r *SiteRepository) GetByID(ctx context.Context, id int64) (*entity.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM generated_sites WHERE id = $1`
	return scanSite(r.DB.QueryRowContext(ctx, query, id))
}

func (r *SiteRepository) GetByLeadID(ctx context.Context, leadID int64) ([]*entity.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM generated_sites WHERE lead_id = $1 ORDER BY id ASC`

	rows, err := r.DB.QueryContext(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites for lead %d: %w", leadID, err)
	}
	defer rows.Close()

	var sites []*entity.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

func (r *SiteRepository) Update(ctx context.Context, id int64, upd entity.SiteUpdate) error {
	var set []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.PreviewURL != nil {
		add("preview_url", *upd.PreviewURL)
	}
	if upd.FinalURL != nil {
		add("final_url", *upd.FinalURL)
	}
	if upd.DevelopmentStartedAt != nil {
		add("development_started_at", *upd.DevelopmentStartedAt)
	}
	if upd.EstimatedCompletion != nil {
		add("estimated_completion", *upd.EstimatedCompletion)
	}
	if upd.ActualCompletion != nil {
		add("actual_completion", *upd.ActualCompletion)
	}
	if upd.DeveloperNotes != nil {
		add("developer_notes", *upd.DeveloperNotes)
	}
	if upd.QualityChecked != nil {
		add("quality_checked", *upd.QualityChecked)
	}
	if upd.ClientApproved != nil {
		add("client_approved", *upd.ClientApproved)
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE generated_sites SET %s WHERE id = $%d",
		strings.Join(set, ", "), len(args),
	)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update site: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanSite(row rowScanner) (*entity.Site, error) {
	var site entity.Site
	var previewURL, finalURL, developerNotes sql.NullString
	var customizations []byte

	err := row.Scan(
		&site.ID,
		&site.LeadID,
		&site.Template,
		&customizations,
		&previewURL,
		&finalURL,
		&site.Status,
		&site.DevelopmentStartedAt,
		&site.EstimatedCompletion,
		&site.ActualCompletion,
		&developerNotes,
		&site.QualityChecked,
		&site.ClientApproved,
		&site.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	site.Customizations = customizations
	site.PreviewURL = previewURL.String
	site.FinalURL = finalURL.String
	site.DeveloperNotes = developerNotes.String

	return &site, nil
}
