package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/webpulse/webpulse-api/internal/entity"
)

type PaymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

const paymentColumns = `
	id, lead_id, site_id, amount, gateway, transaction_id, status,
	payment_type, created_at
`

func (r *PaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (
			lead_id, site_id, amount, gateway, transaction_id, status, payment_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.DB.QueryRowContext(
		ctx,
		query,
		payment.LeadID,
		payment.SiteID,
		payment.Amount,
		payment.Gateway,
		nullString(payment.TransactionID),
		payment.Status,
		payment.PaymentType,
	).Scan(&payment.ID, &payment.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByLeadID(ctx context.Context, leadID int64) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE lead_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, leadID)
}

func (r *PaymentRepository) ListAll(ctx context.Context) ([]*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *PaymentRepository) Update(ctx context.Context, id int64, upd entity.PaymentUpdate) error {
	var set []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.TransactionID != nil {
		add("transaction_id", *upd.TransactionID)
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE payments SET %s WHERE id = $%d",
		strings.Join(set, ", "), len(args),
	)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PaymentRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Payment, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		var transactionID sql.NullString

		err := rows.Scan(
			&p.ID,
			&p.LeadID,
			&p.SiteID,
			&p.Amount,
			&p.Gateway,
			&transactionID,
			&p.Status,
			&p.PaymentType,
			&p.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		p.TransactionID = transactionID.String
		payments = append(payments, &p)
	}
	return payments, rows.Err()
}
