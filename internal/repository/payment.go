package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"paytrack/internal/domain"
)

type PaymentsFilter struct {
	Barcode   *int64
	StartDate *string
	EndDate   *string
}

// PaymentRepository reads the append-only payments ledger.
type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func buildPaymentsWhere(f PaymentsFilter, startIdx int) (string, []any) {
	where := []string{"1=1"}
	args := []any{}
	i := startIdx

	if f.Barcode != nil {
		where = append(where, fmt.Sprintf("barcode = $%d", i))
		args = append(args, *f.Barcode)
		i++
	}
	if f.StartDate != nil && *f.StartDate != "" {
		where = append(where, fmt.Sprintf("paid_date >= $%d", i))
		args = append(args, *f.StartDate)
		i++
	}
	if f.EndDate != nil && *f.EndDate != "" {
		where = append(where, fmt.Sprintf("paid_date <= $%d", i))
		args = append(args, *f.EndDate)
		i++
	}

	return strings.Join(where, " AND "), args
}

func (r *PaymentRepository) List(ctx context.Context, f PaymentsFilter) ([]domain.PaymentRecord, error) {
	base := `SELECT id, barcode, amount, payment_method, card_number, paid_date, created_at FROM payments`

	where, args := buildPaymentsWhere(f, 1)
	query := base + " WHERE " + where + " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PaymentRecord
	for rows.Next() {
		var p domain.PaymentRecord
		if err := rows.Scan(
			&p.ID,
			&p.Barcode,
			&p.Amount,
			&p.PaymentMethod,
			&p.CardNumber,
			&p.PaidDate,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PaymentRepository) HasMoreThan(ctx context.Context, limit int64, f PaymentsFilter) (bool, error) {
	base := `SELECT COUNT(*) > $1 FROM payments`

	where, args := buildPaymentsWhere(f, 2)
	query := base + " WHERE " + where
	args = append([]any{limit}, args...)

	var tooMany bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&tooMany); err != nil {
		return false, err
	}
	return tooMany, nil
}
