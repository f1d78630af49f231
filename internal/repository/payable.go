package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"paytrack/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

// ConstraintViolationError is returned by Insert when a unique
// constraint is violated. Table and Column come from the structured
// driver error, not from parsing the message text.
type ConstraintViolationError struct {
	Table  string
	Column string
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("duplicate key value violates unique constraint on %s.%s", e.Table, e.Column)
}

// constraintViolation extracts structured unique-violation details from
// a pgx error, or returns nil for any other error.
func constraintViolation(err error) *ConstraintViolationError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return nil
	}
	column := pgErr.ColumnName
	if column == "" {
		// Unique violations usually carry only the constraint name;
		// our schema names constraints <table>_<column>_key.
		column = strings.TrimSuffix(strings.TrimPrefix(pgErr.ConstraintName, pgErr.TableName+"_"), "_key")
	}
	return &ConstraintViolationError{Table: pgErr.TableName, Column: column}
}

type PayableRepository struct {
	db *sql.DB
}

func NewPayableRepository(db *sql.DB) *PayableRepository {
	return &PayableRepository{db: db}
}

// EnsureSchema creates the payables table and the append-only payments
// ledger when they do not exist yet.
func (r *PayableRepository) EnsureSchema(ctx context.Context) error {
	const payables = `CREATE TABLE IF NOT EXISTS payables (
		service_type   TEXT NOT NULL,
		description    TEXT NOT NULL,
		due_date       TEXT NOT NULL,
		amount         DOUBLE PRECISION NOT NULL,
		payment_status TEXT NOT NULL,
		barcode        BIGINT NOT NULL,
		payment_method TEXT NOT NULL DEFAULT 'N/A',
		card_number    TEXT NOT NULL DEFAULT 'N/A',
		amount_paid    DOUBLE PRECISION NOT NULL DEFAULT 0,
		pay_date       TEXT NOT NULL DEFAULT 'N/A',
		CONSTRAINT payables_barcode_key PRIMARY KEY (barcode)
	)`

	const payments = `CREATE TABLE IF NOT EXISTS payments (
		id             BIGSERIAL PRIMARY KEY,
		barcode        BIGINT NOT NULL REFERENCES payables (barcode),
		amount         DOUBLE PRECISION NOT NULL,
		payment_method TEXT NOT NULL,
		card_number    TEXT NOT NULL,
		paid_date      TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

	if _, err := r.db.ExecContext(ctx, payables); err != nil {
		return fmt.Errorf("create payables table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, payments); err != nil {
		return fmt.Errorf("create payments table: %w", err)
	}
	return nil
}

// Insert creates one payable row. A duplicate barcode surfaces as a
// *ConstraintViolationError.
func (r *PayableRepository) Insert(ctx context.Context, p domain.Payable) error {
	const query = `INSERT INTO payables
		(service_type, description, due_date, amount, payment_status, barcode, payment_method, card_number, amount_paid, pay_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		p.ServiceType,
		p.Description,
		p.DueDate,
		p.Amount,
		p.PaymentStatus,
		p.Barcode,
		domain.NotAvailable,
		domain.NotAvailable,
		0.0,
		domain.NotAvailable,
	)
	if err != nil {
		if cv := constraintViolation(err); cv != nil {
			return cv
		}
		return fmt.Errorf("insert payable: %w", err)
	}
	return nil
}

// ListUnpaid returns pending payables, optionally filtered by service
// type.
func (r *PayableRepository) ListUnpaid(ctx context.Context, serviceType *string) ([]domain.UnpaidPayable, error) {
	query := `SELECT service_type, due_date, amount, barcode FROM payables WHERE payment_status = $1`
	args := []any{domain.StatusPending}

	if serviceType != nil && *serviceType != "" {
		query += ` AND service_type = $2`
		args = append(args, *serviceType)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select unpaid payables: %w", err)
	}
	defer rows.Close()

	var out []domain.UnpaidPayable
	for rows.Next() {
		var p domain.UnpaidPayable
		if err := rows.Scan(&p.ServiceType, &p.DueDate, &p.Amount, &p.Barcode); err != nil {
			return nil, fmt.Errorf("scan unpaid payable: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByBarcode returns the current outstanding amount of a payable, or
// domain.ErrPayableNotFound.
func (r *PayableRepository) GetByBarcode(ctx context.Context, barcode int64) (float64, error) {
	const query = `SELECT amount FROM payables WHERE barcode = $1`

	var amount float64
	if err := r.db.QueryRowContext(ctx, query, barcode).Scan(&amount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrPayableNotFound
		}
		return 0, fmt.Errorf("select payable %d: %w", barcode, err)
	}
	return amount, nil
}

// ApplySettlement overwrites the mutable fields of the payable row and
// appends the payment to the ledger in one transaction.
func (r *PayableRepository) ApplySettlement(ctx context.Context, s domain.Settlement) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settlement tx: %w", err)
	}
	defer tx.Rollback()

	const update = `UPDATE payables
		SET payment_status = $1,
		    amount = $2,
		    payment_method = $3,
		    card_number = $4,
		    amount_paid = $5,
		    pay_date = $6
		WHERE barcode = $7`

	res, err := tx.ExecContext(ctx, update,
		s.Status,
		s.NewAmount,
		s.PaymentMethod,
		s.CardNumber,
		s.AmountPaid,
		s.PayDate,
		s.Barcode,
	)
	if err != nil {
		return fmt.Errorf("update payable %d: %w", s.Barcode, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrPayableNotFound
	}

	const insert = `INSERT INTO payments (barcode, amount, payment_method, card_number, paid_date)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := tx.ExecContext(ctx, insert, s.Barcode, s.AmountPaid, s.PaymentMethod, s.CardNumber, s.PayDate); err != nil {
		return fmt.Errorf("append payment for %d: %w", s.Barcode, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settlement: %w", err)
	}
	return nil
}

// PaidRow is the projection the aggregation reporter works on.
type PaidRow struct {
	PayDate    string
	AmountPaid float64
	Amount     float64
}

// SelectPaidInRange returns fully paid payables whose pay_date falls
// within [start, final]. Dates are YYYY-MM-DD strings, so BETWEEN
// compares correctly.
func (r *PayableRepository) SelectPaidInRange(ctx context.Context, start, final string) ([]PaidRow, error) {
	const query = `SELECT pay_date, amount_paid, amount FROM payables
		WHERE payment_status = $1 AND pay_date BETWEEN $2 AND $3`

	rows, err := r.db.QueryContext(ctx, query, domain.StatusPaid, start, final)
	if err != nil {
		return nil, fmt.Errorf("select paid payables: %w", err)
	}
	defer rows.Close()

	var out []PaidRow
	for rows.Next() {
		var p PaidRow
		if err := rows.Scan(&p.PayDate, &p.AmountPaid, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan paid payable: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
