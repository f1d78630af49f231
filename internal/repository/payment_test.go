package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestBuildPaymentsWhere(t *testing.T) {
	barcode := int64(123456789012)
	start := "2026-01-01"
	end := "2026-01-31"

	tests := []struct {
		name     string
		filter   PaymentsFilter
		startIdx int
		want     string
		wantArgs int
	}{
		{
			name:     "no filters",
			filter:   PaymentsFilter{},
			startIdx: 1,
			want:     "1=1",
			wantArgs: 0,
		},
		{
			name:     "barcode only",
			filter:   PaymentsFilter{Barcode: &barcode},
			startIdx: 1,
			want:     "1=1 AND barcode = $1",
			wantArgs: 1,
		},
		{
			name:     "all filters",
			filter:   PaymentsFilter{Barcode: &barcode, StartDate: &start, EndDate: &end},
			startIdx: 1,
			want:     "1=1 AND barcode = $1 AND paid_date >= $2 AND paid_date <= $3",
			wantArgs: 3,
		},
		{
			name:     "placeholder offset",
			filter:   PaymentsFilter{StartDate: &start},
			startIdx: 2,
			want:     "1=1 AND paid_date >= $2",
			wantArgs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildPaymentsWhere(tt.filter, tt.startIdx)
			if where != tt.want {
				t.Errorf("where = %q, want %q", where, tt.want)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("got %d args, want %d", len(args), tt.wantArgs)
			}
		})
	}
}

func TestConstraintViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		TableName:      "payables",
		ConstraintName: "payables_barcode_key",
	}

	cv := constraintViolation(fmt.Errorf("insert: %w", pgErr))
	if cv == nil {
		t.Fatal("expected constraint violation details")
	}
	if cv.Table != "payables" || cv.Column != "barcode" {
		t.Errorf("unexpected details: %+v", cv)
	}
}

func TestConstraintViolationColumnName(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       "23505",
		TableName:  "payables",
		ColumnName: "barcode",
	}

	cv := constraintViolation(pgErr)
	if cv == nil || cv.Column != "barcode" {
		t.Fatalf("expected column from driver error, got %+v", cv)
	}
}

func TestConstraintViolationOtherErrors(t *testing.T) {
	if cv := constraintViolation(errors.New("connection refused")); cv != nil {
		t.Errorf("plain errors must not be treated as violations: %+v", cv)
	}
	if cv := constraintViolation(&pgconn.PgError{Code: "23503"}); cv != nil {
		t.Errorf("non-unique violations must be ignored: %+v", cv)
	}
}
