package service

import (
	"context"
	"testing"

	"paytrack/internal/repository"
)

type fakePaidReader struct {
	rows []repository.PaidRow
}

func (f *fakePaidReader) SelectPaidInRange(_ context.Context, _, _ string) ([]repository.PaidRow, error) {
	return f.rows, nil
}

func TestRangeGroupsByDate(t *testing.T) {
	svc := NewReportService(&fakePaidReader{rows: []repository.PaidRow{
		{PayDate: "2026-01-10", AmountPaid: 100},
		{PayDate: "2026-01-12", AmountPaid: 50},
		{PayDate: "2026-01-10", AmountPaid: 25.5},
		{PayDate: "2026-01-11", AmountPaid: 10},
	}})

	summaries, err := svc.Range(context.Background(), "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("Range returned error: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("expected 3 summaries, got %d", len(summaries))
	}

	// most recent date first
	wantDates := []string{"2026-01-12", "2026-01-11", "2026-01-10"}
	for i, want := range wantDates {
		if summaries[i].Date != want {
			t.Errorf("summary %d: got date %s, want %s", i, summaries[i].Date, want)
		}
	}

	last := summaries[2]
	if last.NumberOfTransactions != 2 {
		t.Errorf("expected 2 transactions on 2026-01-10, got %d", last.NumberOfTransactions)
	}
	if last.AmountAccumulated != 125.5 {
		t.Errorf("expected 125.5 accumulated on 2026-01-10, got %v", last.AmountAccumulated)
	}
}

func TestRangeEmpty(t *testing.T) {
	svc := NewReportService(&fakePaidReader{})

	summaries, err := svc.Range(context.Background(), "2026-01-01", "2026-01-31")
	if err != nil {
		t.Fatalf("Range returned error: %v", err)
	}
	if len(summaries) != 0 {
		t.Errorf("expected no summaries, got %d", len(summaries))
	}
}
