package service

import (
	"context"
	"sort"

	"paytrack/internal/domain"
	"paytrack/internal/repository"
)

type PaidReader interface {
	SelectPaidInRange(ctx context.Context, start, final string) ([]repository.PaidRow, error)
}

type ReportService struct {
	store PaidReader
}

func NewReportService(store PaidReader) *ReportService {
	return &ReportService{store: store}
}

// Range folds fully paid payables with pay_date inside [start, final]
// into one summary per date, most recent date first. An empty result
// means no transactions matched; the transport layer renders the
// sentinel for it.
func (s *ReportService) Range(ctx context.Context, start, final string) ([]domain.DailySummary, error) {
	rows, err := s.store.SelectPaidInRange(ctx, start, final)
	if err != nil {
		return nil, err
	}

	type acc struct {
		count int
		sum   float64
	}
	byDate := make(map[string]*acc)
	var dates []string
	for _, row := range rows {
		a, ok := byDate[row.PayDate]
		if !ok {
			a = &acc{}
			byDate[row.PayDate] = a
			dates = append(dates, row.PayDate)
		}
		a.count++
		a.sum += row.AmountPaid
	}

	// YYYY-MM-DD strings order lexicographically, so a plain string
	// sort gives most recent first.
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	summaries := make([]domain.DailySummary, 0, len(dates))
	for _, date := range dates {
		a := byDate[date]
		summaries = append(summaries, domain.DailySummary{
			Date:                 date,
			NumberOfTransactions: a.count,
			AmountAccumulated:    a.sum,
		})
	}
	return summaries, nil
}
