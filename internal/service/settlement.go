package service

import (
	"context"

	"paytrack/internal/domain"
)

type SettlementStore interface {
	GetByBarcode(ctx context.Context, barcode int64) (float64, error)
	ApplySettlement(ctx context.Context, s domain.Settlement) error
}

// SettlementResult is what every settlement attempt returns, accepted
// or refused. Refusals keep Debt at its current value.
type SettlementResult struct {
	Status  string  `json:"Status"`
	Debt    float64 `json:"Debt"`
	Barcode int64   `json:"Barcode"`
}

type SettlementService struct {
	store SettlementStore
}

func NewSettlementService(store SettlementStore) *SettlementService {
	return &SettlementService{store: store}
}

// Settle validates a payment against the payable's outstanding debt
// and, when accepted, persists the new state atomically. Business
// refusals (zero debt, overpayment) come back as results, not errors;
// an unknown barcode is domain.ErrPayableNotFound.
func (s *SettlementService) Settle(ctx context.Context, t domain.Transaction) (SettlementResult, error) {
	debt, err := s.store.GetByBarcode(ctx, t.Barcode)
	if err != nil {
		return SettlementResult{}, err
	}

	if debt == 0 {
		return SettlementResult{
			Status:  "There is no debt to pay",
			Debt:    0,
			Barcode: t.Barcode,
		}, nil
	}

	if t.Amount > debt {
		return SettlementResult{
			Status:  "It is not possible to pay more than current debt",
			Debt:    debt,
			Barcode: t.Barcode,
		}, nil
	}

	remaining := debt - t.Amount
	status := domain.StatusPartiallyPaid
	if remaining == 0 {
		status = domain.StatusPaid
	}

	err = s.store.ApplySettlement(ctx, domain.Settlement{
		Barcode:       t.Barcode,
		NewAmount:     remaining,
		Status:        status,
		PaymentMethod: t.PayMethod,
		CardNumber:    t.ResolvedCardNumber(),
		AmountPaid:    t.Amount,
		PayDate:       t.PaidDate,
	})
	if err != nil {
		return SettlementResult{}, err
	}

	return SettlementResult{
		Status:  "Payable has been " + status,
		Debt:    remaining,
		Barcode: t.Barcode,
	}, nil
}
