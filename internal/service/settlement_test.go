package service

import (
	"context"
	"errors"
	"testing"

	"paytrack/internal/domain"
)

type fakeSettlementStore struct {
	debts   map[int64]float64
	applied []domain.Settlement
}

func newFakeSettlementStore(debts map[int64]float64) *fakeSettlementStore {
	return &fakeSettlementStore{debts: debts}
}

func (f *fakeSettlementStore) GetByBarcode(_ context.Context, barcode int64) (float64, error) {
	debt, ok := f.debts[barcode]
	if !ok {
		return 0, domain.ErrPayableNotFound
	}
	return debt, nil
}

func (f *fakeSettlementStore) ApplySettlement(_ context.Context, s domain.Settlement) error {
	if _, ok := f.debts[s.Barcode]; !ok {
		return domain.ErrPayableNotFound
	}
	f.debts[s.Barcode] = s.NewAmount
	f.applied = append(f.applied, s)
	return nil
}

func TestSettleFullPayment(t *testing.T) {
	store := newFakeSettlementStore(map[int64]float64{123456789012: 500})
	svc := NewSettlementService(store)

	res, err := svc.Settle(context.Background(), domain.Transaction{
		Barcode:    123456789012,
		Amount:     500,
		PayMethod:  domain.MethodCreditCard,
		CardNumber: 1234567890123456,
		PaidDate:   "2026-01-15",
	})
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if res.Status != "Payable has been paid" {
		t.Errorf("unexpected status: %q", res.Status)
	}
	if res.Debt != 0 {
		t.Errorf("expected zero debt, got %v", res.Debt)
	}
	if store.debts[123456789012] != 0 {
		t.Errorf("store debt not cleared: %v", store.debts[123456789012])
	}
}

func TestSettlePartialThenFull(t *testing.T) {
	store := newFakeSettlementStore(map[int64]float64{123456789012: 500})
	svc := NewSettlementService(store)
	ctx := context.Background()

	res, err := svc.Settle(ctx, domain.Transaction{
		Barcode:    123456789012,
		Amount:     200,
		PayMethod:  domain.MethodDebitCard,
		CardNumber: 1234567890123456,
		PaidDate:   "2026-01-15",
	})
	if err != nil {
		t.Fatalf("partial Settle returned error: %v", err)
	}
	if res.Status != "Payable has been partially paid" {
		t.Errorf("unexpected status: %q", res.Status)
	}
	if res.Debt != 300 {
		t.Errorf("expected remaining debt 300, got %v", res.Debt)
	}

	res, err = svc.Settle(ctx, domain.Transaction{
		Barcode:   123456789012,
		Amount:    300,
		PayMethod: domain.MethodCash,
		PaidDate:  "2026-01-16",
	})
	if err != nil {
		t.Fatalf("final Settle returned error: %v", err)
	}
	if res.Status != "Payable has been paid" {
		t.Errorf("unexpected status: %q", res.Status)
	}
	if res.Debt != 0 {
		t.Errorf("expected zero debt, got %v", res.Debt)
	}
}

func TestSettleOverpaymentRefused(t *testing.T) {
	store := newFakeSettlementStore(map[int64]float64{123456789012: 100})
	svc := NewSettlementService(store)

	res, err := svc.Settle(context.Background(), domain.Transaction{
		Barcode:    123456789012,
		Amount:     150,
		PayMethod:  domain.MethodCreditCard,
		CardNumber: 1234567890123456,
		PaidDate:   "2026-01-15",
	})
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if res.Status != "It is not possible to pay more than current debt" {
		t.Errorf("unexpected status: %q", res.Status)
	}
	if res.Debt != 100 {
		t.Errorf("debt should be untouched, got %v", res.Debt)
	}
	if len(store.applied) != 0 {
		t.Errorf("overpayment must not persist a settlement, got %d", len(store.applied))
	}
}

func TestSettleNoDebt(t *testing.T) {
	store := newFakeSettlementStore(map[int64]float64{123456789012: 0})
	svc := NewSettlementService(store)

	res, err := svc.Settle(context.Background(), domain.Transaction{
		Barcode:   123456789012,
		Amount:    50,
		PayMethod: domain.MethodCash,
		PaidDate:  "2026-01-15",
	})
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if res.Status != "There is no debt to pay" {
		t.Errorf("unexpected status: %q", res.Status)
	}
	if len(store.applied) != 0 {
		t.Errorf("zero-debt settle must not persist, got %d", len(store.applied))
	}
}

func TestSettleCashStoresNoCardNumber(t *testing.T) {
	store := newFakeSettlementStore(map[int64]float64{123456789012: 500})
	svc := NewSettlementService(store)

	_, err := svc.Settle(context.Background(), domain.Transaction{
		Barcode:   123456789012,
		Amount:    500,
		PayMethod: domain.MethodCash,
		PaidDate:  "2026-01-15",
	})
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if len(store.applied) != 1 {
		t.Fatalf("expected one persisted settlement, got %d", len(store.applied))
	}
	if got := store.applied[0].CardNumber; got != domain.NotAvailable {
		t.Errorf("cash payment must store %q, got %q", domain.NotAvailable, got)
	}
}

func TestSettleCardNumberPersisted(t *testing.T) {
	store := newFakeSettlementStore(map[int64]float64{123456789012: 500})
	svc := NewSettlementService(store)

	_, err := svc.Settle(context.Background(), domain.Transaction{
		Barcode:    123456789012,
		Amount:     100,
		PayMethod:  domain.MethodDebitCard,
		CardNumber: 1234567890123456,
		PaidDate:   "2026-01-15",
	})
	if err != nil {
		t.Fatalf("Settle returned error: %v", err)
	}
	if got := store.applied[0].CardNumber; got != "1234567890123456" {
		t.Errorf("unexpected stored card number: %q", got)
	}
}

func TestSettleUnknownBarcode(t *testing.T) {
	store := newFakeSettlementStore(map[int64]float64{})
	svc := NewSettlementService(store)

	_, err := svc.Settle(context.Background(), domain.Transaction{
		Barcode:   999999999999,
		Amount:    100,
		PayMethod: domain.MethodCash,
		PaidDate:  "2026-01-15",
	})
	if !errors.Is(err, domain.ErrPayableNotFound) {
		t.Fatalf("expected ErrPayableNotFound, got %v", err)
	}
}
