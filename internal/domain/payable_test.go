package domain

import (
	"errors"
	"testing"
)

func TestValidateBarcode(t *testing.T) {
	if err := ValidateBarcode(123456789012); err != nil {
		t.Errorf("12-digit barcode must validate: %v", err)
	}
	if err := ValidateBarcode(99999999999); !errors.Is(err, ErrInvalidBarcode) {
		t.Errorf("11-digit barcode must fail, got %v", err)
	}
	if err := ValidateBarcode(1000000000000); !errors.Is(err, ErrInvalidBarcode) {
		t.Errorf("13-digit barcode must fail, got %v", err)
	}
}

func TestValidateCardNumber(t *testing.T) {
	if err := ValidateCardNumber(1234567890123456); err != nil {
		t.Errorf("16-digit card must validate: %v", err)
	}
	if err := ValidateCardNumber(123456789012345); !errors.Is(err, ErrInvalidCardNumber) {
		t.Errorf("15-digit card must fail, got %v", err)
	}
}

func TestPayableValidate(t *testing.T) {
	valid := Payable{
		Barcode:       123456789012,
		Amount:        100,
		DueDate:       "2026-03-01",
		PaymentStatus: StatusPending,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid payable must pass: %v", err)
	}

	p := valid
	p.Amount = 0
	if err := p.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount must fail, got %v", err)
	}

	p = valid
	p.DueDate = "01-03-2026"
	if err := p.Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad date must fail, got %v", err)
	}

	p = valid
	p.PaymentStatus = StatusPaid
	if err := p.Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("non-pending status must fail, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		Barcode:    123456789012,
		Amount:     50,
		PayMethod:  MethodCreditCard,
		CardNumber: 1234567890123456,
		PaidDate:   "2026-03-05",
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid transaction must pass: %v", err)
	}

	cash := valid
	cash.PayMethod = MethodCash
	cash.CardNumber = 0
	if err := cash.Validate(); err != nil {
		t.Errorf("cash transaction needs no card number: %v", err)
	}

	tr := valid
	tr.CardNumber = 123
	if err := tr.Validate(); !errors.Is(err, ErrInvalidCardNumber) {
		t.Errorf("short card number must fail, got %v", err)
	}

	tr = valid
	tr.PayMethod = ""
	if err := tr.Validate(); !errors.Is(err, ErrEmptyPayMethod) {
		t.Errorf("empty pay method must fail, got %v", err)
	}
}

func TestResolvedCardNumber(t *testing.T) {
	cash := Transaction{PayMethod: MethodCash, CardNumber: 1234567890123456}
	if got := cash.ResolvedCardNumber(); got != NotAvailable {
		t.Errorf("cash must resolve to %q, got %q", NotAvailable, got)
	}

	card := Transaction{PayMethod: MethodDebitCard, CardNumber: 1234567890123456}
	if got := card.ResolvedCardNumber(); got != "1234567890123456" {
		t.Errorf("unexpected resolved card number: %q", got)
	}
}
