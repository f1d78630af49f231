package domain

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Payment status values stored in the payables table. Note the stored
// partially-paid literal is the phrase with a space; callers see it
// verbatim in settlement responses.
const (
	StatusPending       = "pending"
	StatusPaid          = "paid"
	StatusPartiallyPaid = "partially paid"
)

const (
	MethodCash       = "cash"
	MethodCreditCard = "credit_card"
	MethodDebitCard  = "debit_card"
)

// NotAvailable marks payment fields that have no value yet (no payment
// was made) or do not apply (card number on cash payments).
const NotAvailable = "N/A"

// DateLayout is the wire and storage format for all calendar dates.
const DateLayout = "2006-01-02"

var (
	ErrPayableNotFound = errors.New("payable not found")

	ErrInvalidBarcode    = errors.New("barcode must be 12 digits long")
	ErrInvalidCardNumber = errors.New("card number must be 16 digits long")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidDate       = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidStatus     = errors.New("payment status must be pending at registration")
	ErrEmptyPayMethod    = errors.New("pay method is required")
)

// Payable is a single obligation to pay, keyed by its 12-digit barcode.
// Amount is the outstanding debt; the four payment fields describe the
// most recent settlement only (the payments ledger keeps full history).
type Payable struct {
	ServiceType   string
	Description   string
	DueDate       string
	Amount        float64
	PaymentStatus string
	Barcode       int64
	PaymentMethod string
	CardNumber    string
	AmountPaid    float64
	PayDate       string
}

// UnpaidPayable is the projection returned by unpaid listings.
type UnpaidPayable struct {
	ServiceType string
	DueDate     string
	Amount      float64
	Barcode     int64
}

// Transaction is a payment request against a payable. It is not stored
// as-is; its effect is folded into the payable row and appended to the
// payments ledger.
type Transaction struct {
	PayMethod  string
	CardNumber int64
	Amount     float64
	Barcode    int64
	PaidDate   string
}

// Settlement carries the fields ApplySettlement overwrites on the
// payable row in a single atomic update.
type Settlement struct {
	Barcode       int64
	NewAmount     float64
	Status        string
	PaymentMethod string
	CardNumber    string
	AmountPaid    float64
	PayDate       string
}

// PaymentRecord is one row of the append-only payments ledger.
type PaymentRecord struct {
	ID            int64
	Barcode       int64
	Amount        float64
	PaymentMethod string
	CardNumber    string
	PaidDate      string
	CreatedAt     time.Time
}

// DailySummary aggregates the completed payments of one calendar date.
type DailySummary struct {
	Date                 string  `json:"date"`
	NumberOfTransactions int     `json:"transaction_number_per_day"`
	AmountAccumulated    float64 `json:"accumulated_amount_per_day"`
}

func ValidateBarcode(barcode int64) error {
	if barcode < 100_000_000_000 || barcode > 999_999_999_999 {
		return fmt.Errorf("%w, current: %d", ErrInvalidBarcode, len(strconv.FormatInt(barcode, 10)))
	}
	return nil
}

func ValidateCardNumber(cardNumber int64) error {
	if cardNumber < 1_000_000_000_000_000 || cardNumber > 9_999_999_999_999_999 {
		return fmt.Errorf("%w, current: %d", ErrInvalidCardNumber, len(strconv.FormatInt(cardNumber, 10)))
	}
	return nil
}

func ValidateDate(value string) error {
	if _, err := time.Parse(DateLayout, value); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (p Payable) Validate() error {
	if err := ValidateBarcode(p.Barcode); err != nil {
		return err
	}
	if p.Amount <= 0 {
		return ErrInvalidAmount
	}
	if err := ValidateDate(p.DueDate); err != nil {
		return err
	}
	if p.PaymentStatus != StatusPending {
		return ErrInvalidStatus
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := ValidateBarcode(t.Barcode); err != nil {
		return err
	}
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if t.PayMethod == "" {
		return ErrEmptyPayMethod
	}
	if t.PayMethod != MethodCash {
		if err := ValidateCardNumber(t.CardNumber); err != nil {
			return err
		}
	}
	if err := ValidateDate(t.PaidDate); err != nil {
		return err
	}
	return nil
}

// ResolvedCardNumber returns the card number to persist: N/A for cash,
// the supplied digits otherwise.
func (t Transaction) ResolvedCardNumber() string {
	if t.PayMethod == MethodCash {
		return NotAvailable
	}
	return strconv.FormatInt(t.CardNumber, 10)
}
