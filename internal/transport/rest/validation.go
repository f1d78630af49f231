package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"paytrack/internal/domain"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// decodeBody decodes JSON keeping numbers as json.Number; 16-digit
// card numbers exceed float64's integer range and would round.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return err
	}
	return nil
}

type rawPayableRequest struct {
	ServiceType   string      `json:"service_type"`
	Description   string      `json:"description"`
	DueDate       interface{} `json:"due_date"`
	Amount        interface{} `json:"amount"`
	PaymentStatus string      `json:"payment_status"`
	Barcode       interface{} `json:"barcode"`
}

// ValidatePayableRequest parses the registration body and runs the
// domain rules over it. Type errors are reported here; value rules
// (12-digit barcode, positive amount, date format, pending status)
// belong to Payable.Validate.
func ValidatePayableRequest(r *http.Request) (domain.Payable, error) {
	var raw rawPayableRequest
	if err := decodeBody(r, &raw); err != nil {
		return domain.Payable{}, err
	}

	barcode, err := toInt64(raw.Barcode)
	if err != nil {
		return domain.Payable{}, &ValidationError{Field: "barcode", Message: "barcode must be an integer"}
	}

	amount, err := toFloat64(raw.Amount)
	if err != nil {
		return domain.Payable{}, &ValidationError{Field: "amount", Message: "amount must be a positive number"}
	}

	dueDate, err := toString(raw.DueDate)
	if err != nil {
		return domain.Payable{}, &ValidationError{Field: "due_date", Message: "due_date must be YYYY-MM-DD"}
	}

	status := raw.PaymentStatus
	if status == "" {
		status = domain.StatusPending
	}

	p := domain.Payable{
		ServiceType:   raw.ServiceType,
		Description:   raw.Description,
		DueDate:       dueDate,
		Amount:        amount,
		PaymentStatus: status,
		Barcode:       barcode,
	}
	if err := p.Validate(); err != nil {
		return domain.Payable{}, payableFieldError(err)
	}
	return p, nil
}

func payableFieldError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidBarcode):
		return &ValidationError{Field: "barcode", Message: "barcode must be 12-digits length"}
	case errors.Is(err, domain.ErrInvalidAmount):
		return &ValidationError{Field: "amount", Message: "amount must be a positive number"}
	case errors.Is(err, domain.ErrInvalidDate):
		return &ValidationError{Field: "due_date", Message: "due_date must be YYYY-MM-DD"}
	case errors.Is(err, domain.ErrInvalidStatus):
		return &ValidationError{Field: "payment_status", Message: "payment_status must be pending"}
	default:
		return err
	}
}

type rawTransactionRequest struct {
	PayMethod  string      `json:"pay_method"`
	CardNumber interface{} `json:"card_number"`
	Amount     interface{} `json:"amount"`
	Barcode    interface{} `json:"barcode"`
	PaidDate   interface{} `json:"paid_date"`
}

// ValidateTransactionRequest parses a payment body and runs the domain
// rules over it. Card numbers must serialize to exactly 16 decimal
// digits unless the pay method is cash.
func ValidateTransactionRequest(r *http.Request) (domain.Transaction, error) {
	var raw rawTransactionRequest
	if err := decodeBody(r, &raw); err != nil {
		return domain.Transaction{}, err
	}

	barcode, err := toInt64(raw.Barcode)
	if err != nil {
		return domain.Transaction{}, &ValidationError{Field: "barcode", Message: "barcode must be an integer"}
	}

	amount, err := toFloat64(raw.Amount)
	if err != nil {
		return domain.Transaction{}, &ValidationError{Field: "amount", Message: "amount must be a positive number"}
	}

	var cardNumber int64
	if raw.PayMethod != "" && raw.PayMethod != domain.MethodCash {
		cardNumber, err = toInt64(raw.CardNumber)
		if err != nil {
			return domain.Transaction{}, &ValidationError{Field: "card_number", Message: "card_number is required for non-cash payments"}
		}
	}

	paidDate, err := toString(raw.PaidDate)
	if err != nil {
		return domain.Transaction{}, &ValidationError{Field: "paid_date", Message: "paid_date must be YYYY-MM-DD"}
	}

	t := domain.Transaction{
		PayMethod:  raw.PayMethod,
		CardNumber: cardNumber,
		Amount:     amount,
		Barcode:    barcode,
		PaidDate:   paidDate,
	}
	if err := t.Validate(); err != nil {
		return domain.Transaction{}, transactionFieldError(err)
	}
	return t, nil
}

func transactionFieldError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidBarcode):
		return &ValidationError{Field: "barcode", Message: "barcode must be 12-digits length"}
	case errors.Is(err, domain.ErrInvalidAmount):
		return &ValidationError{Field: "amount", Message: "amount must be a positive number"}
	case errors.Is(err, domain.ErrEmptyPayMethod):
		return &ValidationError{Field: "pay_method", Message: "pay_method is required"}
	case errors.Is(err, domain.ErrInvalidCardNumber):
		return &ValidationError{Field: "card_number", Message: "card number must be 16-digits length"}
	case errors.Is(err, domain.ErrInvalidDate):
		return &ValidationError{Field: "paid_date", Message: "paid_date must be YYYY-MM-DD"}
	default:
		return err
	}
}

// ValidateRangeQuery reads the start_date/final_date query parameters
// of the report endpoint.
func ValidateRangeQuery(r *http.Request) (start, final string, err error) {
	start = r.URL.Query().Get("start_date")
	final = r.URL.Query().Get("final_date")

	if err := domain.ValidateDate(start); err != nil {
		return "", "", &ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD"}
	}
	if err := domain.ValidateDate(final); err != nil {
		return "", "", &ValidationError{Field: "final_date", Message: "final_date must be YYYY-MM-DD"}
	}
	return start, final, nil
}

func toInt64(v interface{}) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, &ValidationError{Message: "value is required"}
	case json.Number:
		return strconv.ParseInt(t.String(), 10, 64)
	case float64:
		return int64(t), nil
	case string:
		if t == "" {
			return 0, &ValidationError{Message: "value is required"}
		}
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, &ValidationError{Message: "invalid type for int field"}
	}
}

func toFloat64(v interface{}) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, &ValidationError{Message: "value is required"}
	case json.Number:
		return t.Float64()
	case float64:
		return t, nil
	case string:
		if t == "" {
			return 0, &ValidationError{Message: "value is required"}
		}
		return strconv.ParseFloat(t, 64)
	default:
		return 0, &ValidationError{Message: "invalid type for number field"}
	}
}

func toString(v interface{}) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	default:
		return "", &ValidationError{Message: "invalid type for string field"}
	}
}

func toDateString(v interface{}) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		if t == "" {
			return "", nil
		}
		if err := domain.ValidateDate(t); err != nil {
			return "", err
		}
		return t, nil
	default:
		return "", &ValidationError{Message: "invalid type for date field"}
	}
}
