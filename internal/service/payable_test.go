package service

import (
	"context"
	"errors"
	"testing"

	"paytrack/internal/domain"
	"paytrack/internal/repository"
)

type fakePayableStore struct {
	insertErr error
	items     []domain.UnpaidPayable
}

func (f *fakePayableStore) Insert(_ context.Context, _ domain.Payable) error {
	return f.insertErr
}

func (f *fakePayableStore) ListUnpaid(_ context.Context, serviceType *string) ([]domain.UnpaidPayable, error) {
	if serviceType == nil {
		return f.items, nil
	}
	var out []domain.UnpaidPayable
	for _, it := range f.items {
		if it.ServiceType == *serviceType {
			out = append(out, it)
		}
	}
	return out, nil
}

func TestRegisterSuccess(t *testing.T) {
	svc := NewPayableService(&fakePayableStore{})

	res, err := svc.Register(context.Background(), domain.Payable{Barcode: 123456789012})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Status != "Payable registered successfully" {
		t.Errorf("unexpected status: %q", res.Status)
	}
}

func TestRegisterDuplicateBarcode(t *testing.T) {
	svc := NewPayableService(&fakePayableStore{
		insertErr: &repository.ConstraintViolationError{Table: "payables", Column: "barcode"},
	})

	res, err := svc.Register(context.Background(), domain.Payable{Barcode: 123456789012})
	if err != nil {
		t.Fatalf("duplicate must not surface as an error, got %v", err)
	}
	want := "ERROR: duplicate key value: barcode field must be an unique number in payables table"
	if res.Status != want {
		t.Errorf("unexpected status:\n got %q\nwant %q", res.Status, want)
	}
}

func TestListUnpaidNoFilter(t *testing.T) {
	svc := NewPayableService(&fakePayableStore{})

	list, err := svc.ListUnpaid(context.Background(), "")
	if err != nil {
		t.Fatalf("unfiltered empty list must not error, got %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected empty list, got %d items", len(list))
	}
}

func TestListUnpaidFiltered(t *testing.T) {
	store := &fakePayableStore{items: []domain.UnpaidPayable{
		{ServiceType: "electricity", Barcode: 111111111111, Amount: 120},
		{ServiceType: "water", Barcode: 222222222222, Amount: 80},
	}}
	svc := NewPayableService(store)

	list, err := svc.ListUnpaid(context.Background(), "water")
	if err != nil {
		t.Fatalf("ListUnpaid returned error: %v", err)
	}
	if len(list) != 1 || list[0].Barcode != 222222222222 {
		t.Errorf("unexpected filtered list: %+v", list)
	}
}

func TestListUnpaidFilteredEmpty(t *testing.T) {
	store := &fakePayableStore{items: []domain.UnpaidPayable{
		{ServiceType: "electricity", Barcode: 111111111111},
	}}
	svc := NewPayableService(store)

	_, err := svc.ListUnpaid(context.Background(), "gas")
	if !errors.Is(err, ErrNoElements) {
		t.Fatalf("expected ErrNoElements, got %v", err)
	}
}
