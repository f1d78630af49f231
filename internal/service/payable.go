package service

import (
	"context"
	"errors"
	"fmt"

	"paytrack/internal/domain"
	"paytrack/internal/repository"
)

// ErrNoElements signals that a filtered unpaid listing matched zero
// rows, which callers must distinguish from an empty unfiltered list.
var ErrNoElements = errors.New("no elements to show")

type PayableStore interface {
	Insert(ctx context.Context, p domain.Payable) error
	ListUnpaid(ctx context.Context, serviceType *string) ([]domain.UnpaidPayable, error)
}

type PayableService struct {
	store PayableStore
}

func NewPayableService(store PayableStore) *PayableService {
	return &PayableService{store: store}
}

// RegisterResult is the success-shaped response of a registration.
// Duplicate barcodes are reported through Status, not as an error.
type RegisterResult struct {
	Status string `json:"Status"`
}

func (s *PayableService) Register(ctx context.Context, p domain.Payable) (RegisterResult, error) {
	if err := s.store.Insert(ctx, p); err != nil {
		var cv *repository.ConstraintViolationError
		if errors.As(err, &cv) {
			return RegisterResult{
				Status: fmt.Sprintf("ERROR: duplicate key value: %s field must be an unique number in %s table", cv.Column, cv.Table),
			}, nil
		}
		return RegisterResult{}, err
	}
	return RegisterResult{Status: "Payable registered successfully"}, nil
}

// ListUnpaid returns pending payables. With a non-empty serviceType an
// empty result is reported as ErrNoElements.
func (s *PayableService) ListUnpaid(ctx context.Context, serviceType string) ([]domain.UnpaidPayable, error) {
	var filter *string
	if serviceType != "" {
		filter = &serviceType
	}

	list, err := s.store.ListUnpaid(ctx, filter)
	if err != nil {
		return nil, err
	}
	if filter != nil && len(list) == 0 {
		return nil, ErrNoElements
	}
	return list, nil
}
