package rest

import (
	"errors"
	"log"
	"net/http"

	"paytrack/internal/service"

	"github.com/go-chi/chi/v5"
)

type unpaidItem struct {
	Type    string  `json:"type"`
	DueDate string  `json:"due_date"`
	Amount  float64 `json:"amount"`
	Barcode int64   `json:"barcode"`
}

// typedUnpaidItem drops the type field, which is already known when
// the list is filtered by service type.
type typedUnpaidItem struct {
	DueDate string  `json:"due_date"`
	Amount  float64 `json:"amount"`
	Barcode int64   `json:"barcode"`
}

func (h *Handler) createPayable(w http.ResponseWriter, r *http.Request) {
	p, err := ValidatePayableRequest(r)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ErrorBadRequest(w, ve.Message)
			return
		}
		ErrorBadRequest(w, "invalid JSON")
		return
	}

	result, err := h.payables.Register(r.Context(), p)
	if err != nil {
		log.Printf("[HTTP] register payable error: %v", err)
		ErrorInternal(w, "failed to register payable")
		return
	}

	// Duplicate barcodes land here too: a success-shaped body whose
	// Status carries the constraint details.
	writeJSON(w, http.StatusCreated, result)
}

func (h *Handler) listUnpaid(w http.ResponseWriter, r *http.Request) {
	list, err := h.payables.ListUnpaid(r.Context(), "")
	if err != nil {
		log.Printf("[HTTP] list unpaid error: %v", err)
		ErrorInternal(w, "failed to list unpaid payables")
		return
	}

	items := make([]unpaidItem, 0, len(list))
	for _, p := range list {
		items = append(items, unpaidItem{
			Type:    p.ServiceType,
			DueDate: p.DueDate,
			Amount:  p.Amount,
			Barcode: p.Barcode,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) listUnpaidByType(w http.ResponseWriter, r *http.Request) {
	serviceType := chi.URLParam(r, "service_type")
	if serviceType == "" {
		ErrorBadRequest(w, "service_type is required")
		return
	}

	list, err := h.payables.ListUnpaid(r.Context(), serviceType)
	if err != nil {
		if errors.Is(err, service.ErrNoElements) {
			ErrorNotFound(w, "No elements to show")
			return
		}
		log.Printf("[HTTP] list unpaid by type error: %v", err)
		ErrorInternal(w, "failed to list unpaid payables")
		return
	}

	items := make([]typedUnpaidItem, 0, len(list))
	for _, p := range list {
		items = append(items, typedUnpaidItem{
			DueDate: p.DueDate,
			Amount:  p.Amount,
			Barcode: p.Barcode,
		})
	}
	writeJSON(w, http.StatusOK, items)
}
