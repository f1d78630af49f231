package rest

import (
	"errors"
	"log"
	"net/http"

	"paytrack/internal/domain"
	"paytrack/internal/repository"

	"github.com/go-chi/chi/v5"
)

type PaymentsExportRequest struct {
	Fields    []string `json:"fields"`
	Barcode   *int64   `json:"barcode,omitempty"`
	StartDate *string  `json:"start_date,omitempty"`
	EndDate   *string  `json:"end_date,omitempty"`
}

type rawPaymentsExportRequest struct {
	Fields    []string    `json:"fields"`
	Barcode   interface{} `json:"barcode"`
	StartDate interface{} `json:"start_date"`
	EndDate   interface{} `json:"end_date"`
}

// ValidatePaymentsExportRequest parses and validates JSON input for a
// payments ledger export. All filters are optional.
func ValidatePaymentsExportRequest(r *http.Request) (*PaymentsExportRequest, error) {
	var raw rawPaymentsExportRequest
	if err := decodeBody(r, &raw); err != nil {
		return nil, err
	}

	var barcode *int64
	if raw.Barcode != nil {
		b, err := toInt64(raw.Barcode)
		if err != nil {
			return nil, &ValidationError{Field: "barcode", Message: "barcode must be integer or empty"}
		}
		if err := domain.ValidateBarcode(b); err != nil {
			return nil, &ValidationError{Field: "barcode", Message: "barcode must be 12-digits length"}
		}
		barcode = &b
	}

	startDate, err := toDateString(raw.StartDate)
	if err != nil {
		return nil, &ValidationError{Field: "start_date", Message: "start_date must be YYYY-MM-DD or empty"}
	}
	endDate, err := toDateString(raw.EndDate)
	if err != nil {
		return nil, &ValidationError{Field: "end_date", Message: "end_date must be YYYY-MM-DD or empty"}
	}

	req := &PaymentsExportRequest{Fields: raw.Fields, Barcode: barcode}
	if startDate != "" {
		req.StartDate = &startDate
	}
	if endDate != "" {
		req.EndDate = &endDate
	}
	return req, nil
}

func (r *PaymentsExportRequest) ToRepositoryFilter() repository.PaymentsFilter {
	return repository.PaymentsFilter{
		Barcode:   r.Barcode,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

func (h *Handler) exportPayments(w http.ResponseWriter, r *http.Request) {
	req, err := ValidatePaymentsExportRequest(r)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ErrorBadRequest(w, ve.Message)
			return
		}
		ErrorBadRequest(w, "invalid JSON")
		return
	}

	exportID, err := h.exporter.StartPaymentsExport(r.Context(), req.Fields, req.ToRepositoryFilter())
	if err != nil {
		log.Printf("[HTTP] startPaymentsExport error: %v", err)
		ErrorInternal(w, "failed to start export")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{"export_id": exportID})
}

func (h *Handler) listExports(w http.ResponseWriter, r *http.Request) {
	exports, err := h.exportList.GetExports(r.Context())
	if err != nil {
		log.Printf("[HTTP] list exports error: %v", err)
		ErrorInternal(w, "failed to list exports")
		return
	}
	if exports == nil {
		exports = []interface{}{}
	}
	writeJSON(w, http.StatusOK, exports)
}

func (h *Handler) getExport(w http.ResponseWriter, r *http.Request) {
	exportID := chi.URLParam(r, "export_id")

	export, err := h.exportList.GetExport(r.Context(), exportID)
	if err != nil {
		ErrorNotFound(w, "export not found")
		return
	}
	writeJSON(w, http.StatusOK, export)
}
