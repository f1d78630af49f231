package rest

import (
	"errors"
	"log"
	"net/http"

	"paytrack/internal/domain"
)

func (h *Handler) payTax(w http.ResponseWriter, r *http.Request) {
	t, err := ValidateTransactionRequest(r)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ErrorBadRequest(w, ve.Message)
			return
		}
		ErrorBadRequest(w, "invalid JSON")
		return
	}

	result, err := h.settler.Settle(r.Context(), t)
	if err != nil {
		if errors.Is(err, domain.ErrPayableNotFound) {
			ErrorNotFound(w, "payable not found")
			return
		}
		log.Printf("[HTTP] settle error: %v", err)
		ErrorInternal(w, "failed to apply payment")
		return
	}

	// Refusals (no debt, overpayment) ride the same success shape.
	writeJSON(w, http.StatusCreated, result)
}
