package rest

import (
	"errors"
	"log"
	"net/http"
)

type noTransactionsSentinel struct {
	Status               string  `json:"Status"`
	NumberOfTransactions int     `json:"transaction_number_per_day"`
	AmountAccumulated    float64 `json:"accumulated_amount_per_day"`
}

func (h *Handler) transactionList(w http.ResponseWriter, r *http.Request) {
	start, final, err := ValidateRangeQuery(r)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ErrorBadRequest(w, ve.Message)
			return
		}
		ErrorBadRequest(w, "invalid query")
		return
	}

	summaries, err := h.reporter.Range(r.Context(), start, final)
	if err != nil {
		log.Printf("[HTTP] transaction list error: %v", err)
		ErrorInternal(w, "failed to build transaction report")
		return
	}

	if len(summaries) == 0 {
		writeJSON(w, http.StatusOK, []noTransactionsSentinel{{
			Status:               "No transactions",
			NumberOfTransactions: 0,
			AmountAccumulated:    0,
		}})
		return
	}

	writeJSON(w, http.StatusOK, summaries)
}
