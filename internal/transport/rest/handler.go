package rest

import (
	"context"
	"net/http"
	"time"

	"paytrack/internal/domain"
	"paytrack/internal/repository"
	"paytrack/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type PayableRegistry interface {
	Register(ctx context.Context, p domain.Payable) (service.RegisterResult, error)
	ListUnpaid(ctx context.Context, serviceType string) ([]domain.UnpaidPayable, error)
}

type Settler interface {
	Settle(ctx context.Context, t domain.Transaction) (service.SettlementResult, error)
}

type RangeReporter interface {
	Range(ctx context.Context, start, final string) ([]domain.DailySummary, error)
}

type PaymentExporter interface {
	StartPaymentsExport(ctx context.Context, selected []string, filter repository.PaymentsFilter) (string, error)
}

type ExportListService interface {
	GetExports(ctx context.Context) ([]interface{}, error)
	GetExport(ctx context.Context, exportID string) (interface{}, error)
}

type Handler struct {
	payables   PayableRegistry
	settler    Settler
	reporter   RangeReporter
	exporter   PaymentExporter
	exportList ExportListService
}

func NewHandler(payables PayableRegistry, settler Settler, reporter RangeReporter, exporter PaymentExporter, exportList ExportListService) *Handler {
	return &Handler{
		payables:   payables,
		settler:    settler,
		reporter:   reporter,
		exporter:   exporter,
		exportList: exportList,
	}
}

func (h *Handler) InitRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.StripSlashes,
		middleware.Timeout(60*time.Second),
	)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Route names mirror the public API this service replaces.
	r.Post("/create-tax", h.createPayable)
	r.Get("/unpaid-list", h.listUnpaid)
	r.Get("/unpaid-list-by-service-type/{service_type}", h.listUnpaidByType)
	r.Put("/pay-tax", h.payTax)
	r.Get("/get-transaction-list", h.transactionList)

	r.Route("/export", func(r chi.Router) {
		r.Get("/", h.listExports)
		r.Get("/{export_id}", h.getExport)
		r.Post("/payments", h.exportPayments)
	})

	return r
}
