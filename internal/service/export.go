package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"paytrack/internal/clients"
	"paytrack/internal/domain"
	"paytrack/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type PaymentLedger interface {
	List(ctx context.Context, f repository.PaymentsFilter) ([]domain.PaymentRecord, error)
	HasMoreThan(ctx context.Context, limit int64, f repository.PaymentsFilter) (bool, error)
}

type PaymentColumn struct {
	Header string
	Value  func(p domain.PaymentRecord) any
}

var paymentColumns = map[string]PaymentColumn{
	"id":             {Header: "ID", Value: func(p domain.PaymentRecord) any { return p.ID }},
	"barcode":        {Header: "Barcode", Value: func(p domain.PaymentRecord) any { return p.Barcode }},
	"amount":         {Header: "Amount", Value: func(p domain.PaymentRecord) any { return p.Amount }},
	"payment_method": {Header: "Payment method", Value: func(p domain.PaymentRecord) any { return p.PaymentMethod }},
	"card_number":    {Header: "Card number", Value: func(p domain.PaymentRecord) any { return p.CardNumber }},
	"paid_date":      {Header: "Paid date", Value: func(p domain.PaymentRecord) any { return p.PaidDate }},
	"created_at":     {Header: "Recorded at", Value: func(p domain.PaymentRecord) any { return p.CreatedAt.Format("2006-01-02 15:04:05") }},
}

// DefaultPaymentFields lists every exportable ledger column in its
// workbook order.
var DefaultPaymentFields = []string{"paid_date", "id", "barcode", "amount", "payment_method", "card_number", "created_at"}

const maxPaymentsForExport = 500_000

type ExportStatus struct {
	Key      string    `json:"key"`
	Type     string    `json:"type"`
	Filters  any       `json:"filters"`
	Progress float64   `json:"progress"`
	FileURL  *string   `json:"file_url"`
	Error    *string   `json:"error,omitempty"`
	Created  time.Time `json:"created_at"`
}

const (
	exportSetKey = "export_ids"
	exportTTL    = 20 * time.Minute
)

// ExportStatusStore is the slice of the redis client the export
// lifecycle needs: status values with a TTL plus the index set.
type ExportStatusStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	SAdd(ctx context.Context, key string, members ...any) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SRem(ctx context.Context, key string, members ...any) error
}

type ExportService struct {
	ledger  PaymentLedger
	redis   ExportStatusStore
	storage clients.Storage
	ws      *clients.WebSocketClient
}

func NewExportService(ledger PaymentLedger, redis ExportStatusStore, storage clients.Storage, ws *clients.WebSocketClient) *ExportService {
	return &ExportService{ledger: ledger, redis: redis, storage: storage, ws: ws}
}

func (s *ExportService) saveExportStatus(ctx context.Context, st *ExportStatus) error {
	if s.redis == nil {
		return nil
	}
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, st.Key, string(data), exportTTL); err != nil {
		return err
	}
	return s.redis.SAdd(ctx, exportSetKey, st.Key)
}

// StartPaymentsExport kicks off a background workbook build over the
// payments ledger and returns the export ID to poll or subscribe for.
func (s *ExportService) StartPaymentsExport(ctx context.Context, selected []string, filter repository.PaymentsFilter) (string, error) {
	if len(selected) == 0 {
		selected = DefaultPaymentFields
	}

	tooMany, err := s.ledger.HasMoreThan(ctx, maxPaymentsForExport, filter)
	if err != nil {
		return "", err
	}
	if tooMany {
		return "", fmt.Errorf("too many payments for export (more than %d records)", maxPaymentsForExport)
	}

	exportID := fmt.Sprintf("exports:%s", uuid.NewString())
	now := time.Now()

	status := &ExportStatus{
		Key:      exportID,
		Type:     "payments",
		Filters:  buildPaymentsFiltersMap(filter, selected),
		Progress: 0,
		FileURL:  nil,
		Created:  now,
	}

	_ = s.saveExportStatus(ctx, status)

	go s.runPaymentsExport(context.Background(), exportID, selected, filter, now)

	return exportID, nil
}

func (s *ExportService) runPaymentsExport(ctx context.Context, exportID string, selected []string, filter repository.PaymentsFilter, createdAt time.Time) {
	status := &ExportStatus{
		Key:      exportID,
		Type:     "payments",
		Filters:  buildPaymentsFiltersMap(filter, selected),
		Progress: 0,
		FileURL:  nil,
		Created:  createdAt,
	}

	fail := func(msg string) {
		log.Printf("export %s: %s", exportID, msg)
		status.Error = &msg
		status.Progress = 100
		_ = s.saveExportStatus(ctx, status)
		if s.ws != nil {
			_ = s.ws.NotifyExportFailed(ctx, exportID, msg)
		}
	}

	payments, err := s.ledger.List(ctx, filter)
	if err != nil {
		fail(fmt.Sprintf("list payments failed: %v", err))
		return
	}

	var cols []PaymentColumn
	for _, key := range selected {
		col, ok := paymentColumns[key]
		if !ok {
			continue
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		fail("no known fields selected")
		return
	}

	f := excelize.NewFile()
	sheet := "Payments"
	f.SetSheetName(f.GetSheetName(0), sheet)

	_ = f.SetDocProps(&excelize.DocProperties{Creator: "paytrack"})

	for i, col := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, col.Header)
	}

	total := len(payments)
	rowIdx := 2
	chunkSize := 1000
	for i, p := range payments {
		for colIdx, col := range cols {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
			_ = f.SetCellValue(sheet, cell, col.Value(p))
		}
		rowIdx++

		if (i+1)%chunkSize == 0 || i == total-1 {
			raw := float64(i+1) / float64(total) * 100.0
			progress := math.Round(raw)
			if progress >= 100 {
				progress = 95
			}
			status.Progress = progress
			_ = s.saveExportStatus(ctx, status)
			if s.ws != nil {
				_ = s.ws.NotifyExportProgress(ctx, exportID, progress, "generating")
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		fail(fmt.Sprintf("write workbook failed: %v", err))
		return
	}
	data := buf.Bytes()

	fileName := fmt.Sprintf("payments_%s.xlsx", time.Now().Format("20060102_150405"))

	if s.storage == nil {
		fail("no storage backend configured")
		return
	}

	status.Progress = 95
	_ = s.saveExportStatus(ctx, status)
	if s.ws != nil {
		_ = s.ws.NotifyExportProgress(ctx, exportID, 95, "uploading")
	}

	savedName, err := s.storage.Save(ctx, fileName, data)
	if err != nil {
		fail(fmt.Sprintf("save export failed: %v", err))
		return
	}

	url := s.storage.GetURL(savedName)
	status.FileURL = &url
	status.Progress = 100
	_ = s.saveExportStatus(ctx, status)
	if s.ws != nil {
		_ = s.ws.NotifyExportProgress(ctx, exportID, 100, "ready")
		_ = s.ws.NotifyExportComplete(ctx, exportID, url, fileName)
	}
}

func buildPaymentsFiltersMap(f repository.PaymentsFilter, fields []string) map[string]interface{} {
	m := map[string]interface{}{}
	if f.Barcode != nil {
		m["barcode"] = *f.Barcode
	} else {
		m["barcode"] = nil
	}
	if f.StartDate != nil {
		m["start_date"] = *f.StartDate
	} else {
		m["start_date"] = nil
	}
	if f.EndDate != nil {
		m["end_date"] = *f.EndDate
	} else {
		m["end_date"] = nil
	}
	m["fields"] = fields
	return m
}

func (s *ExportService) GetExports(ctx context.Context) ([]interface{}, error) {
	if s.redis == nil {
		return nil, errors.New("redis client not configured")
	}

	keys, err := s.redis.SMembers(ctx, exportSetKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get export keys: %w", err)
	}

	var statuses []ExportStatus
	for _, key := range keys {
		data, err := s.redis.Get(ctx, key)
		if err != nil {
			// status value expired; drop the stale key from the index
			_ = s.redis.SRem(ctx, exportSetKey, key)
			continue
		}

		var status ExportStatus
		if err := json.Unmarshal([]byte(data), &status); err != nil {
			continue
		}
		statuses = append(statuses, status)
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Created.After(statuses[j].Created)
	})

	var exports []interface{}
	for _, status := range statuses {
		exports = append(exports, exportStatusMap(status))
	}

	return exports, nil
}

func (s *ExportService) GetExport(ctx context.Context, exportID string) (interface{}, error) {
	if s.redis == nil {
		return nil, errors.New("redis client not configured")
	}

	data, err := s.redis.Get(ctx, exportID)
	if err != nil {
		return nil, errors.New("export not found")
	}

	var status ExportStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, fmt.Errorf("failed to parse export status: %w", err)
	}

	return exportStatusMap(status), nil
}

func exportStatusMap(status ExportStatus) map[string]interface{} {
	m := map[string]interface{}{
		"key":        status.Key,
		"type":       status.Type,
		"progress":   status.Progress,
		"file_url":   status.FileURL,
		"filters":    status.Filters,
		"created_at": status.Created.Format("2006-01-02 15:04:05"),
	}
	if status.Error != nil {
		m["error"] = *status.Error
	}
	return m
}
