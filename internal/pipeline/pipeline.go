package pipeline

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agnar3901/sign-manufacturing-app/internal/invoice"
	"github.com/agnar3901/sign-manufacturing-app/internal/models"
	"github.com/agnar3901/sign-manufacturing-app/internal/notify"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderStore is the slice of the store the pipeline needs.
type OrderStore interface {
	Exists(invoiceID string) (bool, error)
	Create(order *models.Order) error
	RecordNotification(invoiceID, channel string, success bool, detail string) error
}

// Notifier fans the confirmation out to all channels.
type Notifier interface {
	SendAll(order *models.Order, pdfPath string) notify.Results
}

// Result is the unified outcome of one processing run.
type Result struct {
	Success       bool            `json:"success"`
	InvoiceID     string          `json:"invoice_id,omitempty"`
	PDFPath       string          `json:"pdf_path,omitempty"`
	JSONPath      string          `json:"json_path,omitempty"`
	Notifications *notify.Results `json:"notifications,omitempty"`
	Message       string          `json:"message,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// Pipeline chains invoice generation, persistence and notification fan-out
// for one order. There is no rollback: files already written stay on disk
// when a later step fails.
type Pipeline struct {
	store    OrderStore
	renderer *invoice.Renderer
	notifier Notifier
	log      *zap.SugaredLogger

	// basePath roots the date-partitioned output tree.
	basePath string

	// resendOnDuplicate controls whether reprocessing an already-persisted
	// invoice resends notifications.
	resendOnDuplicate bool

	nowFunc func() time.Time
}

// Options tune pipeline behavior.
type Options struct {
	BasePath          string
	ResendOnDuplicate bool
}

func New(store OrderStore, renderer *invoice.Renderer, notifier Notifier, opts Options, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		store:             store,
		renderer:          renderer,
		notifier:          notifier,
		log:               log,
		basePath:          opts.BasePath,
		resendOnDuplicate: opts.ResendOnDuplicate,
		nowFunc:           time.Now,
	}
}

// GenerateInvoiceID synthesizes an invoice id from the current time and a
// random discriminator. The discriminator is drawn from a random UUID, wide
// enough that simultaneous submissions do not collide in practice.
func GenerateInvoiceID(now time.Time) string {
	id := uuid.New()
	discriminator := binary.BigEndian.Uint32(id[:4])
	return fmt.Sprintf("INV_%d_%d", now.UnixMilli(), discriminator)
}

// ProcessOrder runs the full pipeline:
// normalize -> invoice pdf -> json snapshot -> persist -> notify.
// Any failure is converted into Result{Success: false}; there is no
// partial-result reporting.
func (p *Pipeline) ProcessOrder(req OrderRequest) Result {
	if err := req.Validate(); err != nil {
		return failure(err)
	}

	now := p.nowFunc()
	if req.InvoiceID == "" {
		req.InvoiceID = GenerateInvoiceID(now)
	}
	if req.Total == nil {
		// Discount is ignored here: total is the undiscounted line amount,
		// the renderer applies the discount in the totals block.
		total := float64(req.Quantity) * *req.Rate
		req.Total = &total
	}

	exists, err := p.store.Exists(req.InvoiceID)
	if err != nil {
		return failure(err)
	}

	order := req.ToOrder()

	outDir := filepath.Join(p.basePath, now.Format("2006-01-02"))
	pdfPath := filepath.Join(outDir, req.InvoiceID+".pdf")
	jsonPath := filepath.Join(outDir, req.InvoiceID+".json")

	if err := p.renderer.Generate(order, pdfPath); err != nil {
		return failure(err)
	}
	if err := p.writeSnapshot(req, jsonPath); err != nil {
		return failure(err)
	}

	order.PDFFilePath = pdfPath
	order.JSONFilePath = jsonPath

	if !exists {
		if err := p.store.Create(order); err != nil {
			return failure(err)
		}
	} else {
		p.log.Infow("invoice already persisted, skipping insert", "invoice_id", req.InvoiceID)
	}

	result := Result{
		Success:   true,
		InvoiceID: req.InvoiceID,
		PDFPath:   pdfPath,
		JSONPath:  jsonPath,
		Message:   "Order processed successfully",
	}

	if !exists || p.resendOnDuplicate {
		notifications := p.notifier.SendAll(order, pdfPath)
		p.audit(req.InvoiceID, notifications)
		result.Notifications = &notifications
	}

	return result
}

func (p *Pipeline) writeSnapshot(req OrderRequest, jsonPath string) error {
	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal order snapshot: %w", err)
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return fmt.Errorf("write order snapshot: %w", err)
	}
	return nil
}

func (p *Pipeline) audit(invoiceID string, r notify.Results) {
	record := func(channel string, success bool, detail string) {
		if err := p.store.RecordNotification(invoiceID, channel, success, detail); err != nil {
			p.log.Warnw("failed to record notification audit",
				"invoice_id", invoiceID, "channel", channel, "error", err)
		}
	}
	record(notify.ChannelSMS, r.SMS, "")
	record(notify.ChannelEmail, r.Email, "")
	record(notify.ChannelWhatsApp, r.WhatsApp.Success, r.WhatsApp.Error)
}

func failure(err error) Result {
	return Result{
		Success: false,
		Error:   err.Error(),
		Message: "Failed to process order",
	}
}
