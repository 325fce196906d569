package pipeline

import (
	"encoding/json"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/agnar3901/sign-manufacturing-app/config"
	"github.com/agnar3901/sign-manufacturing-app/internal/invoice"
	"github.com/agnar3901/sign-manufacturing-app/internal/models"
	"github.com/agnar3901/sign-manufacturing-app/internal/notify"
	"github.com/agnar3901/sign-manufacturing-app/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	orders  map[string]*models.Order
	creates int
	audits  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: map[string]*models.Order{}}
}

func (f *fakeStore) Exists(invoiceID string) (bool, error) {
	_, ok := f.orders[invoiceID]
	return ok, nil
}

func (f *fakeStore) Create(order *models.Order) error {
	f.creates++
	f.orders[order.InvoiceID] = order
	return nil
}

func (f *fakeStore) RecordNotification(invoiceID, channel string, success bool, detail string) error {
	f.audits = append(f.audits, channel)
	return nil
}

type fakeNotifier struct {
	calls   int
	results notify.Results
}

func (f *fakeNotifier) SendAll(order *models.Order, pdfPath string) notify.Results {
	f.calls++
	return f.results
}

func newTestPipeline(t *testing.T, st *fakeStore, n *fakeNotifier, resend bool) *Pipeline {
	t.Helper()
	renderer := invoice.NewRenderer(config.CompanyInfo{Name: "Test Signs"})
	return New(st, renderer, n, Options{
		BasePath:          t.TempDir(),
		ResendOnDuplicate: resend,
	}, logger.Nop())
}

func floatPtr(v float64) *float64 { return &v }

func validRequest() OrderRequest {
	return OrderRequest{
		CustomerName: "John Doe",
		PhoneNumber:  "+91-9876543210",
		EmailAddress: "john@example.com",
		ItemType:     "Flex Banner",
		Size:         "4x6 feet",
		Quantity:     2,
		Rate:         floatPtr(150.00),
		DeliveryType: "Local Pickup",
		PaymentMode:  "Cash",
	}
}

func TestProcessOrderSynthesizesInvoiceID(t *testing.T) {
	st := newFakeStore()
	p := newTestPipeline(t, st, &fakeNotifier{}, true)

	result := p.ProcessOrder(validRequest())
	require.True(t, result.Success, "error: %s", result.Error)

	assert.Regexp(t, regexp.MustCompile(`^INV_\d+_\d+$`), result.InvoiceID)
	assert.Equal(t, 300.00, st.orders[result.InvoiceID].Total)
}

func TestGenerateInvoiceIDPattern(t *testing.T) {
	now := time.Now()
	pattern := regexp.MustCompile(`^INV_\d+_\d+$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateInvoiceID(now)
		assert.Regexp(t, pattern, id)
		assert.False(t, seen[id], "generated ids must not collide: %s", id)
		seen[id] = true
	}
}

func TestProcessOrderKeepsExplicitValues(t *testing.T) {
	st := newFakeStore()
	p := newTestPipeline(t, st, &fakeNotifier{}, true)

	req := validRequest()
	req.InvoiceID = "INV_1700000000000_42"
	req.Total = floatPtr(999.00)

	result := p.ProcessOrder(req)
	require.True(t, result.Success)
	assert.Equal(t, "INV_1700000000000_42", result.InvoiceID)
	assert.Equal(t, 999.00, st.orders[result.InvoiceID].Total)
}

func TestProcessOrderKeepsExplicitZeroTotal(t *testing.T) {
	st := newFakeStore()
	p := newTestPipeline(t, st, &fakeNotifier{}, true)

	// A free-of-charge replacement order: total is stated, not derived.
	req := validRequest()
	req.Total = floatPtr(0)

	result := p.ProcessOrder(req)
	require.True(t, result.Success)
	assert.Equal(t, 0.00, st.orders[result.InvoiceID].Total)
}

func TestProcessOrderWritesArtifacts(t *testing.T) {
	st := newFakeStore()
	p := newTestPipeline(t, st, &fakeNotifier{}, true)

	result := p.ProcessOrder(validRequest())
	require.True(t, result.Success)

	// PDF and snapshot live side by side in the date-partitioned dir.
	assert.FileExists(t, result.PDFPath)
	assert.FileExists(t, result.JSONPath)

	data, err := os.ReadFile(result.JSONPath)
	require.NoError(t, err)
	var snapshot OrderRequest
	require.NoError(t, json.Unmarshal(data, &snapshot))
	assert.Equal(t, result.InvoiceID, snapshot.InvoiceID)
	require.NotNil(t, snapshot.Total)
	assert.Equal(t, 300.00, *snapshot.Total)

	// Persisted row carries the artifact paths.
	order := st.orders[result.InvoiceID]
	assert.Equal(t, result.PDFPath, order.PDFFilePath)
	assert.Equal(t, result.JSONPath, order.JSONFilePath)
}

func TestProcessOrderDuplicateSkipsPersistence(t *testing.T) {
	st := newFakeStore()
	n := &fakeNotifier{}
	p := newTestPipeline(t, st, n, true)

	req := validRequest()
	req.InvoiceID = "INV_1700000000000_7"

	first := p.ProcessOrder(req)
	require.True(t, first.Success)

	// Remove the PDF so the second run proves regeneration.
	require.NoError(t, os.Remove(first.PDFPath))

	second := p.ProcessOrder(req)
	require.True(t, second.Success)

	assert.Equal(t, 1, st.creates, "duplicate must not insert a second row")
	assert.FileExists(t, second.PDFPath)
	assert.Equal(t, 2, n.calls, "replay resends notifications by default")
}

func TestProcessOrderDuplicateWithoutResend(t *testing.T) {
	st := newFakeStore()
	n := &fakeNotifier{}
	p := newTestPipeline(t, st, n, false)

	req := validRequest()
	req.InvoiceID = "INV_1700000000000_8"

	require.True(t, p.ProcessOrder(req).Success)
	second := p.ProcessOrder(req)
	require.True(t, second.Success)

	assert.Equal(t, 1, n.calls, "resend disabled: duplicate must not notify")
	assert.Nil(t, second.Notifications)
}

func TestProcessOrderRecordsNotificationAudit(t *testing.T) {
	st := newFakeStore()
	n := &fakeNotifier{results: notify.Results{
		SMS:      true,
		Email:    true,
		WhatsApp: notify.ChannelResult{Success: false, Error: "gateway down"},
	}}
	p := newTestPipeline(t, st, n, true)

	result := p.ProcessOrder(validRequest())
	require.True(t, result.Success)

	assert.ElementsMatch(t, []string{"sms", "email", "whatsapp"}, st.audits)
	require.NotNil(t, result.Notifications)
	assert.True(t, result.Notifications.SMS)
	assert.False(t, result.Notifications.WhatsApp.Success)
}

func TestProcessOrderRejectsMalformedInput(t *testing.T) {
	st := newFakeStore()
	p := newTestPipeline(t, st, &fakeNotifier{}, true)

	tests := []struct {
		name   string
		mutate func(*OrderRequest)
	}{
		{"missing customer name", func(r *OrderRequest) { r.CustomerName = "" }},
		{"missing phone", func(r *OrderRequest) { r.PhoneNumber = "" }},
		{"missing email", func(r *OrderRequest) { r.EmailAddress = "" }},
		{"missing item type", func(r *OrderRequest) { r.ItemType = "" }},
		{"zero quantity", func(r *OrderRequest) { r.Quantity = 0 }},
		{"missing rate", func(r *OrderRequest) { r.Rate = nil }},
		{"negative rate", func(r *OrderRequest) { r.Rate = floatPtr(-1) }},
		{"discount above 100", func(r *OrderRequest) {
			d := 120.0
			r.Discount = &d
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			result := p.ProcessOrder(req)
			assert.False(t, result.Success)
			assert.NotEmpty(t, result.Error)
			assert.Equal(t, "Failed to process order", result.Message)
		})
	}
	assert.Equal(t, 0, st.creates, "rejected orders must not be persisted")
}
