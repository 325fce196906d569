package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/agnar3901/sign-manufacturing-app/config"
	"github.com/agnar3901/sign-manufacturing-app/internal/invoice"
	"github.com/agnar3901/sign-manufacturing-app/internal/models"
	"github.com/agnar3901/sign-manufacturing-app/internal/notify"
	"github.com/agnar3901/sign-manufacturing-app/internal/pipeline"
	"github.com/agnar3901/sign-manufacturing-app/internal/store"
	"github.com/agnar3901/sign-manufacturing-app/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type noopNotifier struct{}

func (noopNotifier) SendAll(order *models.Order, pdfPath string) notify.Results {
	return notify.Results{}
}

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	orderStore := store.New(db, logger.Nop())
	require.NoError(t, orderStore.AutoMigrate())

	basePath := t.TempDir()
	renderer := invoice.NewRenderer(config.CompanyInfo{Name: "Test Signs"})
	p := pipeline.New(orderStore, renderer, noopNotifier{}, pipeline.Options{
		BasePath:          basePath,
		ResendOnDuplicate: true,
	}, logger.Nop())

	h := &OrderHandler{Pipeline: p, Store: orderStore, Renderer: renderer, BasePath: basePath}
	sh := &StatsHandler{Store: orderStore}

	r := gin.New()
	r.POST("/api/v1/orders", h.ProcessOrder)
	r.GET("/api/v1/orders", h.ListOrders)
	r.GET("/api/v1/orders/:invoiceId", h.GetOrder)
	r.PUT("/api/v1/orders/:invoiceId/status", h.UpdateOrderStatus)
	r.DELETE("/api/v1/orders/:invoiceId", h.DeleteOrder)
	r.GET("/api/v1/stats/monthly", sh.GetMonthlyStats)
	return r, orderStore
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func orderPayload(invoiceID string) map[string]interface{} {
	payload := map[string]interface{}{
		"customer_name": "John Doe",
		"phone_number":  "+91-9876543210",
		"email_address": "john@example.com",
		"item_type":     "Flex Banner",
		"size":          "4x6 feet",
		"quantity":      2,
		"rate":          150.00,
		"delivery_type": "Local Pickup",
		"payment_mode":  "Cash",
	}
	if invoiceID != "" {
		payload["invoice_id"] = invoiceID
	}
	return payload
}

func TestProcessOrderEndpoint(t *testing.T) {
	r, orderStore := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/orders", orderPayload(""))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.NotEmpty(t, resp["invoice_id"])

	exists, err := orderStore.Exists(resp["invoice_id"].(string))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProcessOrderEndpointRejectsMissingFields(t *testing.T) {
	r, _ := newTestRouter(t)

	payload := orderPayload("")
	delete(payload, "customer_name")

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/orders", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])
}

func TestProcessOrderEndpointRejectsMissingRate(t *testing.T) {
	r, orderStore := newTestRouter(t)

	payload := orderPayload("INV_1_1")
	delete(payload, "rate")

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/orders", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])

	exists, err := orderStore.Exists("INV_1_1")
	require.NoError(t, err)
	assert.False(t, exists, "rejected order must not be persisted")
}

func TestProcessOrderEndpointRejectsInvalidDiscount(t *testing.T) {
	r, _ := newTestRouter(t)

	payload := orderPayload("")
	payload["discount"] = 120.0

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/orders", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])
}

func TestUpdateStatusEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	_, _ = doJSON(t, r, http.MethodPost, "/api/v1/orders", orderPayload("INV_1_1"))

	w, resp := doJSON(t, r, http.MethodPut, "/api/v1/orders/INV_1_1/status",
		map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])

	w, resp = doJSON(t, r, http.MethodPut, "/api/v1/orders/INV_MISSING/status",
		map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Order not found", resp["error"])
}

func TestUpdateStatusEndpointRejectsUnknownStatus(t *testing.T) {
	r, _ := newTestRouter(t)
	_, _ = doJSON(t, r, http.MethodPost, "/api/v1/orders", orderPayload("INV_1_1"))

	w, resp := doJSON(t, r, http.MethodPut, "/api/v1/orders/INV_1_1/status",
		map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status", resp["error"])
}

func TestGetAndDeleteEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	_, _ = doJSON(t, r, http.MethodPost, "/api/v1/orders", orderPayload("INV_1_1"))

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/orders/INV_1_1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "INV_1_1", data["invoice_id"])

	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/orders/INV_1_1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/api/v1/orders/INV_1_1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Order not found", resp["error"])
}

func TestListEndpointPendingBypassesLimit(t *testing.T) {
	r, _ := newTestRouter(t)

	for i := 0; i < 25; i++ {
		_, _ = doJSON(t, r, http.MethodPost, "/api/v1/orders", orderPayload(fmt.Sprintf("INV_1_%d", i)))
	}

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/orders?status=pending&limit=5", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	orders := resp["orders"].([]interface{})
	assert.Len(t, orders, 25)
	assert.Equal(t, float64(25), resp["total"])
}

func TestMonthlyStatsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	_, _ = doJSON(t, r, http.MethodPost, "/api/v1/orders", orderPayload("INV_1_1"))

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/stats/monthly", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	stats := resp["stats"].(map[string]interface{})
	assert.Equal(t, float64(1), stats["totalOrders"])
	assert.Equal(t, float64(300), stats["revenue"])
}

func TestPrintInvoiceFallsBackToConfiguredBasePath(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	orderStore := store.New(db, logger.Nop())
	require.NoError(t, orderStore.AutoMigrate())

	basePath := t.TempDir()
	renderer := invoice.NewRenderer(config.CompanyInfo{Name: "Test Signs"})
	h := &OrderHandler{Store: orderStore, Renderer: renderer, BasePath: basePath}

	r := gin.New()
	r.GET("/api/v1/orders/:invoiceId/print", h.PrintInvoice)

	// A row with no stored artifact paths, as after a restore from backup.
	order := &models.Order{
		InvoiceID:    "INV_1_1",
		CustomerName: "John Doe",
		PhoneNumber:  "+91-9876543210",
		EmailAddress: "john@example.com",
		ItemType:     "Flex Banner",
		Size:         "4x6 feet",
		Quantity:     1,
		Rate:         100,
		Total:        100,
		DeliveryType: "Local Pickup",
		PaymentMode:  "Cash",
		Status:       models.StatusPending,
	}
	require.NoError(t, orderStore.Create(order))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/INV_1_1/print", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.FileExists(t, filepath.Join(basePath, order.CreatedAt.Format("2006-01-02"), "INV_1_1.pdf"))
}
