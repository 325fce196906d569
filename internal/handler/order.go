package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/agnar3901/sign-manufacturing-app/internal/invoice"
	"github.com/agnar3901/sign-manufacturing-app/internal/models"
	"github.com/agnar3901/sign-manufacturing-app/internal/pipeline"
	"github.com/agnar3901/sign-manufacturing-app/internal/store"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Pipeline *pipeline.Pipeline
	Store    *store.Store
	Renderer *invoice.Renderer

	// BasePath roots the invoice output tree for reprints.
	BasePath string
}

func (h *OrderHandler) ProcessOrder(c *gin.Context) {
	var req pipeline.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	// Value-range checks the binding tags cannot express still answer 400.
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result := h.Pipeline.ProcessOrder(req)
	if !result.Success {
		c.JSON(http.StatusInternalServerError, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	page := 1
	limit := 20

	if c.Query("page") != "" {
		fmt.Sscanf(c.Query("page"), "%d", &page)
	}
	if c.Query("limit") != "" {
		fmt.Sscanf(c.Query("limit"), "%d", &limit)
	}

	filter := store.ListFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	}
	if c.Query("mode") == "by-date" {
		filter.Date = c.Query("date")
	}

	result, err := h.Store.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  result.Orders,
		"total":   result.Total,
		"page":    page,
	})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.Store.GetByInvoiceID(c.Param("invoiceId"))
	if err != nil {
		status, msg := errorResponse(err)
		c.JSON(status, gin.H{"success": false, "error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if !models.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid status"})
		return
	}

	if err := h.Store.UpdateStatus(c.Param("invoiceId"), req.Status); err != nil {
		status, msg := errorResponse(err)
		c.JSON(status, gin.H{"success": false, "error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if err := h.Store.Delete(c.Param("invoiceId")); err != nil {
		status, msg := errorResponse(err)
		c.JSON(status, gin.H{"success": false, "error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PrintInvoice regenerates the PDF from the stored row and streams it back,
// so an invoice can be reprinted even if the original file was cleaned up.
func (h *OrderHandler) PrintInvoice(c *gin.Context) {
	order, err := h.Store.GetByInvoiceID(c.Param("invoiceId"))
	if err != nil {
		status, msg := errorResponse(err)
		c.JSON(status, gin.H{"success": false, "error": msg})
		return
	}

	pdfPath := order.PDFFilePath
	if pdfPath == "" {
		pdfPath = filepath.Join(h.BasePath, order.CreatedAt.Format("2006-01-02"), order.InvoiceID+".pdf")
	}
	if err := h.Renderer.Generate(order, pdfPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to generate invoice"})
		return
	}
	c.FileAttachment(pdfPath, order.InvoiceID+".pdf")
}

func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrOrderNotFound):
		return http.StatusNotFound, "Order not found"
	case errors.Is(err, store.ErrDuplicateInvoice):
		return http.StatusConflict, "Invoice already exists"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
