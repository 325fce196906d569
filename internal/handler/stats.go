package handler

import (
	"net/http"

	"github.com/agnar3901/sign-manufacturing-app/internal/store"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	Store *store.Store
}

func (h *StatsHandler) GetMonthlyStats(c *gin.Context) {
	stats, err := h.Store.GetMonthlyStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
