package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juanis2112/repoexplorer/internal/models"
)

// HealthHandler reports service liveness and dataset readiness.
type HealthHandler struct {
	dataset *models.Dataset
}

func NewHealthHandler(dataset *models.Dataset) *HealthHandler {
	return &HealthHandler{dataset: dataset}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"repositories": len(h.dataset.Repositories),
		"commits":      len(h.dataset.Commits),
	})
}
