package stats

import (
	"ForestEdu/internal/delivery/http/controllers"
	"ForestEdu/internal/models"
	"ForestEdu/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Service interface {
	Totals(ctx context.Context) (*models.Stats, error)
	TopicSummaries(ctx context.Context) ([]models.TopicSummary, error)
	RecentActivity(ctx context.Context) ([]models.Activity, error)
}

type Handler struct {
	log     logger.Log
	service Service
}

func NewHandler(log logger.Log, s Service) *Handler {
	return &Handler{log: log, service: s}
}

func (h *Handler) Totals(c *gin.Context) {
	s, err := h.service.Totals(c.Request.Context())
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) TopicSummaries(c *gin.Context) {
	summaries, err := h.service.TopicSummaries(c.Request.Context())
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": summaries})
}

func (h *Handler) RecentActivity(c *gin.Context) {
	activity, err := h.service.RecentActivity(c.Request.Context())
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": activity})
}
