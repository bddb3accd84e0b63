package topic

import (
	"ForestEdu/internal/delivery/http/controllers"
	"ForestEdu/internal/models"
	"ForestEdu/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Service interface {
	ListTopics(ctx context.Context) ([]models.TopicPreview, error)
	TopicByID(ctx context.Context, id int64) (*models.Topic, error)
	CreateTopic(ctx context.Context, t models.Topic) (*models.Topic, error)
	UpdateTopic(ctx context.Context, t models.Topic) (*models.Topic, error)
	DeleteTopic(ctx context.Context, id int64) error
}

type Handler struct {
	log     logger.Log
	service Service
}

func NewHandler(log logger.Log, s Service) *Handler {
	return &Handler{log: log, service: s}
}

type topicRequest struct {
	Title              string `json:"title" binding:"required"`
	Description        string `json:"description"`
	Color              string `json:"color"`
	BackgroundImageURL string `json:"background_image_url"`
}

func (r topicRequest) toModel() models.Topic {
	return models.Topic{
		Title:              r.Title,
		Description:        r.Description,
		Color:              r.Color,
		BackgroundImageURL: r.BackgroundImageURL,
	}
}

func (h *Handler) ListTopics(c *gin.Context) {
	topics, err := h.service.ListTopics(c.Request.Context())
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

func (h *Handler) TopicByID(c *gin.Context) {
	id, ok := controllers.ParamID(c, "topic_id")
	if !ok {
		return
	}
	topic, err := h.service.TopicByID(c.Request.Context(), id)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

func (h *Handler) CreateTopic(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	topic, err := h.service.CreateTopic(c.Request.Context(), req.toModel())
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

func (h *Handler) UpdateTopic(c *gin.Context) {
	id, ok := controllers.ParamID(c, "topic_id")
	if !ok {
		return
	}
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t := req.toModel()
	t.ID = id
	topic, err := h.service.UpdateTopic(c.Request.Context(), t)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

func (h *Handler) DeleteTopic(c *gin.Context) {
	id, ok := controllers.ParamID(c, "topic_id")
	if !ok {
		return
	}
	if err := h.service.DeleteTopic(c.Request.Context(), id); err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
