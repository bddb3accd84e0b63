package keyword

import (
	"ForestEdu/internal/delivery/http/controllers"
	"ForestEdu/internal/models"
	"ForestEdu/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Service interface {
	ListKeywords(ctx context.Context) ([]models.Keyword, error)
	KeywordsByTopic(ctx context.Context, topicID int64) ([]models.Keyword, error)
	Search(ctx context.Context, topicID int64, query string) ([]models.Keyword, error)
	KeywordByID(ctx context.Context, id int64) (*models.Keyword, error)
	CreateKeyword(ctx context.Context, k models.Keyword) (*models.Keyword, error)
	UpdateKeyword(ctx context.Context, k models.Keyword) (*models.Keyword, error)
	DeleteKeyword(ctx context.Context, id int64) error
}

type Handler struct {
	log     logger.Log
	service Service
}

func NewHandler(log logger.Log, s Service) *Handler {
	return &Handler{log: log, service: s}
}

type createKeywordRequest struct {
	TopicID    int64  `json:"topic_id" binding:"required"`
	Term       string `json:"term" binding:"required"`
	Definition string `json:"definition" binding:"required"`
}

type updateKeywordRequest struct {
	Term       string `json:"term" binding:"required"`
	Definition string `json:"definition" binding:"required"`
}

// ListKeywords serves GET /keywords?topic_id=&q=.
func (h *Handler) ListKeywords(c *gin.Context) {
	topicID, ok := controllers.QueryID(c, "topic_id")
	if !ok {
		return
	}
	var id int64
	if topicID != nil {
		id = *topicID
	}

	keywords, err := h.service.Search(c.Request.Context(), id, c.Query("q"))
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keywords": keywords})
}

func (h *Handler) KeywordsByTopic(c *gin.Context) {
	topicID, ok := controllers.ParamID(c, "topic_id")
	if !ok {
		return
	}
	keywords, err := h.service.KeywordsByTopic(c.Request.Context(), topicID)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"keywords": keywords})
}

func (h *Handler) KeywordByID(c *gin.Context) {
	id, ok := controllers.ParamID(c, "keyword_id")
	if !ok {
		return
	}
	k, err := h.service.KeywordByID(c.Request.Context(), id)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, k)
}

func (h *Handler) CreateKeyword(c *gin.Context) {
	var req createKeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	k, err := h.service.CreateKeyword(c.Request.Context(), models.Keyword{
		TopicID:    req.TopicID,
		Term:       req.Term,
		Definition: req.Definition,
	})
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, k)
}

func (h *Handler) UpdateKeyword(c *gin.Context) {
	id, ok := controllers.ParamID(c, "keyword_id")
	if !ok {
		return
	}
	var req updateKeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	k, err := h.service.UpdateKeyword(c.Request.Context(), models.Keyword{
		ID:         id,
		Term:       req.Term,
		Definition: req.Definition,
	})
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, k)
}

func (h *Handler) DeleteKeyword(c *gin.Context) {
	id, ok := controllers.ParamID(c, "keyword_id")
	if !ok {
		return
	}
	if err := h.service.DeleteKeyword(c.Request.Context(), id); err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
