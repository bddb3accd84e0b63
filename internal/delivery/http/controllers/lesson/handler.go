package lesson

import (
	"ForestEdu/internal/delivery/http/controllers"
	"ForestEdu/internal/models"
	"ForestEdu/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Service interface {
	CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, id int64) error
	LessonByID(ctx context.Context, id int64) (*models.Lesson, error)
	LessonsByTopic(ctx context.Context, topicID int64) ([]models.Lesson, error)
	ListLessons(ctx context.Context) ([]models.LessonWithTopic, error)
}

type Handler struct {
	log     logger.Log
	service Service
}

func NewHandler(log logger.Log, s Service) *Handler {
	return &Handler{log: log, service: s}
}

type lessonRequest struct {
	TopicID           int64   `json:"topic_id" binding:"required"`
	Title             string  `json:"title" binding:"required"`
	Content           string  `json:"content"`
	Duration          string  `json:"duration"`
	SummaryDiagramURL *string `json:"summary_diagram_url"`
	PowerpointURL     *string `json:"powerpoint_url"`
}

func (r lessonRequest) toModel() models.Lesson {
	return models.Lesson{
		TopicID:           r.TopicID,
		Title:             r.Title,
		Content:           r.Content,
		Duration:          r.Duration,
		SummaryDiagramURL: r.SummaryDiagramURL,
		PowerpointURL:     r.PowerpointURL,
	}
}

func (h *Handler) ListLessons(c *gin.Context) {
	lessons, err := h.service.ListLessons(c.Request.Context())
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

func (h *Handler) LessonsByTopic(c *gin.Context) {
	topicID, ok := controllers.ParamID(c, "topic_id")
	if !ok {
		return
	}
	lessons, err := h.service.LessonsByTopic(c.Request.Context(), topicID)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lessons": lessons})
}

func (h *Handler) LessonByID(c *gin.Context) {
	id, ok := controllers.ParamID(c, "lesson_id")
	if !ok {
		return
	}
	lesson, err := h.service.LessonByID(c.Request.Context(), id)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (h *Handler) CreateLesson(c *gin.Context) {
	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lesson, err := h.service.CreateLesson(c.Request.Context(), req.toModel())
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

func (h *Handler) UpdateLesson(c *gin.Context) {
	id, ok := controllers.ParamID(c, "lesson_id")
	if !ok {
		return
	}
	var req lessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	l := req.toModel()
	l.ID = id
	lesson, err := h.service.UpdateLesson(c.Request.Context(), l)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (h *Handler) DeleteLesson(c *gin.Context) {
	id, ok := controllers.ParamID(c, "lesson_id")
	if !ok {
		return
	}
	if err := h.service.DeleteLesson(c.Request.Context(), id); err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
