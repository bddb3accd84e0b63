package quiz

import (
	"ForestEdu/internal/delivery/http/controllers"
	"ForestEdu/internal/models"
	"ForestEdu/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ManagementService interface {
	QuizByID(ctx context.Context, quizID int64) (*models.Quiz, error)
	CreateQuiz(ctx context.Context, topicID int64, lessonID *int64, title string, questions []models.QuestionInput) (*models.Quiz, error)
	UpdateQuiz(ctx context.Context, quizID int64, title string, questions []models.QuestionInput) (*models.Quiz, error)
	DeleteQuiz(ctx context.Context, quizID int64) error
}

type ManagementHandler struct {
	log     logger.Log
	service ManagementService
}

func NewManagementHandler(log logger.Log, s ManagementService) *ManagementHandler {
	return &ManagementHandler{log: log, service: s}
}

type createQuizRequest struct {
	TopicID   int64                  `json:"topic_id"`
	LessonID  *int64                 `json:"lesson_id"`
	Title     string                 `json:"title" binding:"required"`
	Questions []models.QuestionInput `json:"questions" binding:"required,dive"`
}

type updateQuizRequest struct {
	Title     string                 `json:"title" binding:"required"`
	Questions []models.QuestionInput `json:"questions" binding:"required,dive"`
}

func (h *ManagementHandler) QuizByID(c *gin.Context) {
	quizID, ok := controllers.ParamID(c, "quiz_id")
	if !ok {
		return
	}
	q, err := h.service.QuizByID(c.Request.Context(), quizID)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *ManagementHandler) CreateQuiz(c *gin.Context) {
	var req createQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.TopicID <= 0 && req.LessonID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "topic_id or lesson_id is required"})
		return
	}
	q, err := h.service.CreateQuiz(c.Request.Context(), req.TopicID, req.LessonID, req.Title, req.Questions)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

func (h *ManagementHandler) UpdateQuiz(c *gin.Context) {
	quizID, ok := controllers.ParamID(c, "quiz_id")
	if !ok {
		return
	}
	var req updateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	q, err := h.service.UpdateQuiz(c.Request.Context(), quizID, req.Title, req.Questions)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *ManagementHandler) DeleteQuiz(c *gin.Context) {
	quizID, ok := controllers.ParamID(c, "quiz_id")
	if !ok {
		return
	}
	if err := h.service.DeleteQuiz(c.Request.Context(), quizID); err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
