package quiz

import (
	"ForestEdu/internal/delivery/http/controllers"
	"ForestEdu/internal/service/quiz/attempt"
	"ForestEdu/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AttemptService interface {
	Start(ctx context.Context, quizID int64) (*attempt.View, error)
	StartLesson(ctx context.Context, lessonID int64) (*attempt.View, error)
	Get(ctx context.Context, attemptID string) (*attempt.View, error)
	Answer(ctx context.Context, attemptID string, questionID int64, optionIndex int) (*attempt.View, error)
	Submit(ctx context.Context, attemptID string) (*attempt.View, error)
	Restart(ctx context.Context, attemptID string) (*attempt.View, error)
	Abandon(ctx context.Context, attemptID string) error
}

type AttemptHandler struct {
	log     logger.Log
	service AttemptService
}

func NewAttemptHandler(log logger.Log, s AttemptService) *AttemptHandler {
	return &AttemptHandler{log: log, service: s}
}

type answerRequest struct {
	QuestionID  int64 `json:"question_id" binding:"required"`
	OptionIndex *int  `json:"option_index" binding:"required"`
}

func (h *AttemptHandler) StartQuiz(c *gin.Context) {
	quizID, ok := controllers.ParamID(c, "quiz_id")
	if !ok {
		return
	}
	v, err := h.service.Start(c.Request.Context(), quizID)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *AttemptHandler) StartLesson(c *gin.Context) {
	lessonID, ok := controllers.ParamID(c, "lesson_id")
	if !ok {
		return
	}
	v, err := h.service.StartLesson(c.Request.Context(), lessonID)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *AttemptHandler) Get(c *gin.Context) {
	v, err := h.service.Get(c.Request.Context(), c.Param("attempt_id"))
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *AttemptHandler) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := h.service.Answer(c.Request.Context(), c.Param("attempt_id"), req.QuestionID, *req.OptionIndex)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *AttemptHandler) Submit(c *gin.Context) {
	v, err := h.service.Submit(c.Request.Context(), c.Param("attempt_id"))
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *AttemptHandler) Restart(c *gin.Context) {
	v, err := h.service.Restart(c.Request.Context(), c.Param("attempt_id"))
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *AttemptHandler) Abandon(c *gin.Context) {
	if err := h.service.Abandon(c.Request.Context(), c.Param("attempt_id")); err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
