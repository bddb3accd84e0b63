package quiz

import (
	"ForestEdu/internal/delivery/http/controllers"
	"ForestEdu/internal/models"
	"ForestEdu/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type QueryService interface {
	QuizzesByLesson(ctx context.Context, lessonID int64) ([]models.Quiz, error)
	QuizzesByTopic(ctx context.Context, topicID int64) (*models.TopicQuizzesStats, error)
}

type QueryHandler struct {
	log     logger.Log
	service QueryService
}

func NewQueryHandler(log logger.Log, s QueryService) *QueryHandler {
	return &QueryHandler{log: log, service: s}
}

func (h *QueryHandler) QuizzesByLesson(c *gin.Context) {
	lessonID, ok := controllers.ParamID(c, "lesson_id")
	if !ok {
		return
	}
	quizzes, err := h.service.QuizzesByLesson(c.Request.Context(), lessonID)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

func (h *QueryHandler) QuizzesByTopic(c *gin.Context) {
	topicID, ok := controllers.ParamID(c, "topic_id")
	if !ok {
		return
	}
	stats, err := h.service.QuizzesByTopic(c.Request.Context(), topicID)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
