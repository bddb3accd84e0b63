package http

import (
	"ForestEdu/internal/config"
	"ForestEdu/internal/delivery/http/controllers"
	"ForestEdu/internal/delivery/http/controllers/examfile"
	"ForestEdu/internal/delivery/http/controllers/keyword"
	"ForestEdu/internal/delivery/http/controllers/lesson"
	"ForestEdu/internal/delivery/http/controllers/middleware"
	"ForestEdu/internal/delivery/http/controllers/quiz"
	"ForestEdu/internal/delivery/http/controllers/stats"
	"ForestEdu/internal/delivery/http/controllers/topic"
	"ForestEdu/internal/service"
	"ForestEdu/pkg/logger"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitRoutes(l logger.Log, u service.Collection, corsCfg config.CORS, db controllers.Pinger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsCfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	statusController := controllers.NewStatusHandler(db)
	topicController := topic.NewHandler(l, u.TopicService)
	lessonController := lesson.NewHandler(l, u.LessonService)
	quizQueryController := quiz.NewQueryHandler(l, u.QuizQueryService)
	quizManagementController := quiz.NewManagementHandler(l, u.QuizManagementService)
	attemptController := quiz.NewAttemptHandler(l, u.AttemptService)
	keywordController := keyword.NewHandler(l, u.KeywordService)
	examFileController := examfile.NewHandler(l, u.ExamFileService)
	statsController := stats.NewHandler(l, u.StatsService)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)

		topics := v1.Group("/topics")
		{
			topics.GET("", topicController.ListTopics)
			topics.GET("/:topic_id", topicController.TopicByID)
			topics.GET("/:topic_id/lessons", lessonController.LessonsByTopic)
			topics.GET("/:topic_id/quizzes", quizQueryController.QuizzesByTopic)
			topics.GET("/:topic_id/keywords", keywordController.KeywordsByTopic)
		}

		lessons := v1.Group("/lessons")
		{
			lessons.GET("", lessonController.ListLessons)
			lessons.GET("/:lesson_id", lessonController.LessonByID)
			lessons.GET("/:lesson_id/quizzes", quizQueryController.QuizzesByLesson)
			lessons.POST("/:lesson_id/attempts", attemptController.StartLesson)
		}

		v1.POST("/quizzes/:quiz_id/attempts", attemptController.StartQuiz)

		attempts := v1.Group("/attempts/:attempt_id")
		{
			attempts.GET("", attemptController.Get)
			attempts.PUT("/answers", attemptController.Answer)
			attempts.POST("/submit", attemptController.Submit)
			attempts.POST("/restart", attemptController.Restart)
			attempts.DELETE("", attemptController.Abandon)
		}

		keywords := v1.Group("/keywords")
		{
			keywords.GET("", keywordController.ListKeywords)
			keywords.GET("/:keyword_id", keywordController.KeywordByID)
		}

		files := v1.Group("/exam-files")
		{
			files.GET("", examFileController.ListExamFiles)
			files.GET("/:file_id", examFileController.ExamFileByID)
		}

		st := v1.Group("/stats")
		{
			st.GET("", statsController.Totals)
			st.GET("/topics", statsController.TopicSummaries)
			st.GET("/activity", statsController.RecentActivity)
		}

		// no authentication in front of the console
		admin := v1.Group("/admin")
		{
			admin.POST("/topics", topicController.CreateTopic)
			admin.PUT("/topics/:topic_id", topicController.UpdateTopic)
			admin.DELETE("/topics/:topic_id", topicController.DeleteTopic)

			admin.POST("/lessons", lessonController.CreateLesson)
			admin.PUT("/lessons/:lesson_id", lessonController.UpdateLesson)
			admin.DELETE("/lessons/:lesson_id", lessonController.DeleteLesson)

			admin.GET("/quizzes/:quiz_id", quizManagementController.QuizByID)
			admin.POST("/quizzes", quizManagementController.CreateQuiz)
			admin.PUT("/quizzes/:quiz_id", quizManagementController.UpdateQuiz)
			admin.DELETE("/quizzes/:quiz_id", quizManagementController.DeleteQuiz)

			admin.POST("/keywords", keywordController.CreateKeyword)
			admin.PUT("/keywords/:keyword_id", keywordController.UpdateKeyword)
			admin.DELETE("/keywords/:keyword_id", keywordController.DeleteKeyword)

			admin.POST("/exam-files", examFileController.UploadExamFile)
			admin.DELETE("/exam-files/:file_id", examFileController.DeleteExamFile)
		}
	}
	return r
}
