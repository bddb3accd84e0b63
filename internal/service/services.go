package service

import (
	"ForestEdu/internal/service/examfile"
	"ForestEdu/internal/service/keyword"
	"ForestEdu/internal/service/lesson"
	"ForestEdu/internal/service/quiz/attempt"
	"ForestEdu/internal/service/quiz/management"
	"ForestEdu/internal/service/quiz/query"
	"ForestEdu/internal/service/stats"
	"ForestEdu/internal/service/topic"
)

type Collection struct {
	*topic.TopicService
	*lesson.LessonService
	*query.QuizQueryService
	*management.QuizManagementService
	*attempt.AttemptService
	*keyword.KeywordService
	*examfile.ExamFileService
	*stats.StatsService
}
