package http

import (
	"ForestEdu/internal/app_errors"
	"ForestEdu/internal/config"
	"ForestEdu/internal/models"
	"ForestEdu/internal/quiz"
	"ForestEdu/internal/service"
	"ForestEdu/internal/service/quiz/attempt"
	"ForestEdu/internal/service/topic"
	"ForestEdu/pkg/logger"
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// questionRepo mirrors the postgres repository: a missing quiz or lesson is
// not found, an existing one may have no questions.
type questionRepo struct {
	quizzes map[int64][]quiz.Question
	lessons map[int64][]quiz.Question
}

func (r questionRepo) QuestionsByQuiz(ctx context.Context, quizID int64) ([]quiz.Question, error) {
	qs, ok := r.quizzes[quizID]
	if !ok {
		return nil, app_errors.ErrQuizNotFound
	}
	return qs, nil
}

func (r questionRepo) QuestionsByLesson(ctx context.Context, lessonID int64) ([]quiz.Question, error) {
	qs, ok := r.lessons[lessonID]
	if !ok {
		return nil, app_errors.ErrLessonNotFound
	}
	return qs, nil
}

type attemptRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.QuizAttempt
}

func (r *attemptRepo) CreateAttempt(ctx context.Context, a models.QuizAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[a.ID] = a
	return nil
}

func (r *attemptRepo) AttemptByID(ctx context.Context, id uuid.UUID) (*models.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, app_errors.ErrAttemptNotFound
	}
	return &a, nil
}

func (r *attemptRepo) UpdateAttempt(ctx context.Context, id uuid.UUID, fn func(*models.QuizAttempt) error) (*models.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, app_errors.ErrAttemptNotFound
	}
	if err := fn(&a); err != nil {
		return nil, err
	}
	r.rows[id] = a
	return &a, nil
}

func (r *attemptRepo) DeleteAttempt(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return app_errors.ErrAttemptNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *attemptRepo) DeleteExpiredAttempts(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type topicRepo struct{}

func (topicRepo) ListTopics(ctx context.Context) ([]models.TopicPreview, error) {
	return nil, nil
}

func (topicRepo) TopicByID(ctx context.Context, id int64) (*models.Topic, error) {
	return nil, app_errors.ErrTopicNotFound
}

func (topicRepo) CreateTopic(ctx context.Context, t models.Topic) (*models.Topic, error) {
	t.ID = 1
	return &t, nil
}

func (topicRepo) UpdateTopic(ctx context.Context, t models.Topic) (*models.Topic, error) {
	return nil, app_errors.ErrTopicNotFound
}

func (topicRepo) DeleteTopic(ctx context.Context, id int64) error {
	return app_errors.ErrTopicNotFound
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	q1, err := quiz.NewQuestion(1, "2+2?", []string{"3", "4"}, 1)
	require.NoError(t, err)
	q2, err := quiz.NewQuestion(2, "Largest planet?", []string{"Mars", "Jupiter", "Venus"}, 1)
	require.NoError(t, err)

	log := logger.Discard()
	questions := questionRepo{
		quizzes: map[int64][]quiz.Question{7: {q1, q2}, 8: {}},
		lessons: map[int64][]quiz.Question{4: {}},
	}
	attempts := &attemptRepo{rows: map[uuid.UUID]models.QuizAttempt{}}
	u := service.Collection{
		TopicService:   topic.NewTopicService(log, topicRepo{}),
		AttemptService: attempt.NewAttemptService(log, questions, attempts, time.Hour),
	}
	return InitRoutes(log, u, config.CORS{AllowOrigins: []string{"http://localhost:5173"}}, nil)
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func TestStatus(t *testing.T) {
	r := newTestRouter(t)
	w, body := do(t, r, nethttp.MethodGet, "/v1/status", nil)
	assert.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, "Available", body["status"])
}

func TestAttemptFlow(t *testing.T) {
	r := newTestRouter(t)

	w, body := do(t, r, nethttp.MethodPost, "/v1/quizzes/7/attempts", nil)
	require.Equal(t, nethttp.StatusCreated, w.Code)
	id, _ := body["attempt_id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "in_progress", body["status"])

	questions := body["questions"].([]any)
	require.Len(t, questions, 2)
	_, leaked := questions[0].(map[string]any)["correct_option_index"]
	assert.False(t, leaked, "correct answer must stay hidden before submit")

	w, body = do(t, r, nethttp.MethodPut, "/v1/attempts/"+id+"/answers", gin.H{"question_id": 1, "option_index": 1})
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["answered_count"])

	w, _ = do(t, r, nethttp.MethodPut, "/v1/attempts/"+id+"/answers", gin.H{"question_id": 1, "option_index": 9})
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)

	w, _ = do(t, r, nethttp.MethodPut, "/v1/attempts/"+id+"/answers", gin.H{"question_id": 1})
	assert.Equal(t, nethttp.StatusBadRequest, w.Code)

	w, body = do(t, r, nethttp.MethodPost, "/v1/attempts/"+id+"/submit", nil)
	require.Equal(t, nethttp.StatusOK, w.Code)
	result := body["result"].(map[string]any)
	assert.EqualValues(t, 50, result["score"])
	assert.EqualValues(t, 1, result["correct_count"])
	assert.Equal(t, "needs_work", result["grade"])

	w, _ = do(t, r, nethttp.MethodPost, "/v1/attempts/"+id+"/submit", nil)
	assert.Equal(t, nethttp.StatusConflict, w.Code)

	w, _ = do(t, r, nethttp.MethodPut, "/v1/attempts/"+id+"/answers", gin.H{"question_id": 2, "option_index": 1})
	assert.Equal(t, nethttp.StatusConflict, w.Code)

	w, body = do(t, r, nethttp.MethodPost, "/v1/attempts/"+id+"/restart", nil)
	require.Equal(t, nethttp.StatusCreated, w.Code)
	assert.NotEqual(t, id, body["attempt_id"])

	w, _ = do(t, r, nethttp.MethodGet, "/v1/attempts/"+id, nil)
	assert.Equal(t, nethttp.StatusNotFound, w.Code)
}

func TestStartAttemptSources(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name string
		path string
		want int
		err  string
	}{
		{"quiz without questions", "/v1/quizzes/8/attempts", nethttp.StatusBadRequest, "invalid argument"},
		{"missing quiz", "/v1/quizzes/9/attempts", nethttp.StatusNotFound, "quiz not found"},
		{"lesson without quizzes", "/v1/lessons/4/attempts", nethttp.StatusBadRequest, "invalid argument"},
		{"missing lesson", "/v1/lessons/3/attempts", nethttp.StatusNotFound, "lesson not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := do(t, r, nethttp.MethodPost, tt.path, nil)
			assert.Equal(t, tt.want, w.Code)
			assert.Contains(t, body["error"], tt.err)
		})
	}
}

func TestErrorMapping(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"bad id", nethttp.MethodGet, "/v1/topics/abc", nil, nethttp.StatusBadRequest},
		{"zero id", nethttp.MethodGet, "/v1/topics/0", nil, nethttp.StatusBadRequest},
		{"missing topic", nethttp.MethodGet, "/v1/topics/5", nil, nethttp.StatusNotFound},
		{"unknown attempt", nethttp.MethodDelete, "/v1/attempts/nope", nil, nethttp.StatusNotFound},
		{"invalid color", nethttp.MethodPost, "/v1/admin/topics", gin.H{"title": "Bio", "color": "green"}, nethttp.StatusBadRequest},
		{"missing title", nethttp.MethodPost, "/v1/admin/topics", gin.H{"color": "#fff"}, nethttp.StatusBadRequest},
		{"create topic", nethttp.MethodPost, "/v1/admin/topics", gin.H{"title": "Bio"}, nethttp.StatusCreated},
		{"delete missing", nethttp.MethodDelete, "/v1/admin/topics/4", nil, nethttp.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := do(t, r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestListTopicsNeverNull(t *testing.T) {
	r := newTestRouter(t)
	w, body := do(t, r, nethttp.MethodGet, "/v1/topics", nil)
	require.Equal(t, nethttp.StatusOK, w.Code)
	assert.Equal(t, []any{}, body["topics"])
}
