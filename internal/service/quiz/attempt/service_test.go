package attempt

import (
	"ForestEdu/internal/app_errors"
	"ForestEdu/internal/models"
	"ForestEdu/internal/quiz"
	"ForestEdu/pkg/logger"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo answers like the postgres repository: an unknown quiz or lesson is
// not found, a known one without questions yields an empty slice.
type fakeRepo struct {
	byQuiz      map[int64][]quiz.Question
	byLesson    map[int64][]quiz.Question
	err         error
	quizCalls   int
	lessonCalls int
}

func (r *fakeRepo) QuestionsByQuiz(ctx context.Context, quizID int64) ([]quiz.Question, error) {
	r.quizCalls++
	if r.err != nil {
		return nil, r.err
	}
	qs, ok := r.byQuiz[quizID]
	if !ok {
		return nil, app_errors.ErrQuizNotFound
	}
	return qs, nil
}

func (r *fakeRepo) QuestionsByLesson(ctx context.Context, lessonID int64) ([]quiz.Question, error) {
	r.lessonCalls++
	if r.err != nil {
		return nil, r.err
	}
	qs, ok := r.byLesson[lessonID]
	if !ok {
		return nil, app_errors.ErrLessonNotFound
	}
	return qs, nil
}

// memAttempts holds its lock for the whole of UpdateAttempt, the way the row
// lock does in postgres.
type memAttempts struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]models.QuizAttempt
	deleteErr error
}

func newMemAttempts() *memAttempts {
	return &memAttempts{rows: map[uuid.UUID]models.QuizAttempt{}}
}

func (m *memAttempts) CreateAttempt(ctx context.Context, a models.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[a.ID] = a
	return nil
}

func (m *memAttempts) AttemptByID(ctx context.Context, id uuid.UUID) (*models.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, app_errors.ErrAttemptNotFound
	}
	return &a, nil
}

func (m *memAttempts) UpdateAttempt(ctx context.Context, id uuid.UUID, fn func(*models.QuizAttempt) error) (*models.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, app_errors.ErrAttemptNotFound
	}
	if err := fn(&a); err != nil {
		return nil, err
	}
	m.rows[id] = a
	return &a, nil
}

func (m *memAttempts) DeleteAttempt(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.rows[id]; !ok {
		return app_errors.ErrAttemptNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memAttempts) DeleteExpiredAttempts(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var removed int64
	for id, a := range m.rows {
		if a.ExpiresAt != nil && !now.Before(*a.ExpiresAt) {
			delete(m.rows, id)
			removed++
		}
	}
	return removed, nil
}

func (m *memAttempts) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func mustQuestion(t *testing.T, id int64, correct int) quiz.Question {
	t.Helper()
	q, err := quiz.NewQuestion(id, fmt.Sprintf("question %d", id), []string{"a", "b", "c", "d"}, correct)
	require.NoError(t, err)
	return q
}

func idFor(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

type testEnv struct {
	svc      *AttemptService
	repo     *fakeRepo
	attempts *memAttempts
	clock    *clock
}

func newTestService(t *testing.T, repo *fakeRepo, ttl time.Duration) *testEnv {
	t.Helper()
	env := &testEnv{
		repo:     repo,
		attempts: newMemAttempts(),
		clock:    &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
	}
	env.svc = NewAttemptService(logger.Discard(), repo, env.attempts, ttl)
	env.svc.now = env.clock.Now

	seq := 0
	env.svc.newID = func() uuid.UUID {
		seq++
		return idFor(seq)
	}
	return env
}

func fourQuestionRepo(t *testing.T) *fakeRepo {
	return &fakeRepo{
		byQuiz: map[int64][]quiz.Question{
			1: {
				mustQuestion(t, 10, 0),
				mustQuestion(t, 11, 1),
				mustQuestion(t, 12, 2),
				mustQuestion(t, 13, 3),
			},
			2: {},
		},
		byLesson: map[int64][]quiz.Question{
			5: {mustQuestion(t, 20, 0), mustQuestion(t, 21, 0)},
			6: nil,
		},
	}
}

func TestStartFetchesOnceAndHidesAnswers(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Hour)

	v, err := env.svc.Start(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, env.repo.quizCalls)
	assert.Equal(t, idFor(1).String(), v.AttemptID)
	assert.Equal(t, models.AttemptSource{Kind: SourceQuiz, ID: 1}, v.Source)
	assert.Equal(t, quiz.StatusInProgress, v.Status)
	assert.Equal(t, 4, v.TotalQuestions)
	assert.Equal(t, 8, v.EstimatedMinutes)
	assert.Nil(t, v.Result)
	for _, q := range v.Questions {
		assert.Nil(t, q.CorrectOptionIndex)
		assert.Nil(t, q.Selected)
	}
	assert.Equal(t, 1, env.attempts.Len())
}

func TestStartLessonUsesLessonQuestions(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Hour)

	v, err := env.svc.StartLesson(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 1, env.repo.lessonCalls)
	assert.Equal(t, 0, env.repo.quizCalls)
	assert.Equal(t, 2, v.TotalQuestions)
	assert.Equal(t, SourceLesson, v.Source.Kind)
}

func TestStartWithoutQuestionsIsInvalidArgument(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Hour)
	ctx := context.Background()

	_, err := env.svc.Start(ctx, 2)
	require.ErrorIs(t, err, app_errors.ErrInvalidArgument)
	_, err = env.svc.StartLesson(ctx, 6)
	require.ErrorIs(t, err, app_errors.ErrInvalidArgument)
	assert.Equal(t, 0, env.attempts.Len())
}

func TestStartUnknownSourceIsNotFound(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Hour)
	ctx := context.Background()

	_, err := env.svc.Start(ctx, 404)
	require.ErrorIs(t, err, app_errors.ErrQuizNotFound)
	_, err = env.svc.StartLesson(ctx, 404)
	require.ErrorIs(t, err, app_errors.ErrLessonNotFound)
	assert.Equal(t, 0, env.attempts.Len())
}

func TestStartPropagatesRepoError(t *testing.T) {
	repoErr := errors.New("connection refused")
	env := newTestService(t, &fakeRepo{err: repoErr}, time.Hour)

	_, err := env.svc.Start(context.Background(), 1)
	require.ErrorIs(t, err, repoErr)
}

func TestAnswerAndSubmitHalfCorrect(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Hour)
	svc := env.svc
	ctx := context.Background()

	v, err := svc.Start(ctx, 1)
	require.NoError(t, err)
	id := v.AttemptID

	_, err = svc.Answer(ctx, id, 10, 0)
	require.NoError(t, err)
	_, err = svc.Answer(ctx, id, 11, 1)
	require.NoError(t, err)
	v, err = svc.Answer(ctx, id, 12, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, v.AnsweredCount)
	assert.False(t, v.Complete)
	require.NotNil(t, v.Questions[2].Selected)
	assert.Equal(t, 0, *v.Questions[2].Selected)

	v, err = svc.Submit(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, v.Result)
	assert.Equal(t, quiz.StatusSubmitted, v.Status)
	assert.Equal(t, 50, v.Result.Score)
	assert.Equal(t, 2, v.Result.CorrectCount)
	assert.Equal(t, 4, v.Result.TotalQuestions)
	assert.Equal(t, GradeNeedsWork, v.Result.Grade)
	require.Len(t, v.Result.Breakdown, 4)
	assert.Nil(t, v.Result.Breakdown[3].SelectedOptionIndex)
	assert.False(t, v.Result.Breakdown[3].IsCorrect)

	for _, q := range v.Questions {
		require.NotNil(t, q.CorrectOptionIndex)
	}

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Result.Score)
}

func TestAnswerErrorsLeaveAttemptUnchanged(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Hour)
	svc := env.svc
	ctx := context.Background()

	v, err := svc.Start(ctx, 1)
	require.NoError(t, err)
	id := v.AttemptID
	_, err = svc.Answer(ctx, id, 10, 2)
	require.NoError(t, err)

	_, err = svc.Answer(ctx, id, 99, 0)
	require.ErrorIs(t, err, app_errors.ErrInvalidArgument)
	_, err = svc.Answer(ctx, id, 10, 4)
	require.ErrorIs(t, err, app_errors.ErrInvalidArgument)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AnsweredCount)
	assert.Equal(t, 2, *got.Questions[0].Selected)
}

func TestSubmittedAttemptIsFrozen(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Hour)
	svc := env.svc
	ctx := context.Background()

	v, err := svc.Start(ctx, 1)
	require.NoError(t, err)
	id := v.AttemptID
	for qid, opt := range map[int64]int{10: 0, 11: 1, 12: 2, 13: 3} {
		_, err = svc.Answer(ctx, id, qid, opt)
		require.NoError(t, err)
	}
	v, err = svc.Submit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 100, v.Result.Score)
	assert.Equal(t, GradeExcellent, v.Result.Grade)

	_, err = svc.Submit(ctx, id)
	require.ErrorIs(t, err, app_errors.ErrInvalidState)
	_, err = svc.Answer(ctx, id, 10, 1)
	require.ErrorIs(t, err, app_errors.ErrInvalidState)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Result.Score)
	assert.Equal(t, 0, *got.Questions[0].Selected)
}

func TestSubmittedResultOutlivesTTLAndSweep(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Hour)
	svc := env.svc
	ctx := context.Background()

	v, err := svc.Start(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Answer(ctx, v.AttemptID, 10, 0)
	require.NoError(t, err)
	v, err = svc.Submit(ctx, v.AttemptID)
	require.NoError(t, err)
	assert.Nil(t, v.ExpiresAt)

	env.clock.Advance(30 * 24 * time.Hour)
	removed, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)

	got, err := svc.Get(ctx, v.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, 25, got.Result.Score)
}

func TestRestartIssuesNewAttempt(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Hour)
	svc := env.svc
	ctx := context.Background()

	v, err := svc.Start(ctx, 1)
	require.NoError(t, err)
	_, err = svc.Answer(ctx, v.AttemptID, 10, 0)
	require.NoError(t, err)

	restarted, err := svc.Restart(ctx, v.AttemptID)
	require.NoError(t, err)
	assert.NotEqual(t, v.AttemptID, restarted.AttemptID)
	assert.Equal(t, 0, restarted.AnsweredCount)
	assert.Equal(t, quiz.StatusInProgress, restarted.Status)
	assert.Equal(t, 2, env.repo.quizCalls)

	_, err = svc.Get(ctx, v.AttemptID)
	require.ErrorIs(t, err, app_errors.ErrAttemptNotFound)
	assert.Equal(t, 1, env.attempts.Len())
}

func TestRestartKeepsOldAttemptWhenFetchFails(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Hour)
	ctx := context.Background()

	v, err := env.svc.Start(ctx, 1)
	require.NoError(t, err)

	env.repo.err = errors.New("db down")
	_, err = env.svc.Restart(ctx, v.AttemptID)
	require.Error(t, err)

	_, err = env.svc.Get(ctx, v.AttemptID)
	require.NoError(t, err)
}

func TestRestartLogsFailedRemoval(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Hour)
	var buf bytes.Buffer
	env.svc.log = logger.NewWithWriter("local", &buf)
	ctx := context.Background()

	v, err := env.svc.Start(ctx, 1)
	require.NoError(t, err)

	env.attempts.deleteErr = errors.New("lock timeout")
	restarted, err := env.svc.Restart(ctx, v.AttemptID)
	require.NoError(t, err)
	assert.NotEqual(t, v.AttemptID, restarted.AttemptID)

	out := buf.String()
	assert.Contains(t, out, "previous attempt not removed on restart")
	assert.Contains(t, out, "lock timeout")
	assert.Contains(t, out, "level=DEBUG")
}

func TestAbandon(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Hour)
	svc := env.svc
	ctx := context.Background()

	v, err := svc.Start(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Abandon(ctx, v.AttemptID))
	require.ErrorIs(t, svc.Abandon(ctx, v.AttemptID), app_errors.ErrAttemptNotFound)
	_, err = svc.Submit(ctx, v.AttemptID)
	require.ErrorIs(t, err, app_errors.ErrAttemptNotFound)
}

func TestUnknownAttempt(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Hour)
	svc := env.svc
	ctx := context.Background()

	for _, id := range []string{"nope", idFor(99).String()} {
		_, err := svc.Get(ctx, id)
		require.ErrorIs(t, err, app_errors.ErrAttemptNotFound, id)
		_, err = svc.Answer(ctx, id, 10, 0)
		require.ErrorIs(t, err, app_errors.ErrAttemptNotFound, id)
		_, err = svc.Restart(ctx, id)
		require.ErrorIs(t, err, app_errors.ErrAttemptNotFound, id)
		require.ErrorIs(t, svc.Abandon(ctx, id), app_errors.ErrAttemptNotFound, id)
	}
}

func TestAttemptExpiresAfterIdleTTL(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Hour)
	svc, c := env.svc, env.clock
	ctx := context.Background()

	v, err := svc.Start(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, v.ExpiresAt)
	assert.Equal(t, c.Now().Add(time.Hour), *v.ExpiresAt)

	c.Advance(50 * time.Minute)
	_, err = svc.Answer(ctx, v.AttemptID, 10, 0)
	require.NoError(t, err)

	c.Advance(50 * time.Minute)
	_, err = svc.Get(ctx, v.AttemptID)
	require.NoError(t, err, "answering refreshes the deadline")

	c.Advance(11 * time.Minute)
	_, err = svc.Get(ctx, v.AttemptID)
	require.ErrorIs(t, err, app_errors.ErrAttemptNotFound)
	_, err = svc.Answer(ctx, v.AttemptID, 11, 1)
	require.ErrorIs(t, err, app_errors.ErrAttemptNotFound)

	removed, err := svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 0, env.attempts.Len())
}

func TestFailedAnswerDoesNotRefreshDeadline(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Minute)
	svc, c := env.svc, env.clock
	ctx := context.Background()

	v, err := svc.Start(ctx, 1)
	require.NoError(t, err)

	c.Advance(30 * time.Second)
	_, err = svc.Answer(ctx, v.AttemptID, 99, 0)
	require.Error(t, err)

	c.Advance(30 * time.Second)
	_, err = svc.Get(ctx, v.AttemptID)
	require.ErrorIs(t, err, app_errors.ErrAttemptNotFound)
}

func TestAttemptWithoutTTLNeverExpires(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), 0)
	ctx := context.Background()

	v, err := env.svc.Start(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, v.ExpiresAt)
	body, err := json.Marshal(v)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "expires_at")

	env.clock.Advance(24 * 365 * time.Hour)
	_, err = env.svc.Get(ctx, v.AttemptID)
	require.NoError(t, err)
	removed, err := env.svc.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRunSweeper(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stale, err := env.svc.Start(ctx, 1)
	require.NoError(t, err)
	env.clock.Advance(2 * time.Minute)
	fresh, err := env.svc.Start(ctx, 1)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		env.svc.RunSweeper(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return env.attempts.Len() == 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-done

	_, err = env.svc.Get(context.Background(), fresh.AttemptID)
	require.NoError(t, err)
	_, err = env.svc.Get(context.Background(), stale.AttemptID)
	require.ErrorIs(t, err, app_errors.ErrAttemptNotFound)
}

func TestConcurrentAnswersAreAllRecorded(t *testing.T) {
	env := newTestService(t, fourQuestionRepo(t), time.Hour)
	ctx := context.Background()

	v, err := env.svc.Start(ctx, 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, qid := range []int64{10, 11, 12, 13} {
		wg.Add(1)
		go func(qid int64) {
			defer wg.Done()
			_, err := env.svc.Answer(ctx, v.AttemptID, qid, 1)
			assert.NoError(t, err)
		}(qid)
	}
	wg.Wait()

	got, err := env.svc.Get(ctx, v.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.AnsweredCount)
	assert.True(t, got.Complete)
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, GradeExcellent},
		{80, GradeExcellent},
		{79, GradeGood},
		{60, GradeGood},
		{59, GradeNeedsWork},
		{0, GradeNeedsWork},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Grade(tt.score), "score %d", tt.score)
	}
}
