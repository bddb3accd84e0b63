package keyword

import (
	"ForestEdu/internal/app_errors"
	"ForestEdu/internal/models"
	"ForestEdu/pkg/logger"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKeywordRepo struct {
	rows        map[int64]models.Keyword
	searchCalls int
}

func (r *fakeKeywordRepo) ListKeywords(ctx context.Context) ([]models.Keyword, error) {
	var out []models.Keyword
	for id := int64(1); id <= int64(len(r.rows)+10); id++ {
		if k, ok := r.rows[id]; ok {
			out = append(out, k)
		}
	}
	return out, nil
}

func (r *fakeKeywordRepo) KeywordsByTopic(ctx context.Context, topicID int64) ([]models.Keyword, error) {
	all, _ := r.ListKeywords(ctx)
	var out []models.Keyword
	for _, k := range all {
		if k.TopicID == topicID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (r *fakeKeywordRepo) KeywordsByIDs(ctx context.Context, ids []int64) ([]models.Keyword, error) {
	var out []models.Keyword
	for _, id := range ids {
		if k, ok := r.rows[id]; ok {
			out = append(out, k)
		}
	}
	return out, nil
}

func (r *fakeKeywordRepo) SearchKeywords(ctx context.Context, topicID int64, term string) ([]models.Keyword, error) {
	r.searchCalls++
	return []models.Keyword{r.rows[1]}, nil
}

func (r *fakeKeywordRepo) KeywordByID(ctx context.Context, id int64) (*models.Keyword, error) {
	k, ok := r.rows[id]
	if !ok {
		return nil, app_errors.ErrKeywordNotFound
	}
	return &k, nil
}

func (r *fakeKeywordRepo) CreateKeyword(ctx context.Context, k models.Keyword) (*models.Keyword, error) {
	for _, existing := range r.rows {
		if existing.TopicID == k.TopicID && existing.Term == k.Term {
			return nil, app_errors.ErrDuplicateKeyword
		}
	}
	k.ID = int64(len(r.rows) + 1)
	r.rows[k.ID] = k
	return &k, nil
}

func (r *fakeKeywordRepo) UpdateKeyword(ctx context.Context, k models.Keyword) (*models.Keyword, error) {
	if _, ok := r.rows[k.ID]; !ok {
		return nil, app_errors.ErrKeywordNotFound
	}
	r.rows[k.ID] = k
	return &k, nil
}

func (r *fakeKeywordRepo) DeleteKeyword(ctx context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return app_errors.ErrKeywordNotFound
	}
	delete(r.rows, id)
	return nil
}

type topics struct{}

func (topics) TopicByID(ctx context.Context, id int64) (*models.Topic, error) {
	if id != 1 && id != 2 {
		return nil, app_errors.ErrTopicNotFound
	}
	return &models.Topic{ID: id}, nil
}

type fakeIndex struct {
	hits    []int64
	err     error
	indexed []int64
	deleted []int64
}

func (f *fakeIndex) Index(ctx context.Context, k models.Keyword) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, k.ID)
	return nil
}

func (f *fakeIndex) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, topicID int64, query string, size int) ([]int64, error) {
	return f.hits, f.err
}

func seeded() *fakeKeywordRepo {
	return &fakeKeywordRepo{rows: map[int64]models.Keyword{
		1: {ID: 1, TopicID: 1, Term: "Photosynthesis", Definition: "Light to sugar"},
		2: {ID: 2, TopicID: 1, Term: "Osmosis", Definition: "Water through a membrane"},
		3: {ID: 3, TopicID: 2, Term: "Velocity", Definition: "Speed with direction"},
	}}
}

func TestSearchWithoutIndexUsesPostgres(t *testing.T) {
	repo := seeded()
	svc := NewKeywordService(logger.Discard(), repo, topics{})

	got, err := svc.Search(context.Background(), 0, "photo")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.searchCalls)
	require.Len(t, got, 1)
	assert.Equal(t, "Photosynthesis", got[0].Term)
}

func TestSearchEmptyQueryLists(t *testing.T) {
	repo := seeded()
	svc := NewKeywordService(logger.Discard(), repo, topics{})

	all, err := svc.Search(context.Background(), 0, "   ")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byTopic, err := svc.Search(context.Background(), 2, "")
	require.NoError(t, err)
	require.Len(t, byTopic, 1)
	assert.Equal(t, int64(3), byTopic[0].ID)
	assert.Equal(t, 0, repo.searchCalls)
}

func TestSearchIndexedKeepsRelevanceOrderAndDropsStale(t *testing.T) {
	repo := seeded()
	idx := &fakeIndex{hits: []int64{2, 99, 1}}
	svc := NewKeywordService(logger.Discard(), repo, topics{})
	svc.UseSearchIndex(idx)

	got, err := svc.Search(context.Background(), 1, "osm")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(1), got[1].ID)
	assert.Equal(t, 0, repo.searchCalls)
}

func TestSearchFallsBackWhenIndexFails(t *testing.T) {
	repo := seeded()
	svc := NewKeywordService(logger.Discard(), repo, topics{})
	svc.UseSearchIndex(&fakeIndex{err: errors.New("cluster unavailable")})

	got, err := svc.Search(context.Background(), 0, "photo")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.searchCalls)
	assert.Len(t, got, 1)
}

func TestWritesKeepIndexInSync(t *testing.T) {
	repo := seeded()
	idx := &fakeIndex{}
	svc := NewKeywordService(logger.Discard(), repo, topics{})
	svc.UseSearchIndex(idx)
	ctx := context.Background()

	k, err := svc.CreateKeyword(ctx, models.Keyword{TopicID: 2, Term: " Mass ", Definition: "Amount of matter"})
	require.NoError(t, err)
	assert.Equal(t, "Mass", k.Term)

	_, err = svc.UpdateKeyword(ctx, models.Keyword{ID: k.ID, TopicID: 2, Term: "Mass", Definition: "Quantity of matter"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteKeyword(ctx, k.ID))

	assert.Equal(t, []int64{k.ID, k.ID}, idx.indexed)
	assert.Equal(t, []int64{k.ID}, idx.deleted)
}

func TestIndexFailureDoesNotFailWrite(t *testing.T) {
	repo := seeded()
	svc := NewKeywordService(logger.Discard(), repo, topics{})
	svc.UseSearchIndex(&fakeIndex{err: errors.New("down")})

	_, err := svc.CreateKeyword(context.Background(), models.Keyword{TopicID: 1, Term: "Cell", Definition: "Unit of life"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteKeyword(context.Background(), 1))
}

func TestCreateKeywordErrors(t *testing.T) {
	svc := NewKeywordService(logger.Discard(), seeded(), topics{})
	ctx := context.Background()

	_, err := svc.CreateKeyword(ctx, models.Keyword{TopicID: 1, Term: "", Definition: "d"})
	require.ErrorIs(t, err, app_errors.ErrInvalidArgument)

	_, err = svc.CreateKeyword(ctx, models.Keyword{TopicID: 1, Term: "t", Definition: " "})
	require.ErrorIs(t, err, app_errors.ErrInvalidArgument)

	_, err = svc.CreateKeyword(ctx, models.Keyword{TopicID: 9, Term: "t", Definition: "d"})
	require.ErrorIs(t, err, app_errors.ErrTopicNotFound)

	_, err = svc.CreateKeyword(ctx, models.Keyword{TopicID: 1, Term: "Osmosis", Definition: "again"})
	require.ErrorIs(t, err, app_errors.ErrDuplicateKeyword)
}

func TestReindex(t *testing.T) {
	idx := &fakeIndex{}
	svc := NewKeywordService(logger.Discard(), seeded(), topics{})

	n, err := svc.Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	svc.UseSearchIndex(idx)
	n, err = svc.Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.ElementsMatch(t, []int64{1, 2, 3}, idx.indexed)
}
