package keyword

import (
	"ForestEdu/internal/app_errors"
	"ForestEdu/internal/models"
	"ForestEdu/pkg/logger"
	"context"
	"fmt"
	"strings"
)

const searchSize = 50

type keywordRepo interface {
	ListKeywords(ctx context.Context) ([]models.Keyword, error)
	KeywordsByTopic(ctx context.Context, topicID int64) ([]models.Keyword, error)
	KeywordsByIDs(ctx context.Context, ids []int64) ([]models.Keyword, error)
	SearchKeywords(ctx context.Context, topicID int64, term string) ([]models.Keyword, error)
	KeywordByID(ctx context.Context, id int64) (*models.Keyword, error)
	CreateKeyword(ctx context.Context, k models.Keyword) (*models.Keyword, error)
	UpdateKeyword(ctx context.Context, k models.Keyword) (*models.Keyword, error)
	DeleteKeyword(ctx context.Context, id int64) error
}

type topicRepo interface {
	TopicByID(ctx context.Context, id int64) (*models.Topic, error)
}

type searchIndex interface {
	Index(ctx context.Context, k models.Keyword) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, topicID int64, query string, size int) ([]int64, error)
}

type KeywordService struct {
	log         logger.Log
	keywordRepo keywordRepo
	topicRepo   topicRepo
	search      searchIndex
}

func NewKeywordService(l logger.Log, k keywordRepo, t topicRepo) *KeywordService {
	return &KeywordService{log: l, keywordRepo: k, topicRepo: t}
}

// UseSearchIndex routes searches through idx and keeps it in sync on writes.
// Without it searches run against Postgres.
func (s *KeywordService) UseSearchIndex(idx searchIndex) {
	s.search = idx
}

func nonNil(keywords []models.Keyword) []models.Keyword {
	if keywords == nil {
		return []models.Keyword{}
	}
	return keywords
}

func (s *KeywordService) ListKeywords(ctx context.Context) ([]models.Keyword, error) {
	keywords, err := s.keywordRepo.ListKeywords(ctx)
	return nonNil(keywords), err
}

func (s *KeywordService) KeywordsByTopic(ctx context.Context, topicID int64) ([]models.Keyword, error) {
	if _, err := s.topicRepo.TopicByID(ctx, topicID); err != nil {
		return nil, err
	}
	keywords, err := s.keywordRepo.KeywordsByTopic(ctx, topicID)
	return nonNil(keywords), err
}

// Search matches query against terms and definitions. topicID 0 means every
// topic. An empty query returns the unfiltered list.
func (s *KeywordService) Search(ctx context.Context, topicID int64, query string) ([]models.Keyword, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		if topicID == 0 {
			return s.ListKeywords(ctx)
		}
		return s.KeywordsByTopic(ctx, topicID)
	}

	if s.search != nil {
		keywords, err := s.searchIndexed(ctx, topicID, query)
		if err == nil {
			return keywords, nil
		}
		s.log.ErrorErr("keyword index search failed, falling back to postgres", err, "query", query)
	}

	keywords, err := s.keywordRepo.SearchKeywords(ctx, topicID, query)
	return nonNil(keywords), err
}

func (s *KeywordService) searchIndexed(ctx context.Context, topicID int64, query string) ([]models.Keyword, error) {
	ids, err := s.search.Search(ctx, topicID, query, searchSize)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Keyword{}, nil
	}

	rows, err := s.keywordRepo.KeywordsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Keyword, len(rows))
	for _, k := range rows {
		byID[k.ID] = k
	}

	// keep relevance order; ids whose row is gone are stale index entries
	out := make([]models.Keyword, 0, len(ids))
	for _, id := range ids {
		if k, ok := byID[id]; ok {
			out = append(out, k)
		}
	}
	return out, nil
}

func (s *KeywordService) KeywordByID(ctx context.Context, id int64) (*models.Keyword, error) {
	return s.keywordRepo.KeywordByID(ctx, id)
}

func validate(k *models.Keyword) error {
	k.Term = strings.TrimSpace(k.Term)
	k.Definition = strings.TrimSpace(k.Definition)
	if k.Term == "" {
		return fmt.Errorf("%w: term is required", app_errors.ErrInvalidArgument)
	}
	if k.Definition == "" {
		return fmt.Errorf("%w: definition is required", app_errors.ErrInvalidArgument)
	}
	return nil
}

func (s *KeywordService) CreateKeyword(ctx context.Context, k models.Keyword) (*models.Keyword, error) {
	if err := validate(&k); err != nil {
		return nil, err
	}
	if _, err := s.topicRepo.TopicByID(ctx, k.TopicID); err != nil {
		return nil, err
	}

	created, err := s.keywordRepo.CreateKeyword(ctx, k)
	if err != nil {
		return nil, err
	}
	s.index(ctx, *created)
	return created, nil
}

func (s *KeywordService) UpdateKeyword(ctx context.Context, k models.Keyword) (*models.Keyword, error) {
	if err := validate(&k); err != nil {
		return nil, err
	}
	updated, err := s.keywordRepo.UpdateKeyword(ctx, k)
	if err != nil {
		return nil, err
	}
	s.index(ctx, *updated)
	return updated, nil
}

func (s *KeywordService) DeleteKeyword(ctx context.Context, id int64) error {
	if err := s.keywordRepo.DeleteKeyword(ctx, id); err != nil {
		return err
	}
	if s.search != nil {
		if err := s.search.Delete(ctx, id); err != nil {
			s.log.ErrorErr("failed to remove keyword from search index", err, "keyword_id", id)
		}
	}
	return nil
}

// Reindex pushes every stored keyword to the search index.
func (s *KeywordService) Reindex(ctx context.Context) (int, error) {
	if s.search == nil {
		return 0, nil
	}
	keywords, err := s.keywordRepo.ListKeywords(ctx)
	if err != nil {
		return 0, err
	}
	for _, k := range keywords {
		if err := s.search.Index(ctx, k); err != nil {
			return 0, fmt.Errorf("index keyword %d: %w", k.ID, err)
		}
	}
	return len(keywords), nil
}

func (s *KeywordService) index(ctx context.Context, k models.Keyword) {
	if s.search == nil {
		return
	}
	if err := s.search.Index(ctx, k); err != nil {
		s.log.ErrorErr("failed to index keyword", err, "keyword_id", k.ID)
	}
}
