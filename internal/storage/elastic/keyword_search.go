package elastic

import (
	"ForestEdu/internal/models"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type KeywordSearchRepo struct {
	client *elasticsearch.Client
	index  string
}

func NewKeywordSearchRepository(client *elasticsearch.Client, index string) *KeywordSearchRepo {
	return &KeywordSearchRepo{client: client, index: index}
}

func (r *KeywordSearchRepo) CreateIndexIfNotExist(ctx context.Context) error {
	existsReq := esapi.IndicesExistsRequest{Index: []string{r.index}}
	existsRes, err := existsReq.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("error checking index existence: %w", err)
	}
	defer existsRes.Body.Close()

	if existsRes.StatusCode == 404 {
		body, err := json.Marshal(indexMapping())
		if err != nil {
			return fmt.Errorf("marshal mapping: %w", err)
		}
		req := esapi.IndicesCreateRequest{Index: r.index, Body: bytes.NewReader(body)}
		res, err := req.Do(ctx, r.client)
		if err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("mapping creation failed: %s", res.String())
		}
		return nil
	}

	if existsRes.StatusCode >= 300 {
		return fmt.Errorf("index existence check failed with status code %d", existsRes.StatusCode)
	}
	return nil
}

func indexMapping() map[string]any {
	text := map[string]any{
		"type":            "text",
		"analyzer":        "edge_ngram_analyzer",
		"search_analyzer": "standard",
	}
	return map[string]any{
		"settings": map[string]any{
			"analysis": map[string]any{
				"analyzer": map[string]any{
					"edge_ngram_analyzer": map[string]any{
						"tokenizer": "edge_ngram_tokenizer",
						"filter":    []string{"lowercase"},
					},
				},
				"tokenizer": map[string]any{
					"edge_ngram_tokenizer": map[string]any{
						"type":        "edge_ngram",
						"min_gram":    2,
						"max_gram":    20,
						"token_chars": []string{"letter", "digit"},
					},
				},
			},
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"term":       text,
				"definition": text,
				"topic_id":   map[string]any{"type": "long"},
			},
		},
	}
}

type keywordDoc struct {
	TopicID    int64  `json:"topic_id"`
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Index creates or replaces the document of a keyword.
func (r *KeywordSearchRepo) Index(ctx context.Context, k models.Keyword) error {
	data, err := json.Marshal(keywordDoc{TopicID: k.TopicID, Term: k.Term, Definition: k.Definition})
	if err != nil {
		return fmt.Errorf("marshal doc: %w", err)
	}
	req := esapi.IndexRequest{
		Index:      r.index,
		DocumentID: strconv.FormatInt(k.ID, 10),
		Refresh:    "true",
		Body:       bytes.NewReader(data),
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("index request: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index error: %s", res.String())
	}
	return nil
}

func (r *KeywordSearchRepo) Delete(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{
		Index:      r.index,
		DocumentID: strconv.FormatInt(id, 10),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete error: %s", res.String())
	}
	return nil
}

func searchBody(topicID int64, query string, size int) map[string]any {
	must := []any{
		map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"term^3", "definition"},
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		},
	}
	boolQuery := map[string]any{"must": must}
	if topicID != 0 {
		boolQuery["filter"] = []any{
			map[string]any{"term": map[string]any{"topic_id": topicID}},
		}
	}
	return map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"size":  size,
	}
}

// Search returns matching keyword ids ordered by relevance. topicID 0 searches
// every topic.
func (r *KeywordSearchRepo) Search(ctx context.Context, topicID int64, query string, size int) ([]int64, error) {
	if size <= 0 {
		size = 20
	}
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(searchBody(topicID, query, size)); err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}
	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(buf),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		bodyBytes, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search error: %s", string(bodyBytes))
	}

	var esRes struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esRes); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	ids := make([]int64, 0, len(esRes.Hits.Hits))
	for _, h := range esRes.Hits.Hits {
		if id, err := strconv.ParseInt(h.ID, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
