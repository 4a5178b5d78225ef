package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	elasticsearch "github.com/elastic/go-elasticsearch/v9"
	"github.com/google/uuid"

	"github.com/Skotchmaster/content_api/internal/config"
	"github.com/Skotchmaster/content_api/internal/models"
)

// Indexer keeps the post search index in sync and answers queries.
// The Elasticsearch client implements it; tests use a fake.
type Indexer interface {
	IndexPost(ctx context.Context, post *models.Post) error
	RemovePost(ctx context.Context, id uuid.UUID) error
	SearchPosts(ctx context.Context, query string, from, size int) ([]PostDoc, int64, error)
}

type PostDoc struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

type ESIndexer struct {
	client *elasticsearch.Client
	index  string
}

func NewESIndexer(cfg config.Config) (*ESIndexer, error) {
	esCfg := elasticsearch.Config{
		Addresses: []string{cfg.ESURL},
		Username:  cfg.ESUser,
		Password:  cfg.ESPassword,
	}

	client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch error: %s: %s", res.Status(), body)
	}

	return &ESIndexer{client: client, index: cfg.ESIndex}, nil
}

func (e *ESIndexer) IndexPost(ctx context.Context, post *models.Post) error {
	doc := PostDoc{
		ID:      post.ID.String(),
		Title:   post.Title,
		Slug:    post.Slug,
		Content: post.Content,
		Status:  post.Status,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := e.client.Index(
		e.index,
		bytes.NewReader(body),
		e.client.Index.WithDocumentID(doc.ID),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index post %s: %w", doc.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index post %s: %s", doc.ID, res.Status())
	}
	return nil
}

func (e *ESIndexer) RemovePost(ctx context.Context, id uuid.UUID) error {
	res, err := e.client.Delete(
		e.index,
		id.String(),
		e.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("remove post %s: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("remove post %s: %s", id, res.Status())
	}
	return nil
}

func (e *ESIndexer) SearchPosts(ctx context.Context, query string, from, size int) ([]PostDoc, int64, error) {
	var buf bytes.Buffer
	q := map[string]any{
		"from": from,
		"size": size,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  query,
						"fields": []string{"title^2", "content"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"status": models.StatusActive},
				},
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, 0, err
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search posts: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, fmt.Errorf("search posts: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source PostDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("search posts: decode: %w", err)
	}

	docs := make([]PostDoc, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		docs = append(docs, h.Source)
	}
	return docs, parsed.Hits.Total.Value, nil
}
