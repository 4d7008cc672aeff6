package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-microblog/internal/domain/entity"
	repo "github.com/oksasatya/go-microblog/internal/domain/repository"
)

// PostService exposes the per-user post operations. The userUUID on every
// method comes from the auth gate's validated identity; nothing here ever
// accepts a partition selector from the client.
type PostService struct {
	Repo         repo.PostRepository
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESPostsIndex string
}

func NewPostService(r repo.PostRepository, logger *logrus.Logger, es *elasticsearch.Client, esPostsIndex string) *PostService {
	return &PostService{Repo: r, Logger: logger, ES: es, ESPostsIndex: esPostsIndex}
}

func (s *PostService) CreatePost(ctx context.Context, userUUID, title, body string) (string, error) {
	postUUID, err := s.Repo.Create(userUUID, title, body)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user", userUUID).Error("create post failed")
		}
		return "", err
	}
	// Best effort: the SQLite partition is the source of truth.
	_ = s.indexPost(ctx, userUUID, postUUID, title, body)
	return postUUID, nil
}

func (s *PostService) GetPost(userUUID, postUUID string) (*entity.Post, error) {
	return s.Repo.GetByUUID(userUUID, postUUID)
}

func (s *PostService) ListPosts(userUUID string) ([]entity.Post, error) {
	return s.Repo.List(userUUID, 0)
}

func (s *PostService) indexPost(ctx context.Context, userUUID, postUUID, title, body string) error {
	if s.ES == nil || s.ESPostsIndex == "" {
		return nil
	}
	doc := map[string]any{
		"uuid":    postUUID,
		"user_id": userUUID,
		"title":   title,
		"post":    body,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESPostsIndex, DocumentID: postUUID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("post", postUUID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("post", postUUID).Warn("es index response error")
	}
	return nil
}

// SearchPosts runs a multi_match over title and body, always filtered to
// the caller's own documents. Returns empty results when Elasticsearch is
// not configured.
func (s *PostService) SearchPosts(ctx context.Context, userUUID, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESPostsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "post"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userUUID},
				},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESPostsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
