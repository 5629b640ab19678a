package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// ContentGenerator is the opaque AI collaborator producing title candidates
// and post bodies. Only the interface matters to the core.
type ContentGenerator interface {
	Titles(ctx context.Context, topic string, count int) ([]string, error)
	Content(ctx context.Context, title string) (*transfer.GeneratedContent, error)
}

// ImageSearcher resolves an image search query into candidate remote URLs.
type ImageSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]string, error)
}

type generatorService struct {
	cfg    config.Config
	client *http.Client
}

func NewGeneratorService(cfg config.Config) ContentGenerator {
	return &generatorService{
		cfg:    cfg,
		client: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (s *generatorService) Titles(ctx context.Context, topic string, count int) ([]string, error) {
	var result struct {
		Titles []string `json:"titles"`
	}

	err := s.post(ctx, "/titles", map[string]any{"topic": topic, "count": count}, &result)
	if err != nil {
		return nil, err
	}
	if len(result.Titles) == 0 {
		return nil, fmt.Errorf("generator returned no titles")
	}

	return result.Titles, nil
}

func (s *generatorService) Content(ctx context.Context, title string) (*transfer.GeneratedContent, error) {
	var result transfer.GeneratedContent

	err := s.post(ctx, "/content", map[string]any{"title": title}, &result)
	if err != nil {
		return nil, err
	}
	if result.Body == "" {
		return nil, fmt.Errorf("generator returned empty body for title %q", title)
	}

	return &result, nil
}

func (s *generatorService) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.GeneratorURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("generator request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("failed to decode generator response: %w", err)
	}

	return nil
}

type imageSearchService struct {
	cfg config.Config
}

func NewImageSearchService(cfg config.Config) ImageSearcher {
	return &imageSearchService{cfg: cfg}
}

// Search queries Google Custom Search for images matching the query and
// returns the result links.
func (s *imageSearchService) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 || limit > 10 {
		limit = 3
	}

	svc, err := customsearch.NewService(ctx, option.WithAPIKey(s.cfg.SearchAPIKey))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	result, err := svc.Cse.List().
		Cx(s.cfg.SearchEngineID).
		Q(query).
		SearchType("image").
		Num(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("image search: %w", err)
	}

	var urls []string
	for _, item := range result.Items {
		if item.Link != "" {
			urls = append(urls, item.Link)
		}
	}

	return urls, nil
}
