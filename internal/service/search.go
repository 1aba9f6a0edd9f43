package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/foundly/foundly/internal/cache"
	"github.com/foundly/foundly/internal/metrics"
	"github.com/foundly/foundly/internal/model"
	"github.com/foundly/foundly/internal/nlp"
	"github.com/foundly/foundly/internal/repository"
)

// SearchService resolves keyword and free-text searches.
type SearchService struct {
	items     ItemStore
	extractor nlp.Extractor
	cache     KeywordCache
	cacheTTL  time.Duration
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// SearchConfig wires optional SearchService collaborators.
type SearchConfig struct {
	// Cache may be nil to disable extraction caching.
	Cache    KeywordCache
	CacheTTL time.Duration
	Metrics  metrics.Recorder
	Logger   *slog.Logger
}

// NewSearchService creates a new SearchService.
func NewSearchService(items ItemStore, extractor nlp.Extractor, cfg SearchConfig) *SearchService {
	if extractor == nil {
		extractor = nlp.Disabled{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &SearchService{
		items:     items,
		extractor: extractor,
		cache:     cfg.Cache,
		cacheTTL:  cfg.CacheTTL,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.With("component", "search"),
	}
}

// SearchInput is a validated search request.
type SearchInput struct {
	// Keywords selects the keyword path whenever non-nil, even if empty.
	Keywords []string
	Message  string
	From     *time.Time
	To       *time.Time
	Page     int
	Limit    int
}

// SearchResult is one page of matching items.
type SearchResult struct {
	Items      []*model.Item `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

// Search runs the keyword path directly, or derives keywords from the
// message first.
func (s *SearchService) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
	input.Page, input.Limit = normalizePage(input.Page, input.Limit)

	if input.Keywords != nil {
		s.metrics.IncSearch(metrics.SearchModeKeywords)
		return s.searchByKeywords(ctx, trimKeywords(input.Keywords), input)
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, ErrSearchInput
	}

	s.metrics.IncSearch(metrics.SearchModeMessage)
	keywords, err := s.extractKeywords(ctx, message)
	if err != nil {
		s.logger.Error("failed to process message search", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrSearchProcessing, err)
	}

	return s.searchByKeywords(ctx, keywords, input)
}

func (s *SearchService) searchByKeywords(ctx context.Context, keywords []string, input SearchInput) (*SearchResult, error) {
	if len(keywords) == 0 {
		return &SearchResult{Items: []*model.Item{}, Page: input.Page, Limit: input.Limit}, nil
	}

	filter := repository.ItemFilter{
		Keywords:  keywords,
		FoundFrom: input.From,
		FoundTo:   input.To,
	}
	offset := model.NewPage(0, input.Page, input.Limit).Offset()

	items, total, err := s.items.ListItems(ctx, filter, offset, input.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}

	page := model.NewPage(total, input.Page, input.Limit)
	return &SearchResult{
		Items:      items,
		Total:      total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}, nil
}

func (s *SearchService) extractKeywords(ctx context.Context, message string) ([]string, error) {
	if s.cache != nil {
		keywords, err := s.cache.GetKeywords(ctx, message)
		if err == nil {
			s.metrics.IncKeywordCacheHit()
			return keywords, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("keyword cache lookup failed", "error", err)
		}
		s.metrics.IncKeywordCacheMiss()
	}

	start := time.Now()
	keywords, err := s.extractor.ExtractKeywords(ctx, message)
	s.metrics.ObserveKeywordExtraction(time.Since(start))
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetKeywords(ctx, message, keywords, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache keywords", "error", err)
		}
	}

	s.logger.Debug("keywords extracted", "count", len(keywords))
	return keywords, nil
}
