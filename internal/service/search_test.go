package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foundly/foundly/internal/cache"
	"github.com/foundly/foundly/internal/model"
	"github.com/foundly/foundly/internal/nlp"
)

// mapCache is an in-memory KeywordCache.
type mapCache struct {
	entries map[string][]string
	failSet bool
}

func (c *mapCache) GetKeywords(_ context.Context, message string) ([]string, error) {
	kw, ok := c.entries[cache.KeywordsKey(message)]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return kw, nil
}

func (c *mapCache) SetKeywords(_ context.Context, message string, keywords []string, _ time.Duration) error {
	if c.failSet {
		return errors.New("redis down")
	}
	c.entries[cache.KeywordsKey(message)] = keywords
	return nil
}

type searchFixture struct {
	env   *testEnv
	ring  *model.Item
	phone *model.Item
	found time.Time
}

func newSearchFixture(t *testing.T) *searchFixture {
	t.Helper()
	env := newTestEnv(t)
	agent := env.register(t, "agent@example.com", "password1", model.RoleAgent)
	found := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

	ring, err := env.items.Create(context.Background(), agent.ID, CreateItemInput{
		Description: "Silver ring", Keywords: []string{"RING", "silver"}, FoundTime: found, FoundLocation: "Lounge",
	})
	require.NoError(t, err)
	phone, err := env.items.Create(context.Background(), agent.ID, CreateItemInput{
		Description: "Phone", Keywords: []string{"phone"}, FoundTime: found.Add(time.Hour), FoundLocation: "Gate 4",
	})
	require.NoError(t, err)

	return &searchFixture{env: env, ring: ring, phone: phone, found: found}
}

func (f *searchFixture) service(extractor nlp.Extractor, c KeywordCache) *SearchService {
	return NewSearchService(f.env.store, extractor, SearchConfig{
		Cache:   c,
		Metrics: f.env.metrics,
		Logger:  discardLogger(),
	})
}

func TestSearchService_RequiresKeywordsOrMessage(t *testing.T) {
	t.Parallel()
	f := newSearchFixture(t)
	svc := f.service(nil, nil)

	_, err := svc.Search(context.Background(), SearchInput{Message: "   "})
	assert.ErrorIs(t, err, ErrSearchInput)
}

func TestSearchService_Keywords(t *testing.T) {
	t.Parallel()
	f := newSearchFixture(t)
	svc := f.service(nil, nil)
	ctx := context.Background()

	res, err := svc.Search(ctx, SearchInput{Keywords: []string{"ring"}})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, f.ring.ID, res.Items[0].ID)
	assert.Equal(t, int64(1), res.Total)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, model.DefaultLimit, res.Limit)

	from := f.found.Add(time.Minute)
	res, err = svc.Search(ctx, SearchInput{Keywords: []string{"ring"}, From: &from})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.TotalPages)

	// Bounds are inclusive.
	res, err = svc.Search(ctx, SearchInput{Keywords: []string{"ring"}, From: &f.found, To: &f.found})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)

	res, err = svc.Search(ctx, SearchInput{Keywords: []string{"silver", "PHONE"}})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, f.phone.ID, res.Items[0].ID, "newest found first")
}

func TestSearchService_EmptyKeywordsShortCircuit(t *testing.T) {
	t.Parallel()
	f := newSearchFixture(t)

	var called atomic.Bool
	svc := f.service(nlp.ExtractorFunc(func(context.Context, string) ([]string, error) {
		called.Store(true)
		return nil, nil
	}), nil)

	// An explicit empty list wins over a message.
	res, err := svc.Search(context.Background(), SearchInput{Keywords: []string{}, Message: "ring"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)
	assert.Equal(t, int64(0), res.Total)
	assert.Equal(t, 0, res.TotalPages)
	assert.False(t, called.Load())
}

func TestSearchService_Message(t *testing.T) {
	t.Parallel()
	f := newSearchFixture(t)

	var seen string
	svc := f.service(nlp.ExtractorFunc(func(_ context.Context, msg string) ([]string, error) {
		seen = msg
		return []string{"ring"}, nil
	}), nil)

	res, err := svc.Search(context.Background(), SearchInput{Message: "  I lost my ring at the lounge "})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, f.ring.ID, res.Items[0].ID)
	assert.Equal(t, "I lost my ring at the lounge", seen)
	assert.Equal(t, uint64(1), f.env.metrics.Snapshot().SearchesByMessage)
}

func TestSearchService_MessageNoKeywords(t *testing.T) {
	t.Parallel()
	f := newSearchFixture(t)
	svc := f.service(nlp.ExtractorFunc(func(context.Context, string) ([]string, error) {
		return []string{}, nil
	}), nil)

	res, err := svc.Search(context.Background(), SearchInput{Message: "hello"})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 0, res.TotalPages)
}

func TestSearchService_ExtractionFailure(t *testing.T) {
	t.Parallel()
	f := newSearchFixture(t)

	var calls atomic.Int32
	svc := f.service(nlp.ExtractorFunc(func(context.Context, string) ([]string, error) {
		calls.Add(1)
		return nil, errors.New("upstream unavailable")
	}), nil)

	_, err := svc.Search(context.Background(), SearchInput{Message: "lost ring"})
	assert.ErrorIs(t, err, ErrSearchProcessing)
	assert.Equal(t, int32(1), calls.Load(), "extraction is not retried")

	_, err = f.service(nil, nil).Search(context.Background(), SearchInput{Message: "lost ring"})
	assert.ErrorIs(t, err, ErrSearchProcessing)
	assert.ErrorIs(t, err, nlp.ErrNotConfigured)
}

func TestSearchService_KeywordCache(t *testing.T) {
	t.Parallel()
	f := newSearchFixture(t)
	c := &mapCache{entries: map[string][]string{}}

	var calls atomic.Int32
	svc := f.service(nlp.ExtractorFunc(func(context.Context, string) ([]string, error) {
		calls.Add(1)
		return []string{"phone"}, nil
	}), c)

	for _, msg := range []string{"Lost my phone", "lost  my PHONE"} {
		res, err := svc.Search(context.Background(), SearchInput{Message: msg})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, f.phone.ID, res.Items[0].ID)
	}

	assert.Equal(t, int32(1), calls.Load())
	snap := f.env.metrics.Snapshot()
	assert.Equal(t, uint64(1), snap.KeywordCacheHits)
	assert.Equal(t, uint64(1), snap.KeywordCacheMisses)
}

func TestSearchService_CacheWriteFailureIgnored(t *testing.T) {
	t.Parallel()
	f := newSearchFixture(t)
	c := &mapCache{entries: map[string][]string{}, failSet: true}
	svc := f.service(nlp.ExtractorFunc(func(context.Context, string) ([]string, error) {
		return []string{"ring"}, nil
	}), c)

	res, err := svc.Search(context.Background(), SearchInput{Message: "ring"})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
}
