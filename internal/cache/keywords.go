package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keywordsKeyPrefix = "nlp:keywords:"

	// DefaultKeywordTTL bounds how long an extraction result is reused.
	DefaultKeywordTTL = 24 * time.Hour
)

// ErrCacheMiss is returned when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// GetKeywords returns keywords previously extracted from message.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetKeywords(ctx context.Context, message string) ([]string, error) {
	data, err := c.client.Get(ctx, KeywordsKey(message)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var keywords []string
	if err := json.Unmarshal(data, &keywords); err != nil {
		// Corrupted entry, treat as miss
		return nil, ErrCacheMiss
	}
	return keywords, nil
}

// SetKeywords stores the extraction result for message.
func (c *Cache) SetKeywords(ctx context.Context, message string, keywords []string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultKeywordTTL
	}

	data, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}

	if err := c.client.Set(ctx, KeywordsKey(message), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache keywords: %w", err)
	}
	return nil
}

// KeywordsKey derives the cache key for a message. Messages differing only
// in case or surrounding/repeated whitespace share a key.
func KeywordsKey(message string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(message)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return keywordsKeyPrefix + hex.EncodeToString(sum[:])
}
