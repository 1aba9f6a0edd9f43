// Package testutil holds helpers shared by unit and integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/foundly/foundly/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// TruncateAll empties every application table. Migrations must already be applied.
func TruncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, "TRUNCATE items, users"); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a user with a unique email. The password hash is a
// placeholder; callers that log in must hash a real password.
func NewTestUser(t testing.TB, role model.Role) *model.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	id := ulid.Make().String()
	return &model.User{
		ID:           id,
		Email:        fmt.Sprintf("%s@example.com", id),
		Name:         "Test " + string(role),
		PasswordHash: "placeholder",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestItem creates a found item reported by agentID.
func NewTestItem(t testing.TB, agentID string, foundTime time.Time, keywords ...string) *model.Item {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	if len(keywords) == 0 {
		keywords = []string{"wallet"}
	}
	return &model.Item{
		ID:             ulid.Make().String(),
		Description:    "Found near gate",
		Keywords:       keywords,
		FoundTime:      foundTime.UTC().Truncate(time.Microsecond),
		FoundLocation:  "Terminal 1",
		Status:         model.ItemStatusFound,
		FoundByAgentID: agentID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
