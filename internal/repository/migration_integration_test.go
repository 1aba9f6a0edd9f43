//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/foundly/foundly/migrations"
)

// ============================================================================
// Migration Integration Tests
// ============================================================================

func TestIntegrationMigration_ApplyAllTables(t *testing.T) {
	ctx, repo := newTestEnv(t)

	for _, table := range []string{"users", "items"} {
		t.Run(table, func(t *testing.T) {
			exists, err := tableExists(ctx, repo.Pool(), table)
			if err != nil {
				t.Fatalf("tableExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Table %q should exist after migrations", table)
			}
		})
	}
}

func TestIntegrationMigration_ItemsTableSchema(t *testing.T) {
	ctx, repo := newTestEnv(t)

	expectedColumns := []string{
		"id",
		"description",
		"keywords",
		"found_time",
		"found_location",
		"status",
		"found_by_agent_id",
		"claimed_by_passenger_id",
		"returned_time",
		"created_at",
		"updated_at",
	}

	for _, col := range expectedColumns {
		t.Run(col, func(t *testing.T) {
			exists, err := columnExists(ctx, repo.Pool(), "items", col)
			if err != nil {
				t.Fatalf("columnExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Column %q should exist in items table", col)
			}
		})
	}
}

func TestIntegrationMigration_UserConstraints(t *testing.T) {
	ctx, repo := newTestEnv(t)
	pool := repo.Pool()

	_, err := pool.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, role)
		VALUES ('u-1', 'a@example.com', 'A', 'x', 'admin')
	`)
	if err == nil {
		t.Error("Expected check constraint violation for unknown role")
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, role)
		VALUES ('u-2', 'Mixed@Example.com', 'A', 'x', 'agent')
	`)
	if err == nil {
		t.Error("Expected check constraint violation for non-lowercase email")
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash) VALUES
		('u-3', 'dup@example.com', 'A', 'x'),
		('u-4', 'dup@example.com', 'B', 'x')
	`)
	if err == nil {
		t.Error("Expected unique violation for duplicate email")
	}
}

func TestIntegrationMigration_RollbackItems(t *testing.T) {
	ctx, repo := newTestEnv(t)

	db := stdlib.OpenDBFromPool(repo.Pool())
	defer db.Close()
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		t.Fatalf("set dialect: %v", err)
	}

	if err := goose.DownContext(ctx, db, "."); err != nil {
		t.Fatalf("down migration: %v", err)
	}

	exists, err := tableExists(ctx, repo.Pool(), "items")
	if err != nil {
		t.Fatalf("tableExists failed: %v", err)
	}
	if exists {
		t.Error("items table should not exist after rollback")
	}

	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("reapply migrations: %v", err)
	}
}

func TestIntegrationMigration_Idempotency(t *testing.T) {
	ctx, repo := newTestEnv(t)

	// newTestEnv already migrated once.
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("second apply should not fail: %v", err)
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

func tableExists(ctx context.Context, pool *pgxpool.Pool, tableName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`, tableName).Scan(&exists)
	return exists, err
}

func columnExists(ctx context.Context, pool *pgxpool.Pool, tableName, columnName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.columns
			WHERE table_schema = 'public'
			AND table_name = $1
			AND column_name = $2
		)
	`, tableName, columnName).Scan(&exists)
	return exists, err
}
