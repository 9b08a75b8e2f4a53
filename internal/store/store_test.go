// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"servicedir/internal/database"
	"servicedir/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "servicedir")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "servicedir")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db.DB); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// uniqueSlug returns a slug that will not collide across test runs.
func uniqueSlug(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// createTestCategory inserts a category and removes it when the test ends.
func createTestCategory(t *testing.T, db *sqlx.DB, name string, level models.Level, parent *uuid.UUID) *models.Category {
	t.Helper()
	c, err := NewCategoryStore(db).Create(t.Context(), &models.Category{
		Name:     name,
		Slug:     uniqueSlug("test-cat"),
		Level:    level,
		ParentID: parent,
		Active:   true,
	})
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM categories WHERE id = $1", c.ID) })
	return c
}

// createTestProvider inserts a provider and removes it when the test ends.
func createTestProvider(t *testing.T, db *sqlx.DB, name string, order int) *models.Provider {
	t.Helper()
	p, err := NewProviderStore(db).Create(t.Context(), &models.Provider{
		BusinessName: name,
		Slug:         uniqueSlug("test-provider"),
		StatusFlags:  models.StatusFlags{Active: true},
		SortOrder:    order,
	})
	if err != nil {
		t.Fatalf("create provider %s: %v", name, err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM ranking_audit_log WHERE provider_id = $1", p.ID)
		db.Exec("DELETE FROM providers WHERE id = $1", p.ID)
	})
	return p
}
