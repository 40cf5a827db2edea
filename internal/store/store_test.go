// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/database"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "blog")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "blog")
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
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanPosts removes test posts by slug. Call in t.Cleanup().
func cleanPosts(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM posts WHERE slug = $1", slug)
	}
}

// cleanSeries removes a test series by slug; its nodes cascade.
// Call in t.Cleanup().
func cleanSeries(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM series WHERE slug = $1", slug)
	}
}

// cleanCategories removes test categories by slug. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", slug)
	}
}

// cleanTracks removes test tracks by audio URL. Call in t.Cleanup().
func cleanTracks(t *testing.T, db *sql.DB, urls ...string) {
	t.Helper()
	for _, url := range urls {
		db.Exec("DELETE FROM tracks WHERE audio_url = $1", url)
	}
}

// testSeries creates a series for node tests and registers its cleanup.
func testSeries(t *testing.T, db *sql.DB) *models.Series {
	t.Helper()
	slug := "test-series-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanSeries(t, db, slug) })

	sr, err := NewSeriesStore(db).Create(&models.Series{Name: "Test Series", Slug: slug})
	if err != nil {
		t.Fatalf("create test series: %v", err)
	}
	return sr
}

// testPost creates a published post for leaf tests and registers its cleanup.
func testPost(t *testing.T, db *sql.DB, title string) *models.Post {
	t.Helper()
	slug := "test-post-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanPosts(t, db, slug) })

	p, err := NewPostStore(db).Create(&models.Post{
		Title:  title,
		Slug:   slug,
		Body:   "Body of " + title,
		Status: models.PostStatusPublished,
	})
	if err != nil {
		t.Fatalf("create test post: %v", err)
	}
	return p
}
