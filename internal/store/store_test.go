// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"inkpress/internal/database"
	"inkpress/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with the same defaults as internal/config.
func testDSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkpress")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkpress")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB returns a connection whose search_path points at a fresh schema
// with all migrations applied, so listing assertions see only the rows the
// test created. If the database is unavailable, the test is skipped. The
// schema is dropped when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	admin, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	if err := admin.Ping(); err != nil {
		admin.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if _, err := admin.Exec(`CREATE SCHEMA ` + schema); err != nil {
		admin.Close()
		t.Fatalf("create schema: %v", err)
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open("pgx", dsn+sep+"search_path="+schema)
	if err != nil {
		t.Fatalf("open schema connection: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		admin.Exec(`DROP SCHEMA IF EXISTS ` + schema + ` CASCADE`)
		admin.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// mustCategory creates a category or fails the test.
func mustCategory(t *testing.T, s *CategoryStore, name, slug string) *models.Category {
	t.Helper()
	c, err := s.Create(context.Background(), &models.Category{Name: name, Slug: slug})
	if err != nil {
		t.Fatalf("create category %s: %v", slug, err)
	}
	return c
}

// mustPost creates a post or fails the test.
func mustPost(t *testing.T, s *PostStore, in PostInput) *models.Post {
	t.Helper()
	p, err := s.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create post %s: %v", in.Slug, err)
	}
	return p
}

// backdate sets a post's created_at so ordering assertions do not depend on
// insert timing.
func backdate(t *testing.T, db *sql.DB, postID int64, at time.Time) {
	t.Helper()
	if _, err := db.Exec(`UPDATE posts SET created_at = $1 WHERE id = $2`, at, postID); err != nil {
		t.Fatalf("backdate post %d: %v", postID, err)
	}
}

// membership returns the category ids linked to a post, ascending.
func membership(t *testing.T, db *sql.DB, postID int64) []int64 {
	t.Helper()
	rows, err := db.Query(`SELECT category_id FROM post_to_categories WHERE post_id = $1 ORDER BY category_id`, postID)
	if err != nil {
		t.Fatalf("query membership: %v", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			t.Fatalf("scan membership: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

func strPtr(s string) *string { return &s }
