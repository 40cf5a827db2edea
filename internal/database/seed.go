package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: a category,
// two posts, a series holding one of them as a chapter, and a track.
// It is a no-op when any post already exists.
func Seed(db *sql.DB) error {
	// Check if any posts exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	var categoryID string
	err := db.QueryRow(`
		INSERT INTO categories (name, slug, description)
		VALUES ('Engineering', 'engineering', 'Notes on building software')
		RETURNING id
	`).Scan(&categoryID)
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	var postID string
	err = db.QueryRow(`
		INSERT INTO posts (title, slug, body, status, category_id, published_at)
		VALUES ('Hello, World', 'hello-world', E'# Hello\n\nFirst post.', 'published', $1, NOW())
		RETURNING id
	`, categoryID).Scan(&postID)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO posts (title, slug, body, status)
		VALUES ('Work in Progress', 'work-in-progress', 'Draft notes.', 'draft')
	`)
	if err != nil {
		return fmt.Errorf("seed insert draft post: %w", err)
	}

	var seriesID string
	err = db.QueryRow(`
		INSERT INTO series (name, slug, description)
		VALUES ('Getting Started', 'getting-started', 'A guided column')
		RETURNING id
	`).Scan(&seriesID)
	if err != nil {
		return fmt.Errorf("seed insert series: %w", err)
	}

	var folderID string
	err = db.QueryRow(`
		INSERT INTO series_nodes (series_id, title, sort_order, published)
		VALUES ($1, 'Part One', 0, TRUE)
		RETURNING id
	`, seriesID).Scan(&folderID)
	if err != nil {
		return fmt.Errorf("seed insert folder node: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO series_nodes (series_id, parent_id, post_id, sort_order, published)
		VALUES ($1, $2, $3, 0, TRUE)
	`, seriesID, folderID, postID)
	if err != nil {
		return fmt.Errorf("seed insert leaf node: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO tracks (title, artist, audio_url, duration_sec, published)
		VALUES ('First Light', 'Johnny Allen', 'https://cdn.example.com/audio/first-light.mp3', 214, TRUE)
	`)
	if err != nil {
		return fmt.Errorf("seed insert track: %w", err)
	}

	slog.Info("database seeded with development content")
	return nil
}
