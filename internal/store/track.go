// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/models"
)

// TrackStore manages music tracks in the database.
type TrackStore struct {
	db *sql.DB
}

// NewTrackStore returns a new TrackStore.
func NewTrackStore(db *sql.DB) *TrackStore {
	return &TrackStore{db: db}
}

const trackColumns = `id, title, artist, album, audio_url, cover_url,
	duration_sec, sort_order, published, created_at, updated_at`

// scanTrack scans a row into a Track struct.
func scanTrack(scanner interface{ Scan(...any) error }) (*models.Track, error) {
	var t models.Track
	err := scanner.Scan(
		&t.ID, &t.Title, &t.Artist, &t.Album, &t.AudioURL, &t.CoverURL,
		&t.DurationSec, &t.SortOrder, &t.Published, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all tracks ordered by sort_order.
func (s *TrackStore) List() ([]models.Track, error) {
	return s.list(`SELECT ` + trackColumns + ` FROM tracks ORDER BY sort_order, created_at`)
}

// ListPublished returns published tracks ordered by sort_order. Used by
// the public API.
func (s *TrackStore) ListPublished() ([]models.Track, error) {
	return s.list(`SELECT ` + trackColumns + ` FROM tracks WHERE published ORDER BY sort_order, created_at`)
}

func (s *TrackStore) list(query string) ([]models.Track, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var items []models.Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// FindByID retrieves a track by ID. Returns nil if not found.
func (s *TrackStore) FindByID(id uuid.UUID) (*models.Track, error) {
	row := s.db.QueryRow(`SELECT `+trackColumns+` FROM tracks WHERE id = $1`, id)
	t, err := scanTrack(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find track by id: %w", err)
	}
	return t, nil
}

// Create inserts a new track and returns it.
func (s *TrackStore) Create(t *models.Track) (*models.Track, error) {
	row := s.db.QueryRow(`
		INSERT INTO tracks (title, artist, album, audio_url, cover_url,
		                    duration_sec, sort_order, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+trackColumns,
		t.Title, t.Artist, t.Album, t.AudioURL, t.CoverURL,
		t.DurationSec, t.SortOrder, t.Published,
	)
	result, err := scanTrack(row)
	if err != nil {
		return nil, fmt.Errorf("create track: %w", err)
	}
	return result, nil
}

// Update modifies an existing track.
func (s *TrackStore) Update(t *models.Track) error {
	_, err := s.db.Exec(`
		UPDATE tracks SET
			title = $1, artist = $2, album = $3, audio_url = $4, cover_url = $5,
			duration_sec = $6, sort_order = $7, published = $8, updated_at = NOW()
		WHERE id = $9
	`, t.Title, t.Artist, t.Album, t.AudioURL, t.CoverURL,
		t.DurationSec, t.SortOrder, t.Published, t.ID)
	if err != nil {
		return fmt.Errorf("update track: %w", err)
	}
	return nil
}

// Delete removes a track by ID. The audio file in object storage is
// managed externally and stays where it is.
func (s *TrackStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM tracks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete track: %w", err)
	}
	return nil
}
