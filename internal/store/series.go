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

// SeriesStore manages the series owning entities. The nodes inside each
// series belong to NodeStore.
type SeriesStore struct {
	db *sql.DB
}

// NewSeriesStore returns a new SeriesStore.
func NewSeriesStore(db *sql.DB) *SeriesStore {
	return &SeriesStore{db: db}
}

const seriesColumns = `id, name, slug, description, cover_url, sort_order, created_at, updated_at`

// scanSeries scans a row into a Series struct.
func scanSeries(scanner interface{ Scan(...any) error }) (*models.Series, error) {
	var s models.Series
	err := scanner.Scan(
		&s.ID, &s.Name, &s.Slug, &s.Description,
		&s.CoverURL, &s.SortOrder, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all series ordered by sort_order, with node counts.
func (s *SeriesStore) List() ([]models.Series, error) {
	rows, err := s.db.Query(`
		SELECT sr.id, sr.name, sr.slug, sr.description, sr.cover_url, sr.sort_order,
		       sr.created_at, sr.updated_at,
		       COUNT(sn.id) AS node_count
		FROM series sr
		LEFT JOIN series_nodes sn ON sn.series_id = sr.id
		GROUP BY sr.id
		ORDER BY sr.sort_order, sr.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	defer rows.Close()

	var items []models.Series
	for rows.Next() {
		var sr models.Series
		err := rows.Scan(
			&sr.ID, &sr.Name, &sr.Slug, &sr.Description,
			&sr.CoverURL, &sr.SortOrder, &sr.CreatedAt, &sr.UpdatedAt,
			&sr.NodeCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		items = append(items, sr)
	}
	return items, rows.Err()
}

// FindByID retrieves a series by ID. Returns nil if not found.
func (s *SeriesStore) FindByID(id uuid.UUID) (*models.Series, error) {
	row := s.db.QueryRow(`SELECT `+seriesColumns+` FROM series WHERE id = $1`, id)
	sr, err := scanSeries(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find series by id: %w", err)
	}
	return sr, nil
}

// FindBySlug retrieves a series by slug. Returns nil if not found.
func (s *SeriesStore) FindBySlug(slug string) (*models.Series, error) {
	row := s.db.QueryRow(`SELECT `+seriesColumns+` FROM series WHERE slug = $1`, slug)
	sr, err := scanSeries(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find series by slug: %w", err)
	}
	return sr, nil
}

// Create inserts a new series and returns it.
func (s *SeriesStore) Create(sr *models.Series) (*models.Series, error) {
	row := s.db.QueryRow(`
		INSERT INTO series (name, slug, description, cover_url, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+seriesColumns,
		sr.Name, sr.Slug, sr.Description, sr.CoverURL, sr.SortOrder,
	)
	result, err := scanSeries(row)
	if err != nil {
		return nil, fmt.Errorf("create series: %w", err)
	}
	return result, nil
}

// Update modifies an existing series.
func (s *SeriesStore) Update(sr *models.Series) error {
	_, err := s.db.Exec(`
		UPDATE series SET
			name = $1, slug = $2, description = $3, cover_url = $4,
			sort_order = $5, updated_at = NOW()
		WHERE id = $6
	`, sr.Name, sr.Slug, sr.Description, sr.CoverURL, sr.SortOrder, sr.ID)
	if err != nil {
		return fmt.Errorf("update series: %w", err)
	}
	return nil
}

// Delete removes a series by ID. All its nodes go with it
// (ON DELETE CASCADE); the posts referenced by leaves stay untouched.
func (s *SeriesStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM series WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete series: %w", err)
	}
	return nil
}
