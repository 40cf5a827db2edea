// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/database"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/models"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "blog")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "blog")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testEnv holds all dependencies for handler integration tests. The tree
// cache is left nil so tests do not depend on Valkey.
type testEnv struct {
	DB            *sql.DB
	PostStore     *store.PostStore
	SeriesStore   *store.SeriesStore
	NodeStore     *store.NodeStore
	CategoryStore *store.CategoryStore
	TrackStore    *store.TrackStore
	Posts         *Posts
	Categories    *Categories
	Series        *Series
	Tracks        *Tracks
	Public        *Public
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	postStore := store.NewPostStore(db)
	seriesStore := store.NewSeriesStore(db)
	nodeStore := store.NewNodeStore(db)
	categoryStore := store.NewCategoryStore(db)
	trackStore := store.NewTrackStore(db)

	return &testEnv{
		DB:            db,
		PostStore:     postStore,
		SeriesStore:   seriesStore,
		NodeStore:     nodeStore,
		CategoryStore: categoryStore,
		TrackStore:    trackStore,
		Posts:         NewPosts(postStore),
		Categories:    NewCategories(categoryStore),
		Series:        NewSeries(seriesStore, nodeStore, postStore, nil),
		Tracks:        NewTracks(trackStore),
		Public:        NewPublic(postStore, seriesStore, nodeStore, trackStore),
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// jsonRequest builds a request carrying a JSON body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", "application/json")
	return r
}

// decodeBody decodes a recorded JSON response into dst.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// makeSeries creates a series row and registers cleanup.
func makeSeries(t *testing.T, env *testEnv, slug string) *models.Series {
	t.Helper()
	created, err := env.SeriesStore.Create(&models.Series{
		Name: "Handler Test Series",
		Slug: slug,
	})
	if err != nil {
		t.Fatalf("create series: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM series WHERE id = $1", created.ID)
	})
	return created
}

// makePost creates a post row and registers cleanup.
func makePost(t *testing.T, env *testEnv, slug string, status models.PostStatus) *models.Post {
	t.Helper()
	created, err := env.PostStore.Create(&models.Post{
		Title:  "Handler Test Post",
		Slug:   slug,
		Body:   "# Heading\n\nSome **markdown** body.",
		Status: status,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM posts WHERE id = $1", created.ID)
	})
	return created
}

// addTreeFolder creates a folder node through the AddNode handler.
func addTreeFolder(t *testing.T, env *testEnv, seriesID uuid.UUID, parentID *uuid.UUID, title string) *models.SeriesNode {
	t.Helper()
	rec := httptest.NewRecorder()
	r := jsonRequest(t, http.MethodPost, "/admin/series/"+seriesID.String()+"/nodes", addNodeInput{
		ParentID: parentID,
		Kind:     "folder",
		Title:    title,
	})
	env.Series.AddNode(rec, withChiURLParam(r, "id", seriesID.String()))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add folder: status %d, body %s", rec.Code, rec.Body.String())
	}
	var node models.SeriesNode
	decodeBody(t, rec, &node)
	return &node
}

// addTreeLeaf creates a leaf node through the AddNode handler.
func addTreeLeaf(t *testing.T, env *testEnv, seriesID uuid.UUID, parentID *uuid.UUID, postID uuid.UUID) *models.SeriesNode {
	t.Helper()
	rec := httptest.NewRecorder()
	r := jsonRequest(t, http.MethodPost, "/admin/series/"+seriesID.String()+"/nodes", addNodeInput{
		ParentID: parentID,
		Kind:     "leaf",
		PostID:   &postID,
	})
	env.Series.AddNode(rec, withChiURLParam(r, "id", seriesID.String()))
	if rec.Code != http.StatusCreated {
		t.Fatalf("add leaf: status %d, body %s", rec.Code, rec.Body.String())
	}
	var node models.SeriesNode
	decodeBody(t, rec, &node)
	return &node
}
