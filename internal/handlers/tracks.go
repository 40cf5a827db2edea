// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"

	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/apperr"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/models"
	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/store"
)

// Tracks groups the admin music track handlers.
type Tracks struct {
	trackStore *store.TrackStore
}

// NewTracks creates the tracks handler group.
func NewTracks(trackStore *store.TrackStore) *Tracks {
	return &Tracks{trackStore: trackStore}
}

// List returns all tracks, unpublished included.
func (h *Tracks) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.trackStore.List()
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []models.Track{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns one track by id.
func (h *Tracks) Get(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := h.trackStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if item == nil {
		writeError(w, apperr.NotFound("track %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type trackInput struct {
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Album       *string `json:"album"`
	AudioURL    string  `json:"audio_url"`
	CoverURL    *string `json:"cover_url"`
	DurationSec int     `json:"duration_sec"`
	SortOrder   int     `json:"sort_order"`
	Published   bool    `json:"published"`
}

func (in *trackInput) validate() string {
	if msg := validateName(in.Title); msg != "" {
		return strings.Replace(msg, "name", "title", 1)
	}
	if strings.TrimSpace(in.Artist) == "" {
		return "artist is required"
	}
	if strings.TrimSpace(in.AudioURL) == "" {
		return "audio_url is required"
	}
	if msg := validateURL(in.AudioURL); msg != "" {
		return msg
	}
	if in.DurationSec < 0 {
		return "duration_sec must not be negative"
	}
	return ""
}

// Create creates a track. The audio file itself is uploaded elsewhere;
// only its URL is stored.
func (h *Tracks) Create(w http.ResponseWriter, r *http.Request) {
	var in trackInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if msg := in.validate(); msg != "" {
		writeError(w, apperr.Validation("%s", msg))
		return
	}

	created, err := h.trackStore.Create(&models.Track{
		Title:       strings.TrimSpace(in.Title),
		Artist:      strings.TrimSpace(in.Artist),
		Album:       in.Album,
		AudioURL:    in.AudioURL,
		CoverURL:    in.CoverURL,
		DurationSec: in.DurationSec,
		SortOrder:   in.SortOrder,
		Published:   in.Published,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update updates a track.
func (h *Tracks) Update(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := h.trackStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if item == nil {
		writeError(w, apperr.NotFound("track %s not found", id))
		return
	}

	var in trackInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}
	if msg := in.validate(); msg != "" {
		writeError(w, apperr.Validation("%s", msg))
		return
	}

	item.Title = strings.TrimSpace(in.Title)
	item.Artist = strings.TrimSpace(in.Artist)
	item.Album = in.Album
	item.AudioURL = in.AudioURL
	item.CoverURL = in.CoverURL
	item.DurationSec = in.DurationSec
	item.SortOrder = in.SortOrder
	item.Published = in.Published

	if err := h.trackStore.Update(item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Delete removes a track.
func (h *Tracks) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.trackStore.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
