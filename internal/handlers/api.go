// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the blog API. Handlers
// are grouped by concern (posts, categories, series, tracks, public) and
// receive their dependencies through the handler struct.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Johnnyallen07/johnnyallen-blog-sub000/internal/apperr"
)

// maxBodyBytes caps request bodies. Post bodies are the largest payload.
const maxBodyBytes = 1 << 20

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// writeError maps an error onto the taxonomy's HTTP status. Errors outside
// the taxonomy are logged and returned as a generic 500 so storage details
// never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	var body errorBody
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body.Error.Code = string(appErr.Code)
		body.Error.Message = appErr.Message
		writeJSON(w, appErr.Code.HTTPStatus(), body)
		return
	}

	slog.Error("request failed", "error", err)
	body.Error.Code = string(apperr.CodeTransaction)
	body.Error.Message = "internal error"
	writeJSON(w, http.StatusInternalServerError, body)
}

// decodeJSON decodes the request body into dst. Unknown fields are
// rejected so client typos surface as 400s instead of silent no-ops.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Validation("invalid request body: %v", err)
	}
	return nil
}

// urlID parses the {param} chi URL parameter as a UUID.
func urlID(r *http.Request, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid %s", param)
	}
	return id, nil
}
