// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Authenticator decides whether a request may reach the admin API.
// Real identity management lives outside this service; implementations
// here only check a credential the deployment provides.
type Authenticator interface {
	Authenticate(r *http.Request) bool
}

// StaticToken authenticates requests carrying a fixed bearer token.
// An empty token means the boundary is open (development only).
type StaticToken struct {
	Token string
}

// Authenticate checks the Authorization header against the configured token.
func (s StaticToken) Authenticate(r *http.Request) bool {
	if s.Token == "" {
		return true
	}
	header := r.Header.Get("Authorization")
	bearer, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(bearer), []byte(s.Token)) == 1
}

// RequireAuth rejects requests the Authenticator does not accept.
func RequireAuth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authn.Authenticate(r) {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
