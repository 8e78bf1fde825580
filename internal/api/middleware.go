package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/neexbeast/pickyourtrail/internal/travel"
)

type ctxKey int

const userKey ctxKey = iota

// currentUser returns the user attached by Authenticate, or nil.
func currentUser(r *http.Request) *travel.User {
	u, _ := r.Context().Value(userKey).(*travel.User)
	return u
}

// Authenticate returns middleware that resolves the Authorization: Bearer
// <token> header to a user and attaches it to the request context.
func Authenticate(tokens TokenVerifier, users Accounts, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || token == "" {
				writeMessage(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			id, err := tokens.Verify(token)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			user, err := users.User(r.Context(), id)
			switch {
			case errors.Is(err, travel.ErrNotFound):
				writeMessage(w, http.StatusUnauthorized, "User not found")
				return
			case err != nil:
				log.Error("auth: user lookup failed",
					"user_id", id,
					"request_id", middleware.GetReqID(r.Context()),
					"err", err,
				)
				writeMessage(w, http.StatusInternalServerError, "Server error during authentication")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose authenticated user is not an admin.
// It must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		if u == nil || !u.IsAdmin {
			writeMessage(w, http.StatusForbidden, "Access denied: Admin privileges required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request once the response is written.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
