package handlers

import (
	"net/http"
	"strings"

	"github.com/vidtube/backend/internal/auth"
	"github.com/vidtube/backend/internal/logging"
)

// requireAuth rejects requests without a valid access token. On success the
// authenticated user is stored on the request context.
func requireAuth(users UserStore, tokens TokenService, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logging.FromContext(ctx)

		token := bearerToken(r)
		if token == "" {
			respondError(ctx, w, http.StatusUnauthorized, "authentication required")
			return
		}

		userID, err := tokens.VerifyAccess(token)
		if err != nil {
			logger.Warn("access token rejected", "error", err)
			respondError(ctx, w, http.StatusUnauthorized, "invalid or expired access token")
			return
		}

		user, err := users.FindByID(ctx, userID)
		if err != nil {
			logger.Warn("token subject not found", "userId", userID, "error", err)
			respondError(ctx, w, http.StatusUnauthorized, "invalid or expired access token")
			return
		}

		next(w, r.WithContext(auth.WithUser(ctx, user)))
	}
}

// optionalAuth attaches the user when a valid token is presented but lets
// anonymous requests through untouched.
func optionalAuth(users UserStore, tokens TokenService, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := bearerToken(r)
		if token == "" {
			next(w, r)
			return
		}

		userID, err := tokens.VerifyAccess(token)
		if err != nil {
			next(w, r)
			return
		}

		user, err := users.FindByID(ctx, userID)
		if err != nil {
			next(w, r)
			return
		}

		next(w, r.WithContext(auth.WithUser(ctx, user)))
	}
}

// bearerToken extracts the access token from the Authorization header or,
// for browser clients, the accessToken cookie.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := r.Cookie("accessToken"); err == nil {
		return cookie.Value
	}

	return ""
}

// viewerID returns the authenticated user's ID, or "" for anonymous requests.
func viewerID(r *http.Request) string {
	if user, ok := auth.UserFromContext(r.Context()); ok {
		return user.ID
	}
	return ""
}
