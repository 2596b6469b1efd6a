package auth

import (
	"context"
	"net/http"

	"coursehub/internal/config"
	"coursehub/internal/models"
	repo "coursehub/internal/repository"
)

// AuthCtx is a middleware that rejects requests without a valid session cookie. The User associated with the
// request is added to the request context, and can be accessed via GetUserFromRequest.
func AuthCtx() func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenCookie, err := r.Cookie(config.Config.SessionCookieName)
			if err != nil {
				// Missing session cookie.
				rejectUnauthorizedRequest(w)
				return
			}

			// Verify the session cookie. In this case an additional check is added to detect
			// if the user's Firebase session was revoked, user deleted/disabled, etc.
			user, err := repo.Repository.VerifySessionCookie(tokenCookie)
			if err != nil {
				rejectUnauthorizedRequest(w)
				return
			}

			// create a new request context containing the authenticated user
			ctxWithUser := context.WithValue(r.Context(), "currentUser", user)
			next.ServeHTTP(w, r.WithContext(ctxWithUser))
		})
	}
}

// RequireAdmin is a middleware that rejects requests from non-admin users.
func RequireAdmin() func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := GetUserFromRequest(r)
			if err != nil {
				rejectUnauthorizedRequest(w)
				return
			}

			if user.Role != models.RoleAdmin {
				rejectForbiddenRequest(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireEducator is a middleware that rejects requests from users who are
// neither educators nor admins.
func RequireEducator() func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := GetUserFromRequest(r)
			if err != nil {
				rejectUnauthorizedRequest(w)
				return
			}

			if user.Role != models.RoleEducator && user.Role != models.RoleAdmin {
				rejectForbiddenRequest(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromRequest returns a User if it exists within the request context. Only works with routes that implement the
// AuthCtx middleware.
func GetUserFromRequest(r *http.Request) (*models.User, error) {
	user, ok := r.Context().Value("currentUser").(*models.User)
	if ok && user != nil {
		return user, nil
	}

	return nil, UserNotFoundError
}

// Helpers

func rejectUnauthorizedRequest(w http.ResponseWriter) {
	http.Error(w, "You must be authenticated to access this resource", http.StatusUnauthorized)
}

func rejectForbiddenRequest(w http.ResponseWriter) {
	http.Error(w, "You do not have permission to access this resource", http.StatusForbidden)
}
