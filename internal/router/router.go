package router

import (
	"errors"
	"net/http"

	"coursehub/internal/qerrors"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func HealthRoutes() *chi.Mux {
	router := chi.NewRouter()

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("OK"))
	})

	return router
}

// respondError maps a repository error to an HTTP status. Multi-entity
// operations either fully applied or not at all, so every error here is safe
// to surface as retryable.
func respondError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), errorStatus(err))
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, qerrors.CourseNotFoundError),
		errors.Is(err, qerrors.ModuleNotFoundError),
		errors.Is(err, qerrors.LessonNotFoundError),
		errors.Is(err, qerrors.UserNotFoundError),
		errors.Is(err, qerrors.AmbiguousEmailError),
		errors.Is(err, qerrors.QuizNotFoundError),
		errors.Is(err, qerrors.EnrollmentNotFoundError):
		return http.StatusNotFound
	case errors.Is(err, qerrors.EnrollmentExistsError),
		errors.Is(err, qerrors.QuizExistsError),
		errors.Is(err, qerrors.QuizLockedError),
		errors.Is(err, qerrors.AttemptLimitError),
		errors.Is(err, qerrors.LessonIncompleteError):
		return http.StatusConflict
	case errors.Is(err, qerrors.PermissionDeniedError):
		return http.StatusForbidden
	case errors.Is(err, qerrors.ValidationError),
		errors.Is(err, qerrors.InvalidEmailError):
		return http.StatusBadRequest
	case errors.Is(err, qerrors.UnavailableError):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}
