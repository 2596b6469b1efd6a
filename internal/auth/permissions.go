package auth

import (
	"net/http"

	"coursehub/internal/models"
	repo "coursehub/internal/repository"
)

// RequireCourseInstructor is a middleware that rejects requests from users
// who do not own the course identified by the courseID context value.
func RequireCourseInstructor() func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := GetUserFromRequest(r)
			if err != nil {
				rejectUnauthorizedRequest(w)
				return
			}

			courseID := r.Context().Value("courseID").(string)
			course, err := repo.Repository.GetCourseByID(courseID)
			if err != nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}

			if !IsCourseInstructor(user, course) {
				rejectForbiddenRequest(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireQuizInstructor is a middleware that rejects requests from users who
// do not own the course the quiz identified by the quizID context value
// belongs to.
func RequireQuizInstructor() func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := GetUserFromRequest(r)
			if err != nil {
				rejectUnauthorizedRequest(w)
				return
			}

			quizID := r.Context().Value("quizID").(string)
			quiz, err := repo.Repository.GetQuizByID(quizID)
			if err != nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}

			course, err := repo.Repository.GetCourseByID(quiz.CourseID)
			if err != nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}

			if !IsCourseInstructor(user, course) {
				rejectForbiddenRequest(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IsCourseInstructor reports whether a user owns a course. Admins own every course.
func IsCourseInstructor(u *models.User, course *models.Course) bool {
	if u.Role == models.RoleAdmin {
		return true
	}

	for _, id := range course.InstructorIDs {
		if id == u.ID {
			return true
		}
	}

	return false
}
