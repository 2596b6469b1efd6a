package router

import (
	"encoding/json"
	"net/http"

	"coursehub/internal/auth"
	"coursehub/internal/models"
	repo "coursehub/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang/glog"
)

// EnrollmentRoutes is mounted under /courses/{courseID}; AuthCtx and
// CourseCtx are applied by the parent router.
func EnrollmentRoutes() *chi.Mux {
	router := chi.NewRouter()

	// Students act on their own enrollment.
	router.Post("/request", requestEnrollmentHandler)
	router.Post("/completeLesson", markLessonCompleteHandler)
	router.Get("/progress", getOwnProgressHandler)

	// Instructors manage the roster.
	router.With(auth.RequireCourseInstructor()).Get("/", listEnrollmentsHandler)
	router.With(auth.RequireCourseInstructor()).Post("/decide", decideEnrollmentHandler)
	router.With(auth.RequireCourseInstructor()).Post("/add", directEnrollHandler)
	router.With(auth.RequireCourseInstructor()).Post("/remove", removeEnrollmentHandler)
	router.With(auth.RequireCourseInstructor()).Get("/progress/{studentID}", getStudentProgressHandler)

	return router
}

// POST: /request
func requestEnrollmentHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	req := &models.RequestEnrollmentRequest{
		CourseID:  chi.URLParam(r, "courseID"),
		StudentID: user.ID,
	}

	err = repo.Repository.RequestEnrollment(req)
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	_, _ = w.Write([]byte("Successfully requested enrollment in " + req.CourseID))
}

// POST: /decide
func decideEnrollmentHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.DecideEnrollmentRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.CourseID = chi.URLParam(r, "courseID")

	err = repo.Repository.DecideEnrollment(req)
	if err != nil {
		glog.Warningln(err)
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	_, _ = w.Write([]byte("Successfully decided enrollment for " + req.StudentID))
}

// POST: /add
func directEnrollHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.DirectEnrollRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.CourseID = chi.URLParam(r, "courseID")

	student, err := repo.Repository.DirectEnroll(req)
	if err != nil {
		glog.Warningln(err)
		respondError(w, err)
		return
	}

	render.JSON(w, r, student)
}

// POST: /remove
func removeEnrollmentHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.RemoveEnrollmentRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.CourseID = chi.URLParam(r, "courseID")

	err = repo.Repository.RemoveEnrollment(req)
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	_, _ = w.Write([]byte("Successfully removed " + req.StudentID + " from " + req.CourseID))
}

// GET: /
func listEnrollmentsHandler(w http.ResponseWriter, r *http.Request) {
	records, err := repo.Repository.ListEnrollments(chi.URLParam(r, "courseID"))
	if err != nil {
		respondError(w, err)
		return
	}

	render.JSON(w, r, records)
}

// POST: /completeLesson
func markLessonCompleteHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var req *models.MarkLessonCompleteRequest
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.CourseID = chi.URLParam(r, "courseID")
	req.StudentID = user.ID

	err = repo.Repository.MarkLessonComplete(req)
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	_, _ = w.Write([]byte("Successfully completed lesson " + req.LessonID))
}

// GET: /progress
func getOwnProgressHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	respondProgress(w, r, chi.URLParam(r, "courseID"), user.ID)
}

// GET: /progress/{studentID}
func getStudentProgressHandler(w http.ResponseWriter, r *http.Request) {
	respondProgress(w, r, chi.URLParam(r, "courseID"), chi.URLParam(r, "studentID"))
}

func respondProgress(w http.ResponseWriter, r *http.Request, courseID string, studentID string) {
	percent, err := repo.Repository.CourseProgress(courseID, studentID)
	if err != nil {
		respondError(w, err)
		return
	}

	render.JSON(w, r, struct {
		CourseID        string `json:"courseId"`
		StudentID       string `json:"studentId"`
		PercentComplete int    `json:"percentComplete"`
	}{courseID, studentID, percent})
}
