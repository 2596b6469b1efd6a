package router

import (
	"encoding/json"
	"net/http"

	"coursehub/internal/auth"
	mw "coursehub/internal/middleware"
	"coursehub/internal/models"
	repo "coursehub/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang/glog"
)

func QuizRoutes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(auth.AuthCtx())

	router.Post("/create", createQuizHandler)

	router.Route("/{quizID}", func(r chi.Router) {
		r.Use(mw.QuizCtx())

		r.Get("/", getQuizHandler)
		r.Post("/submit", submitAttemptHandler)
		r.Get("/eligibility", getEligibilityHandler)
		r.Get("/attempts", listAttemptsHandler)

		r.With(auth.RequireQuizInstructor()).Post("/settings", editQuizSettingsHandler)
		r.With(auth.RequireQuizInstructor()).Post("/grantRetake", grantRetakeHandler)
	})

	return router
}

// POST: /create
func createQuizHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var req *models.CreateQuizRequest
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	course, err := repo.Repository.GetCourseByID(req.CourseID)
	if err != nil {
		respondError(w, err)
		return
	}
	if !auth.IsCourseInstructor(user, course) {
		http.Error(w, "You do not have permission to access this resource", http.StatusForbidden)
		return
	}

	quiz, err := repo.Repository.CreateQuiz(req)
	if err != nil {
		respondError(w, err)
		return
	}

	render.JSON(w, r, quiz)
}

// GET: /{quizID}
func getQuizHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	quiz, err := repo.Repository.GetQuizByID(chi.URLParam(r, "quizID"))
	if err != nil {
		respondError(w, err)
		return
	}

	// Students only see answer keys when the educator has toggled them on.
	course, err := repo.Repository.GetCourseByID(quiz.CourseID)
	if err != nil {
		respondError(w, err)
		return
	}
	if !auth.IsCourseInstructor(user, course) && !quiz.Settings.ShowAnswers {
		quiz = sanitizeQuiz(quiz)
	}

	render.JSON(w, r, quiz)
}

// POST: /{quizID}/submit
func submitAttemptHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var req *models.SubmitAttemptRequest
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.QuizID = chi.URLParam(r, "quizID")
	req.StudentID = user.ID

	attempt, err := repo.Repository.SubmitAttempt(req)
	if err != nil {
		glog.Warningln(err)
		respondError(w, err)
		return
	}

	render.JSON(w, r, attempt)
}

// GET: /{quizID}/eligibility
func getEligibilityHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	quizID := chi.URLParam(r, "quizID")
	canStart, err := repo.Repository.CanStartAttempt(quizID, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	render.JSON(w, r, struct {
		QuizID          string `json:"quizId"`
		CanStartAttempt bool   `json:"canStartAttempt"`
	}{quizID, canStart})
}

// GET: /{quizID}/attempts
func listAttemptsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	attempts, err := repo.Repository.ListAttempts(chi.URLParam(r, "quizID"), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	render.JSON(w, r, attempts)
}

// POST: /{quizID}/settings
func editQuizSettingsHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.EditQuizSettingsRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.QuizID = chi.URLParam(r, "quizID")

	err = repo.Repository.EditQuizSettings(req)
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	_, _ = w.Write([]byte("Successfully edited quiz " + req.QuizID))
}

// POST: /{quizID}/grantRetake
func grantRetakeHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.GrantRetakeRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.QuizID = chi.URLParam(r, "quizID")

	err = repo.Repository.GrantRetake(req)
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	_, _ = w.Write([]byte("Successfully granted retake for " + req.StudentID))
}

// sanitizeQuiz strips answer keys from a quiz before it is rendered to a student.
func sanitizeQuiz(quiz *models.Quiz) *models.Quiz {
	sanitized := *quiz
	sanitized.Questions = make([]models.Question, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		q.CorrectIndex = 0
		q.CorrectAnswer = ""
		q.CorrectBool = false
		sanitized.Questions = append(sanitized.Questions, q)
	}

	return &sanitized
}
