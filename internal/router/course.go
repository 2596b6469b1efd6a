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
)

func CourseRoutes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(auth.AuthCtx())

	// Course creation is open to educators; everything below a courseID is
	// gated on course ownership.
	router.With(auth.RequireEducator()).Post("/create", createCourseHandler)

	router.Route("/{courseID}", func(r chi.Router) {
		r.Use(mw.CourseCtx())

		r.Get("/", getCourseHandler)
		r.Get("/modules", listModulesHandler)
		r.Get("/lessons", listLessonsHandler)

		r.Group(func(owner chi.Router) {
			owner.Use(auth.RequireCourseInstructor())

			owner.Post("/edit", editCourseHandler)
			owner.Post("/delete", deleteCourseHandler)
			owner.Post("/addInstructor", addInstructorHandler)
			owner.Post("/removeInstructor", removeInstructorHandler)

			owner.Post("/modules/create", createModuleHandler)
			owner.Post("/lessons/create", createLessonHandler)
			owner.Post("/lessons/edit/{lessonID}", editLessonHandler)
			owner.Post("/lessons/delete/{lessonID}", deleteLessonHandler)
		})

		r.Mount("/enrollments", EnrollmentRoutes())
	})

	return router
}

// GET: /{courseID}
func getCourseHandler(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	course, err := repo.Repository.GetCourseByID(courseID)
	if err != nil {
		respondError(w, err)
		return
	}

	render.JSON(w, r, course)
}

// POST: /create
func createCourseHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.CreateCourseRequest

	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.CreatedBy = user

	course, err := repo.Repository.CreateCourse(req)
	if err != nil {
		respondError(w, err)
		return
	}

	render.JSON(w, r, course)
}

// POST: /{courseID}/edit
func editCourseHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.EditCourseRequest

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

	err = repo.Repository.EditCourse(req)
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	_, _ = w.Write([]byte("Successfully edited course " + req.CourseID))
}

// POST: /{courseID}/delete
func deleteCourseHandler(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	err := repo.Repository.DeleteCourse(&models.DeleteCourseRequest{CourseID: courseID})
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	_, _ = w.Write([]byte("Successfully deleted course " + courseID))
}

// POST: /{courseID}/addInstructor
func addInstructorHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.AddInstructorRequest

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

	err = repo.Repository.AddInstructor(req)
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	_, _ = w.Write([]byte("Successfully added instructor to " + req.CourseID))
}

// POST: /{courseID}/removeInstructor
func removeInstructorHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.RemoveInstructorRequest

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

	err = repo.Repository.RemoveInstructor(req)
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	_, _ = w.Write([]byte("Successfully removed instructor from " + req.CourseID))
}

// GET: /{courseID}/modules
func listModulesHandler(w http.ResponseWriter, r *http.Request) {
	modules, err := repo.Repository.ListModules(chi.URLParam(r, "courseID"))
	if err != nil {
		respondError(w, err)
		return
	}

	render.JSON(w, r, modules)
}

// GET: /{courseID}/lessons
func listLessonsHandler(w http.ResponseWriter, r *http.Request) {
	lessons, err := repo.Repository.ListLessons(chi.URLParam(r, "courseID"))
	if err != nil {
		respondError(w, err)
		return
	}

	render.JSON(w, r, lessons)
}

// POST: /{courseID}/modules/create
func createModuleHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.CreateModuleRequest

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

	module, err := repo.Repository.CreateModule(req)
	if err != nil {
		respondError(w, err)
		return
	}

	render.JSON(w, r, module)
}

// POST: /{courseID}/lessons/create
func createLessonHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.CreateLessonRequest

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

	lesson, err := repo.Repository.CreateLesson(req)
	if err != nil {
		respondError(w, err)
		return
	}

	render.JSON(w, r, lesson)
}

// POST: /{courseID}/lessons/edit/{lessonID}
func editLessonHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.EditLessonRequest

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
	req.LessonID = chi.URLParam(r, "lessonID")

	err = repo.Repository.EditLesson(req)
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	_, _ = w.Write([]byte("Successfully edited lesson " + req.LessonID))
}

// POST: /{courseID}/lessons/delete/{lessonID}
func deleteLessonHandler(w http.ResponseWriter, r *http.Request) {
	req := &models.DeleteLessonRequest{
		CourseID: chi.URLParam(r, "courseID"),
		LessonID: chi.URLParam(r, "lessonID"),
	}

	err := repo.Repository.DeleteLesson(req)
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	_, _ = w.Write([]byte("Successfully deleted lesson " + req.LessonID))
}
