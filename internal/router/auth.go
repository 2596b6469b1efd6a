package router

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"coursehub/internal/auth"
	"coursehub/internal/config"
	"coursehub/internal/firebase"
	"coursehub/internal/models"
	repo "coursehub/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/golang/glog"
)

func AuthRoutes() *chi.Mux {
	router := chi.NewRouter()

	// Auth routes that require authentication
	router.Route("/", func(r chi.Router) {
		r.Use(auth.AuthCtx())

		// Information about the current user
		r.Get("/me", getMeHandler)
		r.Get("/{userID}", getUserHandler)

		// Update the current user's information
		r.Post("/update", updateUserHandler)

		// Notification dismissal
		r.Post("/clearNotification", clearNotificationHandler)
		r.Post("/clearAllNotifications", clearAllNotificationsHandler)
	})

	// Alter the current session. No auth middlewares required.
	router.Post("/session", createSessionHandler)
	router.Post("/signout", signOutHandler)

	return router
}

// GET: /me
func getMeHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	render.JSON(w, r, struct {
		*models.Profile
		ID string `json:"id"`
	}{user.Profile, user.ID})
}

// GET: /{userID}
func getUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	user, err := repo.Repository.GetUserByID(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	render.JSON(w, r, user)
}

// POST: /update
func updateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req *models.UpdateUserRequest

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	req.UserID = user.ID

	err = repo.Repository.UpdateUser(req)
	if err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	_, err = w.Write([]byte("successfully edited user " + req.UserID))
	if err != nil {
		glog.Warningf("failed to write response: %v\n", err)
	}
}

// POST: /clearNotification
func clearNotificationHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	var req *models.ClearNotificationRequest
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.UserID = user.ID

	err = repo.Repository.ClearNotification(req)
	if err != nil {
		glog.Warningln(err)
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	_, _ = w.Write([]byte("Successfully cleared notification"))
}

// POST: /clearAllNotifications
func clearAllNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}

	err = repo.Repository.ClearAllNotifications(&models.ClearAllNotificationsRequest{UserID: user.ID})
	if err != nil {
		glog.Warningln(err)
		respondError(w, err)
		return
	}

	w.WriteHeader(200)
	_, _ = w.Write([]byte("Successfully cleared notifications"))
}

// POST: /session
func createSessionHandler(w http.ResponseWriter, r *http.Request) {
	authClient, err := firebase.App.Auth(firebase.Context)
	if err != nil {
		log.Fatalf("error getting Auth client: %v\n", err)
	}

	var req struct {
		Token string `json:"token"`
	}

	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cookie, err := authClient.SessionCookie(firebase.Context, req.Token, config.Config.SessionCookieExpiration)
	if err != nil {
		http.Error(w, "failed to create a session cookie", http.StatusUnauthorized)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.Config.SessionCookieName,
		Value:    cookie,
		MaxAge:   int(config.Config.SessionCookieExpiration.Seconds()),
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: http.SameSiteNoneMode,
	})

	w.WriteHeader(200)
	_, _ = w.Write([]byte("success"))
}

// POST: /signout
func signOutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.Config.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   true,
		Path:     "/",
		SameSite: http.SameSiteNoneMode,
	})

	w.WriteHeader(200)
	_, _ = w.Write([]byte("success"))
}
