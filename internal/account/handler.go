package account

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fitlife-app/fitlife/internal/auth"
	"github.com/fitlife-app/fitlife/internal/store"
	"github.com/fitlife-app/fitlife/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// TokenHeader carries the session token issued at login
const TokenHeader = "X-FITLIFE-TOKEN"

type Handler struct {
	store       *store.Store
	authService *auth.Service
}

func NewHandler(appStore *store.Store, authService *auth.Service) *Handler {
	return &Handler{
		store:       appStore,
		authService: authService,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/account/login", handler.HandleLogin).Methods("POST", "OPTIONS").Name("login")
	router.HandleFunc("/account/logout", handler.HandleLogout).Methods("GET", "OPTIONS").Name("logout")
	router.HandleFunc("/account/profile", handler.HandleUpdateProfile).Methods("PUT", "OPTIONS").Name("update-profile")
	router.HandleFunc("/account/me", handler.HandleMe).Methods("GET", "OPTIONS").Name("me")
}

// HandleLogin is a simulated login: whatever profile the client sends in
// becomes the current user. Only basic shape checks happen here, the store
// itself accepts the profile as given.
func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var profile store.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		log.Errorf("login, unmarshal profile json: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}

	if badField := validateProfile(profile); badField != "" {
		http.Error(w, fmt.Sprintf("error, invalid %s", badField), http.StatusBadRequest)
		return
	}

	handler.store.Login(profile)

	token, err := handler.authService.Login(time.Now())
	if err != nil {
		log.Errorf("login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	log.Tracef("new login success for: %s", profile.Name)
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"token": "%s"}`, token))
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "GET, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if token := r.Header.Get(TokenHeader); token != "" {
		if loggedOut := handler.authService.Logout(token); !loggedOut {
			log.Tracef("logout: unknown token [%s]", token)
		}
	}

	// meals, workouts and posts survive the logout, only the user is cleared
	handler.store.Logout()

	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "PUT, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	// the store replaces the user unconditionally, so the no-op guard
	// for the logged-out case lives here at the boundary
	if !handler.store.Snapshot().IsAuthenticated {
		http.Error(w, "error, no user logged in", http.StatusBadRequest)
		return
	}

	token := r.Header.Get(TokenHeader)
	if !handler.authService.IsLogged(token) {
		log.Tracef("update profile: invalid or missing token")
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var profile store.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		log.Errorf("update profile, unmarshal profile json: %s", err)
		http.Error(w, "update profile failed", http.StatusBadRequest)
		return
	}

	if badField := validateProfile(profile); badField != "" {
		http.Error(w, fmt.Sprintf("error, invalid %s", badField), http.StatusBadRequest)
		return
	}

	handler.store.UpdateProfile(profile)

	log.Tracef("profile updated for: %s", profile.Name)
	pkg.WriteTextResponseOK(w, "updated")
}

func (handler *Handler) HandleMe(w http.ResponseWriter, _ *http.Request) {
	state := handler.store.Snapshot()

	resp := struct {
		User            *store.UserProfile `json:"user"`
		IsAuthenticated bool               `json:"isAuthenticated"`
	}{
		User:            state.User,
		IsAuthenticated: state.IsAuthenticated,
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal me response error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// validateProfile returns the name of the first invalid field, or empty
// when the profile is acceptable. Input coercion is the boundary's job,
// the store performs no validation at all.
func validateProfile(profile store.UserProfile) string {
	switch {
	case profile.Name == "":
		return "name"
	case profile.Age <= 0:
		return "age"
	case profile.Height <= 0:
		return "height"
	case profile.Weight <= 0:
		return "weight"
	default:
		return ""
	}
}
