package meals

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fitlife-app/fitlife/internal/store"
	"github.com/fitlife-app/fitlife/internal/telemetry/metrics"
	"github.com/fitlife-app/fitlife/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type Handler struct {
	store   *store.Store
	metrics *metrics.Manager
}

func NewHandler(appStore *store.Store, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		store:   appStore,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/meals", handler.HandleList).Methods("GET", "OPTIONS").Name("list-meals")
	router.HandleFunc("/meals", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-meal")
	router.HandleFunc("/meals/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-meal")
}

func (handler *Handler) HandleList(w http.ResponseWriter, _ *http.Request) {
	meals := handler.store.Snapshot().Meals

	if len(meals) == 0 {
		pkg.WriteJSONResponseOK(w, "[]")
		return
	}

	mealsJson, err := json.Marshal(meals)
	if err != nil {
		log.Errorf("marshal meals error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, mealsJson)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var meal store.MealLog
	if err := json.NewDecoder(r.Body).Decode(&meal); err != nil {
		log.Errorf("add new meal, unmarshal meal json: %s", err)
		http.Error(w, "failed to add meal", http.StatusBadRequest)
		return
	}

	// input checks belong here at the boundary, the store takes values as given
	if meal.Name == "" {
		http.Error(w, "error, meal name empty", http.StatusBadRequest)
		return
	}
	if meal.Calories < 0 {
		http.Error(w, "error, calories negative", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse(dateLayout, meal.Date); err != nil {
		http.Error(w, "error, invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	added := handler.store.AddMeal(meal)

	handler.metrics.CounterMeals.Inc()

	log.Tracef("new meal added: [%s] [%s]: %s", added.Name, added.Date, added.ID)
	pkg.WriteResponse(w, pkg.ContentType.Text, fmt.Sprintf("added:%s", added.ID), http.StatusCreated)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	// deleting something already gone is a no-op, not an error
	deleted := handler.store.DeleteMeal(id)
	if deleted {
		pkg.WriteTextResponseOK(w, "true")
	} else {
		pkg.WriteTextResponseOK(w, "false")
	}
}
