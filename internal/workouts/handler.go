package workouts

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
	router.HandleFunc("/workouts", handler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	router.HandleFunc("/workouts", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-workout")
	router.HandleFunc("/workouts/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("remove-workout")
}

func (handler *Handler) HandleList(w http.ResponseWriter, _ *http.Request) {
	workouts := handler.store.Snapshot().Workouts

	if len(workouts) == 0 {
		pkg.WriteJSONResponseOK(w, "[]")
		return
	}

	workoutsJson, err := json.Marshal(workouts)
	if err != nil {
		log.Errorf("marshal workouts error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, workoutsJson)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var workout store.WorkoutLog
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Errorf("add new workout, unmarshal workout json: %s", err)
		http.Error(w, "failed to add workout", http.StatusBadRequest)
		return
	}

	// the workout type is free text (the UI only suggests a fixed set),
	// but it cannot be empty
	if workout.Type == "" {
		http.Error(w, "error, workout type empty", http.StatusBadRequest)
		return
	}
	if workout.DurationMinutes < 0 || workout.CaloriesBurned < 0 {
		http.Error(w, "error, negative duration or calories", http.StatusBadRequest)
		return
	}
	if _, err := time.Parse(dateLayout, workout.Date); err != nil {
		http.Error(w, "error, invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	added := handler.store.AddWorkout(workout)

	handler.metrics.CounterWorkouts.Inc()

	log.Tracef("new workout added: [%s] [%s]: %s", added.Type, added.Date, added.ID)
	pkg.WriteResponse(w, pkg.ContentType.Text, fmt.Sprintf("added:%s", added.ID), http.StatusCreated)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	deleted := handler.store.DeleteWorkout(id)
	if deleted {
		pkg.WriteTextResponseOK(w, "true")
	} else {
		pkg.WriteTextResponseOK(w, "false")
	}
}
