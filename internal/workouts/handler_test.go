package workouts_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/fitlife-app/fitlife/internal/store"
	"github.com/fitlife-app/fitlife/internal/telemetry/metrics"
	"github.com/fitlife-app/fitlife/internal/workouts"
)

func TestMain(m *testing.M) {
	m.Run()
	goleak.VerifyTestMain(m)
}

func newTestRouter(t *testing.T) (*mux.Router, *store.Store) {
	t.Helper()
	appStore, err := store.New(t.TempDir())
	require.NoError(t, err)

	router := mux.NewRouter()
	workouts.NewHandler(appStore, metrics.NewTestManager()).SetupRoutes(router)
	return router, appStore
}

func TestHandler_HandleAdd(t *testing.T) {
	router, appStore := newTestRouter(t)

	workout := store.WorkoutLog{
		Date:            "2024-01-01",
		Type:            "Running",
		DurationMinutes: 30,
		CaloriesBurned:  280,
	}
	workoutJson, err := json.Marshal(workout)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/workouts", bytes.NewReader(workoutJson))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), "added:"))

	state := appStore.Snapshot()
	require.Len(t, state.Workouts, 1)
	assert.Equal(t, "Running", state.Workouts[0].Type)
	assert.Equal(t, 280, state.Workouts[0].CaloriesBurned)
}

func TestHandler_HandleAdd_Invalid(t *testing.T) {
	router, appStore := newTestRouter(t)

	testCases := []struct {
		name    string
		workout store.WorkoutLog
	}{
		{name: "empty type", workout: store.WorkoutLog{Date: "2024-01-01", DurationMinutes: 30}},
		{name: "negative duration", workout: store.WorkoutLog{Date: "2024-01-01", Type: "Yoga", DurationMinutes: -5}},
		{name: "bad date", workout: store.WorkoutLog{Date: "bad", Type: "Yoga", DurationMinutes: 30}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			workoutJson, err := json.Marshal(tc.workout)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest("POST", "/workouts", bytes.NewReader(workoutJson)))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	assert.Empty(t, appStore.Snapshot().Workouts)
}

func TestHandler_HandleListAndDelete(t *testing.T) {
	router, appStore := newTestRouter(t)

	w1 := appStore.AddWorkout(store.WorkoutLog{Date: "2024-01-01", Type: "Running", DurationMinutes: 30, CaloriesBurned: 280})
	appStore.AddWorkout(store.WorkoutLog{Date: "2024-01-02", Type: "Cycling", DurationMinutes: 45, CaloriesBurned: 400})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/workouts", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var listed []store.WorkoutLog
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "Cycling", listed[0].Type)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("DELETE", "/workouts/"+w1.ID, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "true", rr.Body.String())
	assert.Len(t, appStore.Snapshot().Workouts, 1)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("DELETE", "/workouts/nope", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "false", rr.Body.String())
}
