package meals_test

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

	"github.com/fitlife-app/fitlife/internal/meals"
	"github.com/fitlife-app/fitlife/internal/store"
	"github.com/fitlife-app/fitlife/internal/telemetry/metrics"
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
	meals.NewHandler(appStore, metrics.NewTestManager()).SetupRoutes(router)
	return router, appStore
}

func TestHandler_HandleAdd(t *testing.T) {
	router, appStore := newTestRouter(t)

	meal := store.MealLog{
		Date:     "2024-01-01",
		Name:     "Oatmeal",
		Calories: 300,
		Type:     store.MealBreakfast,
		Time:     "08:00",
	}
	mealJson, err := json.Marshal(meal)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/meals", bytes.NewReader(mealJson))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), "added:"))

	state := appStore.Snapshot()
	require.Len(t, state.Meals, 1)
	assert.Equal(t, 300, state.Meals[0].Calories)
	assert.Equal(t, store.MealBreakfast, state.Meals[0].Type)
}

func TestHandler_HandleAdd_Invalid(t *testing.T) {
	router, appStore := newTestRouter(t)

	testCases := []struct {
		name string
		meal store.MealLog
	}{
		{name: "empty name", meal: store.MealLog{Date: "2024-01-01", Calories: 100}},
		{name: "negative calories", meal: store.MealLog{Date: "2024-01-01", Name: "x", Calories: -1}},
		{name: "bad date", meal: store.MealLog{Date: "01.01.2024", Name: "x", Calories: 100}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mealJson, err := json.Marshal(tc.meal)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest("POST", "/meals", bytes.NewReader(mealJson)))
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}

	assert.Empty(t, appStore.Snapshot().Meals)
}

func TestHandler_HandleList(t *testing.T) {
	router, appStore := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/meals", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())

	appStore.AddMeal(store.MealLog{Date: "2024-01-01", Name: "Oatmeal", Calories: 300})
	appStore.AddMeal(store.MealLog{Date: "2024-01-01", Name: "Salad", Calories: 250})

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/meals", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var listed []store.MealLog
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	// newest first
	assert.Equal(t, "Salad", listed[0].Name)
}

func TestHandler_HandleDelete(t *testing.T) {
	router, appStore := newTestRouter(t)

	added := appStore.AddMeal(store.MealLog{Date: "2024-01-01", Name: "Oatmeal", Calories: 300})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("DELETE", "/meals/"+added.ID, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "true", rr.Body.String())
	assert.Empty(t, appStore.Snapshot().Meals)

	// unknown id: no-op, reported as false
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("DELETE", "/meals/"+added.ID, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "false", rr.Body.String())
}
