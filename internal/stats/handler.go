package stats

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fitlife-app/fitlife/internal/store"
	"github.com/fitlife-app/fitlife/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	store *store.Store
	// injectable for tests, real clock otherwise
	now func() time.Time
}

func NewHandler(appStore *store.Store) *Handler {
	return &Handler{
		store: appStore,
		now:   time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/stats/daily/{date}", handler.HandleDaily).Methods("GET", "OPTIONS").Name("daily-stats")
	router.HandleFunc("/stats/weekly", handler.HandleWeekly).Methods("GET", "OPTIONS").Name("weekly-stats")
	router.HandleFunc("/stats/bmi", handler.HandleBMI).Methods("GET", "OPTIONS").Name("bmi")
	router.HandleFunc("/stats/summary", handler.HandleSummary).Methods("GET", "OPTIONS").Name("dashboard-summary")
}

func (handler *Handler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	date := vars["date"]
	if _, err := time.Parse(dateLayout, date); err != nil {
		log.Errorf("handle daily stats, invalid date [%s]: %s", date, err)
		http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	balance := BalanceForDate(handler.store.Snapshot(), date)
	balanceJson, err := json.Marshal(balance)
	if err != nil {
		log.Errorf("marshal daily balance error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, balanceJson)
}

func (handler *Handler) HandleWeekly(w http.ResponseWriter, _ *http.Request) {
	series := WeeklySeries(handler.store.Snapshot(), handler.now())

	weekly := struct {
		Series   []DailyBalance `json:"series"`
		Averages WeeklyAverages `json:"averages"`
	}{
		Series:   series,
		Averages: Averages(series),
	}

	weeklyJson, err := json.Marshal(weekly)
	if err != nil {
		log.Errorf("marshal weekly stats error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, weeklyJson)
}

func (handler *Handler) HandleBMI(w http.ResponseWriter, _ *http.Request) {
	state := handler.store.Snapshot()
	bmi, category := ProfileBMI(state.User)

	resp := struct {
		BMI      float64     `json:"bmi"`
		Category BMICategory `json:"category"`
	}{
		BMI:      bmi,
		Category: category,
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal bmi error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, _ *http.Request) {
	summary := DashboardSummary(handler.store.Snapshot(), handler.now())

	summaryJson, err := json.Marshal(summary)
	if err != nil {
		log.Errorf("marshal dashboard summary error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, summaryJson)
}
