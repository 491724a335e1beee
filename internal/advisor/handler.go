package advisor

import (
	"encoding/json"
	"net/http"

	"github.com/fitlife-app/fitlife/internal/store"
	"github.com/fitlife-app/fitlife/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	client *Client
	store  *store.Store
}

func NewHandler(client *Client, appStore *store.Store) *Handler {
	return &Handler{
		client: client,
		store:  appStore,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/diet/plan", handler.HandleDietPlan).Methods("GET", "OPTIONS").Name("diet-plan")
}

// HandleDietPlan asks the advisor for a plan based on the current profile
// and returns the text together with its classified display lines. The
// advisor degrades to fixed fallback text on failure, so this endpoint
// never reports an upstream error.
func (handler *Handler) HandleDietPlan(w http.ResponseWriter, r *http.Request) {
	state := handler.store.Snapshot()
	if state.User == nil {
		http.Error(w, "no user logged in", http.StatusBadRequest)
		return
	}

	advice := handler.client.DietAdvice(r.Context(), *state.User)

	resp := struct {
		Advice string `json:"advice"`
		Lines  []Line `json:"lines"`
	}{
		Advice: advice,
		Lines:  ClassifyLines(advice),
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal diet plan error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
