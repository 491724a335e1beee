package forum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fitlife-app/fitlife/internal/store"
	"github.com/fitlife-app/fitlife/internal/telemetry/metrics"
	"github.com/fitlife-app/fitlife/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// commentGenerator produces a short reply to a post. Implementations
// degrade to fallback text on failure instead of returning errors.
type commentGenerator interface {
	ForumComment(ctx context.Context, postContent string) string
}

type Handler struct {
	store     *store.Store
	generator commentGenerator
	metrics   *metrics.Manager
}

func NewHandler(appStore *store.Store, generator commentGenerator, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		store:     appStore,
		generator: generator,
		metrics:   metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/posts", handler.HandleList).Methods("GET", "OPTIONS").Name("list-posts")
	router.HandleFunc("/posts", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-post")
	router.HandleFunc("/posts/{id}/comment", handler.HandleComment).Methods("POST", "OPTIONS").Name("post-comment")
}

func (handler *Handler) HandleList(w http.ResponseWriter, _ *http.Request) {
	posts := handler.store.Snapshot().Posts

	if len(posts) == 0 {
		pkg.WriteJSONResponseOK(w, "[]")
		return
	}

	postsJson, err := json.Marshal(posts)
	if err != nil {
		log.Errorf("marshal posts error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, postsJson)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var newPost struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Category string `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&newPost); err != nil {
		log.Errorf("add new post, unmarshal post json: %s", err)
		http.Error(w, "failed to add post", http.StatusBadRequest)
		return
	}

	if newPost.Title == "" {
		http.Error(w, "error, title empty", http.StatusBadRequest)
		return
	}
	if newPost.Content == "" {
		http.Error(w, "error, content empty", http.StatusBadRequest)
		return
	}
	if newPost.Category == "" {
		newPost.Category = "General"
	}

	// the author is always the current user, not whatever the client claims
	state := handler.store.Snapshot()
	if state.User == nil {
		http.Error(w, "error, no user logged in", http.StatusBadRequest)
		return
	}

	added := handler.store.AddPost(store.ForumPost{
		Title:    newPost.Title,
		Content:  newPost.Content,
		Author:   state.User.Name,
		Category: newPost.Category,
	})

	handler.metrics.CounterPosts.Inc()

	log.Tracef("new post added: [%s] by [%s]: %s", added.Title, added.Author, added.ID)
	pkg.WriteResponse(w, pkg.ContentType.Text, fmt.Sprintf("added:%s", added.ID), http.StatusCreated)
}

// HandleComment asks the comment generator for a short reply to the given
// post. Generation failures surface only as degraded text, never as errors.
func (handler *Handler) HandleComment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	id := vars["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	var post *store.ForumPost
	for _, p := range handler.store.Snapshot().Posts {
		if p.ID == id {
			post = &p
			break
		}
	}
	if post == nil {
		http.Error(w, "post not found", http.StatusNotFound)
		return
	}

	comment := handler.generator.ForumComment(r.Context(), post.Content)

	resp := struct {
		PostID  string `json:"postId"`
		Comment string `json:"comment"`
	}{
		PostID:  post.ID,
		Comment: comment,
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal comment error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}
