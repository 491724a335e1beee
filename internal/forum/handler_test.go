package forum

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
)

func TestMain(m *testing.M) {
	m.Run()
	goleak.VerifyTestMain(m)
}

func newTestRouter(t *testing.T, generator commentGenerator) (*mux.Router, *store.Store) {
	t.Helper()
	appStore, err := store.New(t.TempDir())
	require.NoError(t, err)

	router := mux.NewRouter()
	NewHandler(appStore, generator, metrics.NewTestManager()).SetupRoutes(router)
	return router, appStore
}

func TestHandler_HandleList_Seeded(t *testing.T) {
	router, _ := newTestRouter(t, newGeneratorMock(""))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/posts", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var posts []store.ForumPost
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &posts))
	require.Len(t, posts, 2)
	assert.Equal(t, "Best time to do cardio?", posts[0].Title)
	assert.Equal(t, 12, posts[1].Likes)
}

func TestHandler_HandleAdd(t *testing.T) {
	router, appStore := newTestRouter(t, newGeneratorMock(""))

	appStore.Login(store.UserProfile{Name: "Poster", Age: 30, Height: 175, Weight: 70})

	body := `{"title":"My progress","content":"Down 2kg this month","category":"Motivation"}`
	req := httptest.NewRequest("POST", "/posts", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	state := appStore.Snapshot()
	require.Len(t, state.Posts, 3)
	newest := state.Posts[0]
	assert.Equal(t, "My progress", newest.Title)
	// author comes from the logged in user, never from the request
	assert.Equal(t, "Poster", newest.Author)
	assert.Equal(t, "Motivation", newest.Category)
	assert.Zero(t, newest.Likes)
	assert.NotZero(t, newest.CreatedAt)
}

func TestHandler_HandleAdd_Invalid(t *testing.T) {
	router, appStore := newTestRouter(t, newGeneratorMock(""))

	// no user logged in
	body := `{"title":"t","content":"c"}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/posts", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	appStore.Login(store.UserProfile{Name: "Poster", Age: 30, Height: 175, Weight: 70})

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/posts", strings.NewReader(`{"content":"c"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/posts", strings.NewReader(`{"title":"t"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Len(t, appStore.Snapshot().Posts, 2)
}

func TestHandler_HandleAdd_DefaultCategory(t *testing.T) {
	router, appStore := newTestRouter(t, newGeneratorMock(""))
	appStore.Login(store.UserProfile{Name: "Poster", Age: 30, Height: 175, Weight: 70})

	body := `{"title":"t","content":"c"}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/posts", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "General", appStore.Snapshot().Posts[0].Category)
}

func TestHandler_HandleComment(t *testing.T) {
	generator := newGeneratorMock("Nice one, keep going!")
	router, appStore := newTestRouter(t, generator)

	state := appStore.Snapshot()
	postID := state.Posts[0].ID

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/posts/"+postID+"/comment", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		PostID  string `json:"postId"`
		Comment string `json:"comment"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, postID, resp.PostID)
	assert.Equal(t, "Nice one, keep going!", resp.Comment)
	assert.Equal(t, state.Posts[0].Content, generator.lastContent)
}

func TestHandler_HandleComment_UnknownPost(t *testing.T) {
	router, _ := newTestRouter(t, newGeneratorMock("x"))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("POST", "/posts/no-such-post/comment", bytes.NewReader(nil)))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
