package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelvault/internal/category"
	"reelvault/internal/classifier"
	"reelvault/internal/domain"
	"reelvault/internal/library"
	"reelvault/internal/session"
)

var testNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	return testRouterAt(t, testNow)
}

// testRouterAt builds a router whose libraries stamp reels at now. The
// handlers themselves use the wall clock.
func testRouterAt(t *testing.T, now time.Time) http.Handler {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	n := 0
	ids := func() (string, error) {
		n++
		return "reel-" + strconv.Itoa(n), nil
	}
	sessions := session.NewManager(classifier.NewPipeline(nil, log), nil, log,
		library.WithClock(func() time.Time { return now }),
		library.WithIDGenerator(ids))
	return NewRouter(sessions, log)
}

func do(t *testing.T, h http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthAndCategories(t *testing.T) {
	h := testRouter(t)

	w := do(t, h, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, h, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		Categories []category.Category `json:"categories"`
		Filters    []category.Category `json:"filters"`
	}](t, w)
	assert.Len(t, got.Categories, len(category.List()))
	assert.Equal(t, category.All, got.Filters[0])
}

func TestRequiresUser(t *testing.T) {
	h := testRouter(t)

	w := do(t, h, http.MethodGet, "/api/reels", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSaveAndListReels(t *testing.T) {
	h := testRouter(t)

	w := do(t, h, http.MethodPost, "/api/reels", "u1", SaveReelRequest{Text: "recipe: homemade pasta"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reel := decode[domain.SavedReel](t, w)
	assert.Equal(t, "reel-1", reel.ID)
	assert.Equal(t, "homemade pasta", reel.Title)
	assert.Equal(t, category.Recipes, reel.Category)
	assert.Equal(t, "2026-10-15", reel.Timestamp)
	assert.False(t, reel.Favorite)

	w = do(t, h, http.MethodGet, "/api/reels", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[ReelsResponse](t, w)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, category.All, list.Filter)
	require.Len(t, list.Reels, 1)

	w = do(t, h, http.MethodGet, "/api/reels", "u2", nil)
	assert.Empty(t, decode[ReelsResponse](t, w).Reels)
}

func TestSaveReel_Rejects(t *testing.T) {
	h := testRouter(t)

	w := do(t, h, http.MethodPost, "/api/reels", "u1", SaveReelRequest{Text: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/reels", bytes.NewBufferString("{"))
	req.Header.Set(UserHeader, "u1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFilterAndSearch(t *testing.T) {
	h := testRouter(t)
	for _, text := range []string{"recipe: pasta", "movie: alien", "recipe: toast"} {
		require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/api/reels", "u1", SaveReelRequest{Text: text}).Code)
	}

	w := do(t, h, http.MethodPut, "/api/filter", "u1", FilterRequest{Category: "recipes"})
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[ReelsResponse](t, w)
	assert.Equal(t, category.Recipes, view.Filter)
	assert.Len(t, view.Reels, 2)
	assert.Equal(t, 3, view.Total)

	w = do(t, h, http.MethodPut, "/api/search", "u1", SearchRequest{Query: "TOAST"})
	view = decode[ReelsResponse](t, w)
	require.Len(t, view.Reels, 1)
	assert.Equal(t, "toast", view.Reels[0].Title)

	w = do(t, h, http.MethodPut, "/api/search", "u1", SearchRequest{})
	assert.Len(t, decode[ReelsResponse](t, w).Reels, 2)

	w = do(t, h, http.MethodPut, "/api/filter", "u1", FilterRequest{Category: "All"})
	assert.Len(t, decode[ReelsResponse](t, w).Reels, 3)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/api/filter", "u1", FilterRequest{Category: "Cartoons"}).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPut, "/api/filter", "u1", FilterRequest{}).Code)
}

func TestFavoriteAndUpdate(t *testing.T) {
	h := testRouter(t)
	do(t, h, http.MethodPost, "/api/reels", "u1", SaveReelRequest{Text: "book: dune"})

	w := do(t, h, http.MethodPost, "/api/reels/reel-1/favorite", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[domain.SavedReel](t, w).Favorite)

	w = do(t, h, http.MethodGet, "/api/reels/favorites", "u1", nil)
	favs := decode[struct {
		Reels []domain.SavedReel `json:"reels"`
	}](t, w)
	assert.Len(t, favs.Reels, 1)

	title := "Dune"
	w = do(t, h, http.MethodPatch, "/api/reels/reel-1", "u1", UpdateReelRequest{Title: &title})
	require.Equal(t, http.StatusOK, w.Code)
	reel := decode[domain.SavedReel](t, w)
	assert.Equal(t, "Dune", reel.Title)
	assert.Equal(t, "book: dune", reel.Summary)
	assert.True(t, reel.Favorite)

	empty := ""
	w = do(t, h, http.MethodPatch, "/api/reels/reel-1", "u1", UpdateReelRequest{Summary: &empty})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/reels/missing/favorite", "u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrashLifecycle(t *testing.T) {
	h := testRouter(t)
	do(t, h, http.MethodPost, "/api/reels", "u1", SaveReelRequest{Text: "note: one"})
	do(t, h, http.MethodPost, "/api/reels", "u1", SaveReelRequest{Text: "note: two"})

	w := do(t, h, http.MethodDelete, "/api/reels/reel-1", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	item := decode[TrashItem](t, w)
	assert.True(t, testNow.Add(domain.TrashRetention).Equal(item.ExpiresAt))

	w = do(t, h, http.MethodGet, "/api/trash?order=oldest", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	trash := decode[TrashResponse](t, w)
	require.Len(t, trash.Items, 1)
	assert.Equal(t, 30, trash.RetentionDays)
	assert.Equal(t, "reel-1", trash.Items[0].ID)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/trash?order=sideways", "u1", nil).Code)

	w = do(t, h, http.MethodPost, "/api/trash/reel-1/restore", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "one", decode[domain.SavedReel](t, w).Title)

	w = do(t, h, http.MethodGet, "/api/reels", "u1", nil)
	list := decode[ReelsResponse](t, w)
	assert.Equal(t, "reel-1", list.Reels[0].ID)
	assert.Zero(t, list.Trashed)

	do(t, h, http.MethodDelete, "/api/reels/reel-1", "u1", nil)
	do(t, h, http.MethodDelete, "/api/reels/reel-2", "u1", nil)

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/trash/reel-1", "u1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/api/trash/reel-1", "u1", nil).Code)

	w = do(t, h, http.MethodDelete, "/api/trash", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[ReelsResponse](t, w)
	assert.Zero(t, view.Trashed)
	assert.Zero(t, view.Total)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/trash/reel-2/restore", "u1", nil).Code)
}

func TestTrash_FlagsExpiredReels(t *testing.T) {
	h := testRouterAt(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	do(t, h, http.MethodPost, "/api/reels", "u1", SaveReelRequest{Text: "note: old"})

	w := do(t, h, http.MethodDelete, "/api/reels/reel-1", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[TrashItem](t, w).Expired)

	w = do(t, h, http.MethodGet, "/api/trash", "u1", nil)
	trash := decode[TrashResponse](t, w)
	require.Len(t, trash.Items, 1)
	assert.True(t, trash.Items[0].Expired)
	assert.Zero(t, trash.Items[0].DaysLeft)
}

func TestForgetLibrary(t *testing.T) {
	h := testRouter(t)
	do(t, h, http.MethodPost, "/api/reels", "u1", SaveReelRequest{Text: "recipe: pasta"})
	do(t, h, http.MethodPost, "/api/reels", "u1", SaveReelRequest{Text: "movie: alien"})
	do(t, h, http.MethodDelete, "/api/reels/reel-1", "u1", nil)
	do(t, h, http.MethodPost, "/api/reels", "u2", SaveReelRequest{Text: "book: dune"})

	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodDelete, "/api/library", "", nil).Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/api/library", "u1", nil).Code)

	view := decode[ReelsResponse](t, do(t, h, http.MethodGet, "/api/reels", "u1", nil))
	assert.Zero(t, view.Total)
	assert.Zero(t, view.Trashed)

	view = decode[ReelsResponse](t, do(t, h, http.MethodGet, "/api/reels", "u2", nil))
	assert.Equal(t, 1, view.Total)
}
