package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"reelvault/internal/apperr"
	"reelvault/internal/category"
	"reelvault/internal/library"
	"reelvault/internal/session"
)

// Handler holds API route handlers. The library of the calling user is
// resolved by UserLibrary before any /api/reels, /api/filter, /api/search or
// /api/trash handler runs.
type Handler struct {
	sessions *session.Manager
	log      logrus.FieldLogger
	now      func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(sessions *session.Manager, logger logrus.FieldLogger) *Handler {
	return &Handler{sessions: sessions, log: logger, now: time.Now}
}

// Categories handles GET /api/categories.
func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.log, http.StatusOK, map[string]any{
		"categories": category.List(),
		"filters":    append([]category.Category{category.All}, category.List()...),
	})
}

// ListReels handles GET /api/reels.
func (h *Handler) ListReels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, reelsResponse(libraryFrom(r.Context()).Snapshot()))
}

// SaveReel handles POST /api/reels.
func (h *Handler) SaveReel(w http.ResponseWriter, r *http.Request) {
	var req SaveReelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, h.log, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}
	reel, err := libraryFrom(r.Context()).SaveReel(r.Context(), req.Text)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusCreated, reel)
}

// Favorites handles GET /api/reels/favorites.
func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, map[string]any{
		"reels": libraryFrom(r.Context()).Snapshot().Favorites(),
	})
}

// UpdateReel handles PATCH /api/reels/{id}.
func (h *Handler) UpdateReel(w http.ResponseWriter, r *http.Request) {
	var req UpdateReelRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, h.log, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, h.log, invalid(err))
		return
	}
	reelID := chi.URLParam(r, "id")
	snap, err := libraryFrom(r.Context()).UpdateReel(reelID, req.patch())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	reel, _ := snap.Find(reelID)
	writeJSON(w, h.log, http.StatusOK, reel)
}

// DeleteReel handles DELETE /api/reels/{id}. The reel moves to the trash.
func (h *Handler) DeleteReel(w http.ResponseWriter, r *http.Request) {
	reelID := chi.URLParam(r, "id")
	snap, err := libraryFrom(r.Context()).DeleteReel(reelID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	trashed, _ := snap.FindTrashed(reelID)
	writeJSON(w, h.log, http.StatusOK, trashItem(trashed, h.now()))
}

// ToggleFavorite handles POST /api/reels/{id}/favorite.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	reelID := chi.URLParam(r, "id")
	snap, err := libraryFrom(r.Context()).ToggleFavorite(reelID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	reel, _ := snap.Find(reelID)
	writeJSON(w, h.log, http.StatusOK, reel)
}

// SetFilter handles PUT /api/filter.
func (h *Handler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req FilterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, h.log, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, h.log, invalid(err))
		return
	}
	cat, err := category.ParseFilter(req.Category)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	snap, err := libraryFrom(r.Context()).FilterByCategory(cat)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, h.log, http.StatusOK, reelsResponse(snap))
}

// SetSearch handles PUT /api/search.
func (h *Handler) SetSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, h.log, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}
	writeJSON(w, h.log, http.StatusOK, reelsResponse(libraryFrom(r.Context()).SearchReels(req.Query)))
}

// ListTrash handles GET /api/trash?order=newest|oldest.
func (h *Handler) ListTrash(w http.ResponseWriter, r *http.Request) {
	order, ok := library.ParseTrashOrder(r.URL.Query().Get("order"))
	if !ok {
		writeError(w, h.log, fmt.Errorf("order must be newest or oldest: %w", apperr.ErrInvalidInput))
		return
	}
	items := libraryFrom(r.Context()).Snapshot().TrashSorted(order)
	writeJSON(w, h.log, http.StatusOK, trashResponse(items, h.now()))
}

// EmptyTrash handles DELETE /api/trash.
func (h *Handler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.log, http.StatusOK, reelsResponse(libraryFrom(r.Context()).EmptyTrash()))
}

// Restore handles POST /api/trash/{id}/restore.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	reelID := chi.URLParam(r, "id")
	snap, err := libraryFrom(r.Context()).RestoreFromTrash(reelID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	reel, _ := snap.Find(reelID)
	writeJSON(w, h.log, http.StatusOK, reel)
}

// Purge handles DELETE /api/trash/{id}.
func (h *Handler) Purge(w http.ResponseWriter, r *http.Request) {
	reelID := chi.URLParam(r, "id")
	if _, err := libraryFrom(r.Context()).PermanentlyDeleteReel(reelID); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ForgetLibrary handles DELETE /api/library. Active reels and trash are both
// removed for good.
func (h *Handler) ForgetLibrary(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Forget(r.Context(), r.Header.Get(UserHeader)); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
