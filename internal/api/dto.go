package api

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"reelvault/internal/apperr"
	"reelvault/internal/category"
	"reelvault/internal/domain"
	"reelvault/internal/library"
)

// ReelsResponse is the visible part of a library together with the view
// state that produced it.
type ReelsResponse struct {
	Reels   []domain.SavedReel `json:"reels"`
	Total   int                `json:"total"`
	Filter  category.Category  `json:"filter"`
	Query   string             `json:"query"`
	Trashed int                `json:"trashed"`
}

func reelsResponse(snap library.Snapshot) ReelsResponse {
	return ReelsResponse{
		Reels:   snap.Visible,
		Total:   len(snap.Active),
		Filter:  snap.Filter,
		Query:   snap.Query,
		Trashed: len(snap.Trashed),
	}
}

// TrashItem is a trashed reel with its remaining retention. Expired items
// stay until purged; nothing removes them automatically.
type TrashItem struct {
	domain.TrashedReel
	DaysLeft int  `json:"days_left"`
	Expired  bool `json:"expired"`
}

func trashItem(t domain.TrashedReel, now time.Time) TrashItem {
	return TrashItem{TrashedReel: t, DaysLeft: t.DaysLeft(now), Expired: t.Expired(now)}
}

// TrashResponse lists the trash in the requested order.
type TrashResponse struct {
	Items         []TrashItem `json:"items"`
	RetentionDays int         `json:"retention_days"`
}

func trashResponse(items []domain.TrashedReel, now time.Time) TrashResponse {
	out := make([]TrashItem, 0, len(items))
	for _, t := range items {
		out = append(out, trashItem(t, now))
	}
	return TrashResponse{
		Items:         out,
		RetentionDays: int(domain.TrashRetention / (24 * time.Hour)),
	}
}

// SaveReelRequest is the body of POST /api/reels.
type SaveReelRequest struct {
	Text string `json:"text"`
}

// FilterRequest is the body of PUT /api/filter.
type FilterRequest struct {
	Category string `json:"category"`
}

func (r FilterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Category, validation.Required),
	)
}

// SearchRequest is the body of PUT /api/search. An empty query clears the search.
type SearchRequest struct {
	Query string `json:"query"`
}

// UpdateReelRequest is the body of PATCH /api/reels/{id}.
type UpdateReelRequest struct {
	Title   *string `json:"title"`
	Summary *string `json:"summary"`
}

func (r UpdateReelRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty),
		validation.Field(&r.Summary, validation.NilOrNotEmpty),
	)
}

func (r UpdateReelRequest) patch() library.Patch {
	return library.Patch{Title: r.Title, Summary: r.Summary}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
}
