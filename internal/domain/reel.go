package domain

import (
	"time"

	"reelvault/internal/category"
)

// TrashRetention is how long a deleted reel stays recoverable in the trash.
const TrashRetention = 30 * 24 * time.Hour

// DateLayout is the calendar-date layout used for SavedReel.Timestamp.
const DateLayout = time.DateOnly

// SavedReel is a classified piece of short-form video content kept in a user's library.
type SavedReel struct {
	// ID is assigned at creation and never changes.
	ID string `json:"id"`

	// Title is at most 50 display characters.
	Title string `json:"title"`

	// Summary as produced by classification or edited by the user.
	Summary string `json:"summary"`

	Category category.Category `json:"category"`

	// Timestamp is the creation date (YYYY-MM-DD), without a time part.
	Timestamp string `json:"timestamp"`

	Favorite bool `json:"favorite"`

	// SourceURL is set only when the submitted input was a link.
	SourceURL string `json:"source_url,omitempty"`
}

// TrashedReel is a soft-deleted reel waiting in the trash.
type TrashedReel struct {
	SavedReel

	DeletedAt time.Time `json:"deleted_at"`

	// ExpiresAt is always DeletedAt + TrashRetention. Nothing purges expired
	// reels automatically; the value is informational.
	ExpiresAt time.Time `json:"expires_at"`
}

// Trash stamps reel as deleted at the given instant.
func Trash(reel SavedReel, at time.Time) TrashedReel {
	return TrashedReel{
		SavedReel: reel,
		DeletedAt: at,
		ExpiresAt: at.Add(TrashRetention),
	}
}

// Restore drops the trash stamps and returns the original reel.
func (t TrashedReel) Restore() SavedReel {
	return t.SavedReel
}

// Expired reports whether the retention window has passed at the given instant.
func (t TrashedReel) Expired(at time.Time) bool {
	return !at.Before(t.ExpiresAt)
}

// DaysLeft returns the number of whole days before the reel expires, never negative.
func (t TrashedReel) DaysLeft(at time.Time) int {
	left := t.ExpiresAt.Sub(at)
	if left <= 0 {
		return 0
	}
	return int(left / (24 * time.Hour))
}
