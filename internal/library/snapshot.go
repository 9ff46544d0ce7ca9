package library

import (
	"sort"
	"strings"

	"reelvault/internal/category"
	"reelvault/internal/domain"
)

// TrashOrder selects how TrashSorted orders deleted reels.
type TrashOrder int

const (
	NewestFirst TrashOrder = iota
	OldestFirst
)

// ParseTrashOrder accepts "newest" (default, also for "") and "oldest".
func ParseTrashOrder(s string) (TrashOrder, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "newest":
		return NewestFirst, true
	case "oldest":
		return OldestFirst, true
	default:
		return NewestFirst, false
	}
}

// Snapshot is an immutable view of a library. Its slices are never written
// after the snapshot is published; callers must not modify them either.
type Snapshot struct {
	// Active holds the library, newest first.
	Active []domain.SavedReel `json:"active"`
	// Trashed holds soft-deleted reels in no particular order.
	Trashed []domain.TrashedReel `json:"trashed"`
	// Filter is a category or category.All.
	Filter category.Category `json:"filter"`
	Query  string            `json:"query"`
	// Visible is Active restricted by Filter and Query.
	Visible []domain.SavedReel `json:"visible"`
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Active:  []domain.SavedReel{},
		Trashed: []domain.TrashedReel{},
		Filter:  category.All,
		Visible: []domain.SavedReel{},
	}
}

// withView returns s with Visible recomputed from its other fields.
func (s Snapshot) withView() Snapshot {
	s.Visible = visible(s.Active, s.Filter, s.Query)
	return s
}

func visible(active []domain.SavedReel, filter category.Category, query string) []domain.SavedReel {
	q := strings.ToLower(query)
	out := make([]domain.SavedReel, 0, len(active))
	for _, reel := range active {
		if filter != category.All && reel.Category != filter {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(reel.Title), q) &&
			!strings.Contains(strings.ToLower(reel.Summary), q) {
			continue
		}
		out = append(out, reel)
	}
	return out
}

// Find returns the active reel with the given id.
func (s Snapshot) Find(id string) (domain.SavedReel, bool) {
	if i := indexOf(s.Active, id); i >= 0 {
		return s.Active[i], true
	}
	return domain.SavedReel{}, false
}

// FindTrashed returns the trashed reel with the given id.
func (s Snapshot) FindTrashed(id string) (domain.TrashedReel, bool) {
	if i := indexOfTrashed(s.Trashed, id); i >= 0 {
		return s.Trashed[i], true
	}
	return domain.TrashedReel{}, false
}

// Favorites returns the favorite active reels, newest first. It ignores the
// current filter and query.
func (s Snapshot) Favorites() []domain.SavedReel {
	out := make([]domain.SavedReel, 0)
	for _, reel := range s.Active {
		if reel.Favorite {
			out = append(out, reel)
		}
	}
	return out
}

// TrashSorted returns a sorted copy of the trash, ordered by deletion time.
func (s Snapshot) TrashSorted(order TrashOrder) []domain.TrashedReel {
	out := make([]domain.TrashedReel, len(s.Trashed))
	copy(out, s.Trashed)
	sort.SliceStable(out, func(i, j int) bool {
		if order == OldestFirst {
			return out[i].DeletedAt.Before(out[j].DeletedAt)
		}
		return out[i].DeletedAt.After(out[j].DeletedAt)
	})
	return out
}

func indexOf(reels []domain.SavedReel, id string) int {
	for i, r := range reels {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func indexOfTrashed(reels []domain.TrashedReel, id string) int {
	for i, r := range reels {
		if r.ID == id {
			return i
		}
	}
	return -1
}
