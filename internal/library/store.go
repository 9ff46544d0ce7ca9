// Package library owns a user's collection of saved reels: the active list,
// the trash, and the category filter and search query applied to them.
//
// Every mutation publishes a new Snapshot instead of changing the previous
// one, so a snapshot handed to a reader stays valid. Writers are serialized;
// the only slow step, classification, runs outside the lock.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"reelvault/internal/apperr"
	"reelvault/internal/category"
	"reelvault/internal/classifier"
	"reelvault/internal/domain"
	"reelvault/internal/id"
)

// ErrProcessingFailed is returned by SaveReel when the classifier produced no
// usable result. The built-in pipeline always falls back to local
// heuristics, so with it this error does not occur.
var ErrProcessingFailed = errors.New("failed to process reel")

const maxIDAttempts = 5

// Classifier is the part of the classification pipeline the store needs.
type Classifier interface {
	Classify(ctx context.Context, raw string) classifier.Result
}

// Patch holds the editable fields of a reel. Nil fields are left unchanged.
type Patch struct {
	Title   *string `json:"title,omitempty"`
	Summary *string `json:"summary,omitempty"`
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the NanoID generator.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(s *Store) { s.newID = gen }
}

// WithOnChange registers a hook called with every published snapshot. It
// runs while the store is locked, so hooks observe snapshots in order and
// must not call back into the store.
func WithOnChange(fn func(Snapshot)) Option {
	return func(s *Store) { s.onChange = fn }
}

// WithState seeds the store with existing collections. The slices are copied.
func WithState(active []domain.SavedReel, trashed []domain.TrashedReel) Option {
	return func(s *Store) {
		s.snap.Active = append([]domain.SavedReel{}, active...)
		s.snap.Trashed = append([]domain.TrashedReel{}, trashed...)
	}
}

// Store is a single user's library.
type Store struct {
	mu   sync.Mutex
	snap Snapshot

	classifier Classifier
	now        func() time.Time
	newID      func() (string, error)
	onChange   func(Snapshot)
	processing atomic.Int64
	log        logrus.FieldLogger
}

// New creates an empty library that classifies input with c.
func New(c Classifier, logger logrus.FieldLogger, opts ...Option) *Store {
	s := &Store{
		snap:       emptySnapshot(),
		classifier: c,
		now:        time.Now,
		newID:      func() (string, error) { return id.Generate(id.ReelPrefix) },
		log:        logger.WithField("component", "library"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snap = s.snap.withView()
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// IsProcessing reports whether at least one SaveReel call is classifying input.
func (s *Store) IsProcessing() bool {
	return s.processing.Load() > 0
}

// publish must be called with mu held.
func (s *Store) publish(next Snapshot) Snapshot {
	s.snap = next.withView()
	if s.onChange != nil {
		s.onChange(s.snap)
	}
	return s.snap
}

// SaveReel classifies text and adds the result at the head of the library.
// Blank text is rejected before classification. Concurrent calls are not
// serialized against each other: each result is added when its
// classification completes, even if ctx was cancelled in the meantime.
func (s *Store) SaveReel(ctx context.Context, text string) (domain.SavedReel, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return domain.SavedReel{}, fmt.Errorf("please enter a valid reel URL or text: %w", apperr.ErrInvalidInput)
	}

	s.processing.Add(1)
	defer s.processing.Add(-1)

	res := s.classifier.Classify(ctx, input)
	if !res.Category.Valid() || res.Title == "" {
		s.log.WithField("source", res.Source).Error("Classifier returned an unusable result")
		return domain.SavedReel{}, ErrProcessingFailed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reelID, err := s.uniqueID()
	if err != nil {
		return domain.SavedReel{}, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	reel := domain.SavedReel{
		ID:        reelID,
		Title:     res.Title,
		Summary:   res.Summary,
		Category:  res.Category,
		Timestamp: s.now().Format(domain.DateLayout),
	}
	if classifier.IsURL(input) {
		reel.SourceURL = input
	}

	next := s.snap
	next.Active = prepend(s.snap.Active, reel)
	s.publish(next)

	s.log.WithFields(logrus.Fields{
		"reel_id":  reel.ID,
		"category": reel.Category,
		"source":   res.Source,
	}).Info("Reel saved")
	return reel, nil
}

// uniqueID must be called with mu held.
func (s *Store) uniqueID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		candidate, err := s.newID()
		if err != nil {
			return "", err
		}
		if indexOf(s.snap.Active, candidate) < 0 && indexOfTrashed(s.snap.Trashed, candidate) < 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no unique id after %d attempts", maxIDAttempts)
}

// FilterByCategory restricts the visible reels to one category, or lifts the
// restriction for category.All.
func (s *Store) FilterByCategory(c category.Category) (Snapshot, error) {
	if c != category.All && !c.Valid() {
		return Snapshot{}, fmt.Errorf("unknown category %q: %w", c, apperr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap
	next.Filter = c
	return s.publish(next), nil
}

// SearchReels sets the search query. Matching is a case-insensitive
// substring test on title or summary, combined with the category filter.
// An empty query clears the search.
func (s *Store) SearchReels(query string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap
	next.Query = query
	return s.publish(next)
}

// ToggleFavorite flips the favorite flag of an active reel.
func (s *Store) ToggleFavorite(reelID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.snap.Active, reelID)
	if i < 0 {
		return s.snap, notFound(reelID)
	}

	active := clone(s.snap.Active)
	active[i].Favorite = !active[i].Favorite

	next := s.snap
	next.Active = active
	return s.publish(next), nil
}

// UpdateReel applies a title and/or summary edit to an active reel.
func (s *Store) UpdateReel(reelID string, patch Patch) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.snap.Active, reelID)
	if i < 0 {
		return s.snap, notFound(reelID)
	}

	reel := s.snap.Active[i]
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return s.snap, fmt.Errorf("title cannot be empty: %w", apperr.ErrInvalidInput)
		}
		reel.Title = classifier.CapTitle(title)
	}
	if patch.Summary != nil {
		summary := strings.TrimSpace(*patch.Summary)
		if summary == "" {
			return s.snap, fmt.Errorf("summary cannot be empty: %w", apperr.ErrInvalidInput)
		}
		reel.Summary = summary
	}

	active := clone(s.snap.Active)
	active[i] = reel

	next := s.snap
	next.Active = active
	return s.publish(next), nil
}

// DeleteReel moves an active reel to the trash, where it stays recoverable
// for domain.TrashRetention.
func (s *Store) DeleteReel(reelID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.snap.Active, reelID)
	if i < 0 {
		return s.snap, notFound(reelID)
	}

	trashed := make([]domain.TrashedReel, 0, len(s.snap.Trashed)+1)
	trashed = append(trashed, s.snap.Trashed...)
	trashed = append(trashed, domain.Trash(s.snap.Active[i], s.now()))

	next := s.snap
	next.Active = remove(s.snap.Active, i)
	next.Trashed = trashed

	s.log.WithField("reel_id", reelID).Info("Reel moved to trash")
	return s.publish(next), nil
}

// RestoreFromTrash moves a trashed reel back to the head of the library.
func (s *Store) RestoreFromTrash(reelID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOfTrashed(s.snap.Trashed, reelID)
	if i < 0 {
		return s.snap, notFound(reelID)
	}

	next := s.snap
	next.Active = prepend(s.snap.Active, s.snap.Trashed[i].Restore())
	next.Trashed = remove(s.snap.Trashed, i)

	s.log.WithField("reel_id", reelID).Info("Reel restored from trash")
	return s.publish(next), nil
}

// PermanentlyDeleteReel removes a reel from the trash. It cannot be undone.
func (s *Store) PermanentlyDeleteReel(reelID string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOfTrashed(s.snap.Trashed, reelID)
	if i < 0 {
		return s.snap, notFound(reelID)
	}

	next := s.snap
	next.Trashed = remove(s.snap.Trashed, i)

	s.log.WithField("reel_id", reelID).Info("Reel permanently deleted")
	return s.publish(next), nil
}

// EmptyTrash permanently deletes every trashed reel.
func (s *Store) EmptyTrash() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := len(s.snap.Trashed)
	next := s.snap
	next.Trashed = []domain.TrashedReel{}

	s.log.WithField("purged", purged).Info("Trash emptied")
	return s.publish(next)
}

func notFound(reelID string) error {
	return fmt.Errorf("reel %s: %w", reelID, apperr.ErrNotFound)
}

func prepend[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

func remove[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

func clone[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}
