// Package session hands each user identity its own library.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"reelvault/internal/apperr"
	"reelvault/internal/library"
	"reelvault/internal/storage"
)

// ErrNoUser is returned when a request carries no user identity.
var ErrNoUser = errors.New("missing user identity")

// Manager creates libraries lazily, one per user. When a repository is
// attached, a library is loaded from it on first use and written back after
// every change.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*library.Store

	classifier library.Classifier
	repo       storage.Repository
	opts       []library.Option
	log        logrus.FieldLogger
}

// NewManager creates a session manager. repo may be nil for purely transient
// sessions. opts are applied to every library it creates.
func NewManager(c library.Classifier, repo storage.Repository, logger logrus.FieldLogger, opts ...library.Option) *Manager {
	return &Manager{
		stores:     make(map[string]*library.Store),
		classifier: c,
		repo:       repo,
		opts:       opts,
		log:        logger.WithField("component", "session"),
	}
}

// Library returns the library of userID, creating it on first use.
func (m *Manager) Library(ctx context.Context, userID string) (*library.Store, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: %w", ErrNoUser, apperr.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[userID]; ok {
		return s, nil
	}

	log := m.log.WithField("user_id", userID)
	opts := append([]library.Option{}, m.opts...)
	// assigned below, before the store can publish anything
	var s *library.Store

	if m.repo != nil {
		lib, err := m.repo.LoadLibrary(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("open library: %w", err)
		}
		opts = append(opts,
			library.WithState(lib.Active, lib.Trashed),
			library.WithOnChange(func(snap library.Snapshot) { m.persist(userID, s, snap) }),
		)
		log = log.WithFields(logrus.Fields{
			"active":  len(lib.Active),
			"trashed": len(lib.Trashed),
		})
	}

	s = library.New(m.classifier, m.log.WithField("user_id", userID), opts...)
	m.stores[userID] = s
	log.Info("Library session opened")
	return s, nil
}

// persist writes a user's library back to the repository. Stores that were
// forgotten in the meantime are not written. Write failures are logged; the
// in-memory library stays authoritative.
func (m *Manager) persist(userID string, s *library.Store, snap library.Snapshot) {
	// held across the write so a concurrent Forget cannot be undone by it
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stores[userID] != s {
		return
	}

	err := m.repo.SaveLibrary(context.Background(), userID, storage.Library{
		Active:  snap.Active,
		Trashed: snap.Trashed,
	})
	if err != nil {
		m.log.WithError(err).WithField("user_id", userID).Error("Failed to persist library")
	}
}

// Forget drops the user's library, active reels and trash alike, from memory
// and from the repository. The next Library call starts an empty one.
func (m *Manager) Forget(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("%w: %w", ErrNoUser, apperr.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.stores, userID)
	if m.repo != nil {
		if err := m.repo.DeleteLibrary(ctx, userID); err != nil {
			return fmt.Errorf("forget library: %w", err)
		}
	}
	m.log.WithField("user_id", userID).Info("Library forgotten")
	return nil
}

// Sessions returns the number of open libraries.
func (m *Manager) Sessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
