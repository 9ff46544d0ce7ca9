// Package storage persists user libraries outside the process. The library
// itself is transient; a Repository is the collaborator it hands its state
// to when one is configured.
package storage

import (
	"context"

	"reelvault/internal/domain"
)

// Library is the persisted form of a user's collections.
type Library struct {
	Active  []domain.SavedReel   `json:"active"`
	Trashed []domain.TrashedReel `json:"trashed"`
}

// Repository defines the interface for library storage operations.
type Repository interface {
	// SaveLibrary replaces the stored library of a user.
	SaveLibrary(ctx context.Context, userID string, lib Library) error

	// LoadLibrary returns the stored library of a user, or an empty Library
	// if nothing was stored yet.
	LoadLibrary(ctx context.Context, userID string) (Library, error)

	// DeleteLibrary removes everything stored for a user.
	DeleteLibrary(ctx context.Context, userID string) error

	// Close gracefully shuts down the repository connection.
	Close() error
}
