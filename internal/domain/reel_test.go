package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"reelvault/internal/category"
)

func sampleReel() SavedReel {
	return SavedReel{
		ID:        "reel-1",
		Title:     "Homemade Pasta",
		Summary:   "Flour, eggs, patience.",
		Category:  category.Recipes,
		Timestamp: "2026-10-15",
		Favorite:  true,
		SourceURL: "https://example.com/reel/1",
	}
}

func TestTrash_ExpiresAfterRetention(t *testing.T) {
	at := time.Date(2026, 10, 15, 12, 30, 0, 0, time.UTC)
	trashed := Trash(sampleReel(), at)

	assert.Equal(t, at, trashed.DeletedAt)
	assert.Equal(t, 30*24*time.Hour, trashed.ExpiresAt.Sub(trashed.DeletedAt))
}

func TestTrashedReel_RestoreKeepsFields(t *testing.T) {
	reel := sampleReel()
	restored := Trash(reel, time.Now()).Restore()
	assert.Equal(t, reel, restored)
}

func TestTrashedReel_ExpiryHelpers(t *testing.T) {
	at := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	trashed := Trash(sampleReel(), at)

	assert.False(t, trashed.Expired(at))
	assert.Equal(t, 30, trashed.DaysLeft(at))
	assert.Equal(t, 20, trashed.DaysLeft(at.Add(10*24*time.Hour)))
	assert.True(t, trashed.Expired(at.Add(TrashRetention)))
	assert.Equal(t, 0, trashed.DaysLeft(at.Add(40*24*time.Hour)))
}
