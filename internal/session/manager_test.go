package session

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelvault/internal/apperr"
	"reelvault/internal/category"
	"reelvault/internal/classifier"
	"reelvault/internal/storage"
)

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newRepo(t *testing.T) *storage.BadgerRepository {
	t.Helper()
	repo, err := storage.NewBadgerRepository("", testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestManager_OneLibraryPerUser(t *testing.T) {
	m := NewManager(classifier.NewPipeline(nil, testLogger()), nil, testLogger())
	ctx := context.Background()

	a1, err := m.Library(ctx, "alice")
	require.NoError(t, err)
	a2, err := m.Library(ctx, " alice ")
	require.NoError(t, err)
	b, err := m.Library(ctx, "bob")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.NotSame(t, a1, b)
	assert.Equal(t, 2, m.Sessions())

	_, err = a1.SaveReel(ctx, "recipe: pasta")
	require.NoError(t, err)
	assert.Empty(t, b.Snapshot().Active)
}

func TestManager_RequiresUser(t *testing.T) {
	m := NewManager(classifier.NewPipeline(nil, testLogger()), nil, testLogger())

	_, err := m.Library(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrNoUser)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestManager_PersistsAndReloads(t *testing.T) {
	repo := newRepo(t)
	pipeline := classifier.NewPipeline(nil, testLogger())
	ctx := context.Background()

	m := NewManager(pipeline, repo, testLogger())
	s, err := m.Library(ctx, "42")
	require.NoError(t, err)

	kept, err := s.SaveReel(ctx, "recipe: pasta")
	require.NoError(t, err)
	trashed, err := s.SaveReel(ctx, "movie: alien")
	require.NoError(t, err)
	_, err = s.DeleteReel(trashed.ID)
	require.NoError(t, err)

	stored, err := repo.LoadLibrary(ctx, "42")
	require.NoError(t, err)
	require.Len(t, stored.Active, 1)
	require.Len(t, stored.Trashed, 1)

	// a fresh manager over the same repository sees the saved library
	reopened, err := NewManager(pipeline, repo, testLogger()).Library(ctx, "42")
	require.NoError(t, err)
	snap := reopened.Snapshot()
	require.Len(t, snap.Active, 1)
	assert.Equal(t, kept, snap.Active[0])
	assert.Equal(t, category.Recipes, snap.Visible[0].Category)
	require.Len(t, snap.Trashed, 1)
	assert.Equal(t, trashed.ID, snap.Trashed[0].ID)
}

func TestManager_Forget(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	m := NewManager(classifier.NewPipeline(nil, testLogger()), repo, testLogger())

	old, err := m.Library(ctx, "42")
	require.NoError(t, err)
	reel, err := old.SaveReel(ctx, "recipe: pasta")
	require.NoError(t, err)
	_, err = old.DeleteReel(reel.ID)
	require.NoError(t, err)

	require.NoError(t, m.Forget(ctx, "42"))
	assert.Zero(t, m.Sessions())

	stored, err := repo.LoadLibrary(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, stored.Active)
	assert.Empty(t, stored.Trashed)

	fresh, err := m.Library(ctx, "42")
	require.NoError(t, err)
	assert.NotSame(t, old, fresh)
	assert.Empty(t, fresh.Snapshot().Trashed)

	// a store handed out before Forget no longer writes to the repository
	_, err = old.SaveReel(ctx, "movie: alien")
	require.NoError(t, err)
	stored, err = repo.LoadLibrary(ctx, "42")
	require.NoError(t, err)
	assert.Empty(t, stored.Active)

	assert.ErrorIs(t, m.Forget(ctx, " "), ErrNoUser)
}

func TestManager_ForgetWithoutRepository(t *testing.T) {
	m := NewManager(classifier.NewPipeline(nil, testLogger()), nil, testLogger())
	ctx := context.Background()

	s, err := m.Library(ctx, "7")
	require.NoError(t, err)
	_, err = s.SaveReel(ctx, "note: milk")
	require.NoError(t, err)

	require.NoError(t, m.Forget(ctx, "7"))
	fresh, err := m.Library(ctx, "7")
	require.NoError(t, err)
	assert.Empty(t, fresh.Snapshot().Active)
}
