package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"reelvault/internal/domain"
)

const (
	activeSuffix = "active"
	trashSuffix  = "trash"

	gcDiscardRatio = 0.7
)

// BadgerRepository implements Repository using BadgerDB.
type BadgerRepository struct {
	db       *badger.DB
	inMemory bool
	log      logrus.FieldLogger
}

// NewBadgerRepository opens the database at dbPath. An empty path opens an
// in-memory database, which keeps nothing across restarts.
func NewBadgerRepository(dbPath string, logger logrus.FieldLogger) (*BadgerRepository, error) {
	opts := badger.DefaultOptions(dbPath)
	if dbPath == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = &badgerLogger{logger.WithField("component", "badgerdb")}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at %q: %w", dbPath, err)
	}
	logger.WithFields(logrus.Fields{
		"path":      dbPath,
		"in_memory": dbPath == "",
	}).Info("BadgerDB opened")

	return &BadgerRepository{
		db:       db,
		inMemory: dbPath == "",
		log:      logger.WithField("component", "repository"),
	}, nil
}

// Close closes the BadgerDB database.
func (r *BadgerRepository) Close() error {
	if err := r.db.Close(); err != nil {
		r.log.WithError(err).Error("Error closing BadgerDB")
		return err
	}
	r.log.Info("BadgerDB closed")
	return nil
}

// userPrefix is the key prefix of everything stored for a user.
// Format: user:{escaped userID}:
func userPrefix(userID string) []byte {
	return []byte("user:" + url.QueryEscape(userID) + ":")
}

func userKey(userID, suffix string) []byte {
	return append(userPrefix(userID), suffix...)
}

// SaveLibrary writes both collections of a user in one transaction.
func (r *BadgerRepository) SaveLibrary(_ context.Context, userID string, lib Library) error {
	active, err := json.Marshal(nonNil(lib.Active))
	if err != nil {
		return fmt.Errorf("failed to marshal active reels: %w", err)
	}
	trashed, err := json.Marshal(nonNil(lib.Trashed))
	if err != nil {
		return fmt.Errorf("failed to marshal trashed reels: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(userKey(userID, activeSuffix), active); err != nil {
			return err
		}
		return txn.Set(userKey(userID, trashSuffix), trashed)
	})
	if err != nil {
		return fmt.Errorf("failed to save library for user %s: %w", userID, err)
	}

	r.log.WithFields(logrus.Fields{
		"user_id": userID,
		"active":  len(lib.Active),
		"trashed": len(lib.Trashed),
	}).Debug("Library saved")
	return nil
}

// LoadLibrary reads both collections of a user.
func (r *BadgerRepository) LoadLibrary(_ context.Context, userID string) (Library, error) {
	lib := Library{
		Active:  []domain.SavedReel{},
		Trashed: []domain.TrashedReel{},
	}

	err := r.db.View(func(txn *badger.Txn) error {
		if err := getJSON(txn, userKey(userID, activeSuffix), &lib.Active); err != nil {
			return err
		}
		return getJSON(txn, userKey(userID, trashSuffix), &lib.Trashed)
	})
	if err != nil {
		return Library{}, fmt.Errorf("failed to load library for user %s: %w", userID, err)
	}
	return lib, nil
}

// getJSON decodes the value at key into v. A missing key leaves v untouched.
func getJSON(txn *badger.Txn, key []byte, v any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, v); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", string(key), err)
		}
		return nil
	})
}

// DeleteLibrary removes every key stored under the user's prefix.
func (r *BadgerRepository) DeleteLibrary(_ context.Context, userID string) error {
	prefix := userPrefix(userID)

	var keys [][]byte
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to list keys for user %s: %w", userID, err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete library for user %s: %w", userID, err)
	}

	r.log.WithField("user_id", userID).Info("Library deleted")
	return nil
}

// RunGC reclaims value-log space periodically until ctx is done. It returns
// immediately for in-memory databases, which have no value log.
func (r *BadgerRepository) RunGC(ctx context.Context, interval time.Duration) {
	if r.inMemory {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := r.db.RunValueLogGC(gcDiscardRatio)
			switch {
			case err == nil:
				r.log.Debug("BadgerDB GC completed")
			case errors.Is(err, badger.ErrNoRewrite):
				r.log.Debug("BadgerDB GC: no rewrite needed")
			default:
				r.log.WithError(err).Warn("BadgerDB GC failed")
			}
		case <-ctx.Done():
			r.log.Debug("Stopping BadgerDB GC routine")
			return
		}
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// badgerLogger adapts logrus.FieldLogger to Badger's logger interface.
type badgerLogger struct {
	logger logrus.FieldLogger
}

func (l *badgerLogger) Errorf(f string, v ...interface{}) {
	l.logger.Errorf(f, v...)
}
func (l *badgerLogger) Warningf(f string, v ...interface{}) {
	l.logger.Warningf(f, v...)
}
func (l *badgerLogger) Infof(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
func (l *badgerLogger) Debugf(f string, v ...interface{}) {
	l.logger.Debugf(f, v...)
}
