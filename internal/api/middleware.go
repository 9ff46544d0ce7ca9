// Package api implements the reelvault HTTP API using chi.
package api

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"reelvault/internal/library"
	"reelvault/internal/session"
)

// UserHeader carries the caller's identity. Authentication is expected to
// happen in front of the service.
const UserHeader = "X-User-ID"

type libraryKey struct{}

// UserLibrary resolves the library of the user named in UserHeader and stores
// it in the request context.
func UserLibrary(sessions *session.Manager, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store, err := sessions.Library(r.Context(), r.Header.Get(UserHeader))
			if err != nil {
				writeError(w, log, err)
				return
			}
			ctx := context.WithValue(r.Context(), libraryKey{}, store)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func libraryFrom(ctx context.Context) *library.Store {
	store, _ := ctx.Value(libraryKey{}).(*library.Store)
	return store
}
