package middleware

import (
	"net/http"

	"github.com/ezseobasics/ezseo/internal/services"
	"github.com/ezseobasics/ezseo/internal/session"
)

// SessionHydrator restores session state for requests that carry a
// valid access token but no live in-memory session, such as API clients
// or browsers returning after a server restart. Runs after
// OptionalAuthMiddleware so token claims are already in the context.
func SessionHydrator(sessions *session.Manager, accounts *services.AccountService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess, ok := sessions.Get(r); ok && sess.User() != nil {
				next.ServeHTTP(w, r.WithContext(session.WithContext(r.Context(), sess)))
				return
			}

			if userID, ok := GetUserID(r); ok {
				sess := sessions.Ensure(w, r)
				// Restore failure leaves the session anonymous; the
				// handler decides whether that is fatal.
				_, _ = accounts.Restore(r.Context(), sess, userID)
				r = r.WithContext(session.WithContext(r.Context(), sess))
			}

			next.ServeHTTP(w, r)
		})
	}
}
