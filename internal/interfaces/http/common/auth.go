package common

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/sngm3741/ku-toilet-map/web/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "session"

// ContextWithSession stores the request session into context.
func ContextWithSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SessionFromContext returns the stored session, or the signed-out session.
func SessionFromContext(ctx context.Context) session.Session {
	sess, _ := ctx.Value(sessionContextKey).(session.Session)
	return sess
}

// SessionMiddleware はリクエストごとに Cookie からセッションを読み出してコンテキストへ格納する。
// 不正な Cookie は未ログイン扱い。
func SessionMiddleware(store *session.CookieStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := store.Load(r)
			next.ServeHTTP(w, r.WithContext(ContextWithSession(r.Context(), sess)))
		})
	}
}

// RequireUser rejects signed-out requests with 401.
func RequireUser(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !SessionFromContext(r.Context()).Authenticated() {
				WriteError(logger, w, http.StatusUnauthorized, MessageLoginRequired)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects everyone but the administrator. Signed-out requests get 401,
// other users 403.
func RequireAdmin(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			if !sess.Authenticated() {
				WriteError(logger, w, http.StatusUnauthorized, MessageLoginRequired)
				return
			}
			if !sess.Capabilities().CanAdminister {
				WriteError(logger, w, http.StatusForbidden, MessageForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
