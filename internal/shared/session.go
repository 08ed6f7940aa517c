// Package shared carries cross-cutting request helpers: session identity,
// pagination and money formatting.
package shared

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// SessionHeader is the header the PWA uses to identify a shopper session.
const SessionHeader = "X-Session-Id"

type sessionContextKey struct{}

// ContextWithSessionID stores the session identifier in context.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, id)
}

// SessionID extracts the session identifier from context. Handlers behind the
// session middleware always get a non-empty value.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionContextKey{}).(string)
	return id
}

// SessionMiddleware reads the session header, minting a fresh identifier when
// the client sends none, and echoes the effective identifier back so the PWA
// can persist it.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(SessionHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(SessionHeader, id)
		next.ServeHTTP(w, r.WithContext(ContextWithSessionID(r.Context(), id)))
	})
}
