package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestSessionMiddlewareKeepsClientID(t *testing.T) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionID(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, "session-abc")
	rec := httptest.NewRecorder()
	SessionMiddleware(next).ServeHTTP(rec, req)

	require.Equal(t, "session-abc", got)
	require.Equal(t, "session-abc", rec.Header().Get(SessionHeader))
}

func TestSessionMiddlewareMintsIDWhenMissing(t *testing.T) {
	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionID(r.Context())
	})

	rec := httptest.NewRecorder()
	SessionMiddleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, got)
	_, err := uuid.Parse(got)
	require.NoError(t, err)
	require.Equal(t, got, rec.Header().Get(SessionHeader))
}

func TestSessionMiddlewareRejectsOversizedID(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'x'
	}

	var got string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = SessionID(r.Context())
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(SessionHeader, string(long))
	SessionMiddleware(next).ServeHTTP(httptest.NewRecorder(), req)

	require.NotEqual(t, string(long), got)
	_, err := uuid.Parse(got)
	require.NoError(t, err)
}

func TestPaginationOffset(t *testing.T) {
	p := NewPagination(3, 20, 110)
	require.Equal(t, 40, p.Offset())
	require.Equal(t, 6, p.TotalPages)

	p = NewPagination(0, 0, 5)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 0, p.Offset())
}
