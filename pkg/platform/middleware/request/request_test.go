package request

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"talentlink/pkg/requestcontext"
)

func TestRequestID(t *testing.T) {
	var got string
	h := middleware.RequestID(RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = requestcontext.RequestID(r.Context())
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, got)
	assert.Equal(t, got, rec.Header().Get("X-Request-ID"))
}

func TestClock(t *testing.T) {
	fixed := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	calls := 0
	var seen []time.Time
	h := Clock(func() time.Time {
		calls++
		return fixed
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, requestcontext.Now(r.Context()), requestcontext.Now(r.Context()))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, 1, calls, "clock is read once per request")
	assert.Equal(t, []time.Time{fixed, fixed}, seen)
}
