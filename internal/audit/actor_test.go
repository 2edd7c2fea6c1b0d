package audit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/warden/internal/audit"
)

func TestActorMiddleware(t *testing.T) {
	var got string
	h := audit.Actor(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = audit.ActorFrom(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(audit.ActorHeader, " carol ")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "carol", got)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, got)
}
