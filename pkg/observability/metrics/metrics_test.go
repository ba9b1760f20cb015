package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandlerRendersCounters(t *testing.T) {
	before := RequestTimeouts.Load()
	RequestTimeouts.Add(1)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body := rec.Body.String()
	assert.Equal(t, "text/plain; version=0.0.4", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "# TYPE twosides_rpc_request_timeouts_total counter")
	assert.Contains(t, body, "twosides_rpc_pending_requests ")
	assert.Equal(t, before+1, RequestTimeouts.Load())
}
