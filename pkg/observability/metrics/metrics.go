package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
)

var (
	RequestsSent         atomic.Int64
	ResponsesMatched     atomic.Int64
	RequestTimeouts      atomic.Int64
	UnsolicitedResponses atomic.Int64
	RequestsHandled      atomic.Int64
	MalformedMessages    atomic.Int64
	ProviderFailures     atomic.Int64
	PublishFailures      atomic.Int64
	PendingRequests      atomic.Int64
)

type metric struct {
	name  string
	help  string
	kind  string
	value *atomic.Int64
}

var registry = []metric{
	{"twosides_rpc_requests_sent_total", "Requests published by this process.", "counter", &RequestsSent},
	{"twosides_rpc_responses_matched_total", "Responses matched to an outstanding request.", "counter", &ResponsesMatched},
	{"twosides_rpc_request_timeouts_total", "Requests that expired without a response.", "counter", &RequestTimeouts},
	{"twosides_rpc_unsolicited_responses_total", "Responses dropped because no request was waiting for them.", "counter", &UnsolicitedResponses},
	{"twosides_rpc_requests_handled_total", "Requests dispatched by the responder.", "counter", &RequestsHandled},
	{"twosides_rpc_malformed_messages_total", "Envelopes that failed to decode on either side.", "counter", &MalformedMessages},
	{"twosides_rpc_provider_failures_total", "Query provider errors caught by the responder.", "counter", &ProviderFailures},
	{"twosides_rpc_publish_failures_total", "Publishes rejected by the transport.", "counter", &PublishFailures},
	{"twosides_rpc_pending_requests", "Requests currently waiting for a response.", "gauge", &PendingRequests},
}

func write(w io.Writer) {
	for _, m := range registry {
		fmt.Fprintf(w, "# HELP %s %s\n", m.name, m.help)
		fmt.Fprintf(w, "# TYPE %s %s\n", m.name, m.kind)
		fmt.Fprintf(w, "%s %d\n", m.name, m.value.Load())
	}
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	write(w)
}

// Handler serves the registry in Prometheus text format.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WritePrometheus(w)
	})
}
