// Package debughttp exposes the tracker's reports over HTTP for
// environments where operator signals are awkward (containers, CI).
// The bodies are the same line-oriented text the signals produce.
package debughttp

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reporter is the slice of the tracker surface the debug server needs.
type Reporter interface {
	// WriteLiveDump writes the currently-live tracked objects.
	WriteLiveDump(w io.Writer)

	// WriteCheckpointDump writes the added/removed delta and resets
	// the checkpoint baseline.
	WriteCheckpointDump(w io.Writer)
}

// NewHandler builds the debug router:
//
//	GET  /objects    - live object dump (text/plain)
//	POST /checkpoint - delta dump, then checkpoint reset (text/plain)
//	GET  /metrics    - prometheus metrics, when a gatherer is given
func NewHandler(reporter Reporter, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Get("/objects", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		reporter.WriteLiveDump(w)
	})

	r.Post("/checkpoint", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		reporter.WriteCheckpointDump(w)
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return r
}
