// Package health serves liveness and readiness probes.
package health

import (
	"net/http"
	"sync/atomic"
)

// Healthz returns 200 "ok\n" unconditionally.
func Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// ready is set once configuration has been validated and cleared when the
// process starts draining.
var ready atomic.Bool

// SetReady flips the readiness state reported by Readyz.
func SetReady(v bool) {
	ready.Store(v)
}

// Readyz returns 200 "ready\n" while the service accepts traffic and
// 503 "not ready\n" before startup completes or during shutdown.
func Readyz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	if !ready.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("not ready\n"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready\n"))
}
