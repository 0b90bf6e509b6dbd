package serving

import (
	"log"
	"net/http"
	"strconv"

	"HostMonitor/pkg/metrics"
)

// Routes.
const (
	PathRoot    = "/"
	PathMetrics = "/metrics"
	PathHealth  = "/health"
)

var (
	healthBody           = []byte(`{"status":"ok"}`)
	notFoundBody         = []byte(`{"error":"Not Found"}`)
	methodNotAllowedBody = []byte(`{"error":"Method Not Allowed"}`)
	internalErrorBody    = []byte(`{"error":"Internal Server Error"}`)
)

// ServeHTTP routes a request. Only GET is accepted; headers and body are
// ignored.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, methodNotAllowedBody)
		return
	}

	switch r.URL.Path {
	case PathMetrics, PathRoot:
		s.handleMetrics(w)
	case PathHealth:
		writeJSON(w, http.StatusOK, healthBody)
	default:
		writeJSON(w, http.StatusNotFound, notFoundBody)
	}
}

// handleMetrics collects synchronously so the response is never stale.
func (s *Server) handleMetrics(w http.ResponseWriter) {
	body, err := metrics.Encode(s.source.CollectAll())
	if err != nil {
		log.Printf("serving: encode snapshot: %v", err)
		writeJSON(w, http.StatusInternalServerError, internalErrorBody)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Content-Length", strconv.Itoa(len(body)))
	h.Set("Connection", "close")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
