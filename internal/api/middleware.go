package api

import (
	"log"
	"net/http"
	"time"
)

// responseRecorder captures the status code and payload size for the
// access log.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *responseRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	// Handlers that never call WriteHeader produce an implicit 200.
	if w.status == 0 {
		w.status = http.StatusOK
	}

	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// loggingMiddleware writes one access log line per request, in the same
// key=value form the update cycle logs use.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		log.Printf(
			"op=http method=%s path=%s status=%d bytes=%d dur=%dms",
			r.Method, r.URL.RequestURI(), rec.status, rec.bytes, time.Since(start).Milliseconds(),
		)
	})
}
