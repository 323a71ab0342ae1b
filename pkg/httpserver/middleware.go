package httpserver

import (
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/sirupsen/logrus"
)

// accessLogMiddleware logs one line per request with status and duration.
func accessLogMiddleware(h http.Handler, logger logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(h, w, r)
		logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"remote":   r.RemoteAddr,
			"status":   m.Code,
			"bytes":    m.Written,
			"duration": m.Duration.String(),
		}).Info("Request handled")
	})
}
