// internal/middleware/logging.go
//
// Request logger.
//
// One structured line per request: method, path, status, bytes, duration,
// chi request ID, remote address, and a parsed User-Agent summary.  Static
// assets, health probes, and scrapes are logged at debug so the daily file
// stays readable.
package middleware

import (
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/adept-login/internal/ua"
)

// quietPrefixes are logged at debug level.
var quietPrefixes = []string{"/static/", "/healthz", "/metrics", "/favicon.ico"}

// RequestLogger returns a chi-compatible middleware writing to log.
func RequestLogger(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				info := ua.Parse(r.UserAgent())
				fields := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status(ww),
					"bytes", ww.BytesWritten(),
					"dur_ms", time.Since(start).Milliseconds(),
					"req_id", chimw.GetReqID(r.Context()),
					"remote", r.RemoteAddr,
					"browser", info.Browser,
					"os", info.OS,
					"device", info.Device,
				}
				if info.IsBot {
					fields = append(fields, "bot", true)
				}
				if quiet(r.URL.Path) {
					log.Debugw("http request", fields...)
					return
				}
				log.Infow("http request", fields...)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// status treats an untouched writer as 200, matching net/http.
func status(ww chimw.WrapResponseWriter) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	return http.StatusOK
}

func quiet(path string) bool {
	for _, p := range quietPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
