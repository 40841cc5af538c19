// internal/app/app.go
//
// Root handler assembly.
//
// Context
// -------
// cmd/web and the browser suite both serve the same router, so the chain
// lives here:
//
//	RequestID → RealIP → Recoverer → RequestLogger → Security → ForceHTTPS
//
// followed by /healthz, /metrics, and every registered component mounted
// at “/”.
//
// Notes
// -----
//   - Components register themselves from init(); callers blank-import the
//     packages they want (components/auth).
//   - Oxford commas, two spaces after periods.
package app

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/adept-login/internal/component"
	"github.com/yanizio/adept-login/internal/login"
	"github.com/yanizio/adept-login/internal/middleware"
	"github.com/yanizio/adept-login/internal/session"
)

// Options configure Handler.
type Options struct {
	Log          *zap.SugaredLogger
	Auth         login.Authenticator
	Pages        session.Config
	ForceHTTPS   bool
	DevTemplates bool
}

// Handler builds the root router.  Background work started by components
// stops when ctx is cancelled.
func Handler(ctx context.Context, opts Options) (http.Handler, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Security)
	r.Use(middleware.ForceHTTPS(opts.ForceHTTPS))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	err := component.Mount(r, component.Deps{
		Ctx:          ctx,
		Log:          log,
		Auth:         opts.Auth,
		Pages:        opts.Pages,
		DevTemplates: opts.DevTemplates,
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}
