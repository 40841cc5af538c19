// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function with a constructor.  Mount
// builds a fresh instance of every registered component, runs Init(deps)
// on it, then mounts its Routes() at “/”.  Two routers never share
// component state.

package component

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/adept-login/internal/login"
	"github.com/yanizio/adept-login/internal/session"
)

// Deps are the process-wide services a component may use.
type Deps struct {
	// Ctx lives as long as the server; background loops stop with it.
	Ctx   context.Context
	Log   *zap.SugaredLogger
	Auth  login.Authenticator
	Pages session.Config
	// DevTemplates re-parses templates on every render.
	DevTemplates bool
}

// Component contract.
//
// Routes() should mount BOTH page and API endpoints, e.g:
//
//	r := chi.NewRouter()
//	r.Get("/login", getLogin)
//	r.Post("/login/field", postField)
//	return r
//
// Routes is only called after a successful Init.
type Component interface {
	Name() string
	Init(Deps) error
	Routes() chi.Router
}

// Factory returns a new, uninitialised component.
type Factory func() Component

var (
	mu       sync.RWMutex
	registry = map[string]Factory{}
)

// Register is invoked from component init() functions.  A second
// registration under the same name replaces the first.
func Register(name string, f Factory) {
	mu.Lock()
	registry[name] = f
	mu.Unlock()
}

// All builds one fresh instance of every registered component, sorted by
// name.
func All() []Component {
	mu.RLock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	out := make([]Component, 0, len(names))
	for _, n := range names {
		out = append(out, registry[n]())
	}
	mu.RUnlock()
	return out
}

// Mount initialises every component and mounts its routes on r.
func Mount(r chi.Router, deps Deps) error {
	if deps.Log == nil {
		deps.Log = zap.NewNop().Sugar()
	}
	for _, c := range All() {
		if err := c.Init(deps); err != nil {
			return fmt.Errorf("component %s: init: %w", c.Name(), err)
		}
		r.Mount("/", c.Routes())
		deps.Log.Infow("component mounted", "component", c.Name())
	}
	return nil
}
