// components/auth/auth.go
//
// Authentication component: login page flow.
//
// Context
// -------
// GET /login opens a page view: a fresh login.Controller kept in the page
// store under a random page ID, which the form carries as a hidden input.
// POST /login applies the edited fields to that controller and submits it.
// POST /login/field is the script path; it applies one edit and answers
// with the controller’s error state as JSON so the page can clear messages
// without a reload.
//
// Without JavaScript the page still works end to end; the script only adds
// clear-on-edit and the loading state.
//
//------------------------------------------------------------------------------

package auth

import (
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/adept-login/internal/component"
	"github.com/yanizio/adept-login/internal/form"
	"github.com/yanizio/adept-login/internal/head"
	"github.com/yanizio/adept-login/internal/login"
	"github.com/yanizio/adept-login/internal/session"
	"github.com/yanizio/adept-login/internal/view"
)

const (
	formID     = "auth/login"
	pageIDName = "page_id"
)

// Compile-time assertion: *Component satisfies component.Component.
var _ component.Component = (*Component)(nil)

// Component encapsulates the login page.  Init must run before Routes.
type Component struct {
	log       *zap.SugaredLogger
	fd        *form.FormDef
	pages     *session.Store
	views     *view.Engine
	static    http.Handler
	validator *login.Validator
}

/*────────────────── component.Component methods ───────────────────────────*/

// Name returns the canonical component key.
func (c *Component) Name() string { return "auth" }

// Init registers the login form, builds the page store, and starts its
// sweeper on deps.Ctx.
func (c *Component) Init(deps component.Deps) error {
	if deps.Auth == nil {
		return errors.New("auth: no authenticator")
	}
	c.log = deps.Log
	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}

	if err := form.RegisterForms(assets, "forms"); err != nil {
		return err
	}
	fd, ok := form.GetFormDef(formID)
	if !ok {
		return fmt.Errorf("auth: form %q missing", formID)
	}
	v, err := login.NewValidator(fd)
	if err != nil {
		return err
	}
	c.fd, c.validator = fd, v

	tpl, err := fs.Sub(assets, "templates")
	if err != nil {
		return err
	}
	policy := view.CacheDefault
	if deps.DevTemplates {
		policy = view.CacheSkip
	}
	c.views = view.New(tpl, template.FuncMap{}, policy)

	static, err := fs.Sub(assets, "static")
	if err != nil {
		return err
	}
	c.static = http.StripPrefix("/static/", http.FileServer(http.FS(static)))

	auth := deps.Auth
	c.pages = session.New(deps.Pages, func() *login.Controller {
		return login.New(v, auth)
	}, c.log)
	if deps.Ctx != nil {
		go c.pages.Run(deps.Ctx)
	}
	return nil
}

// Routes builds and returns the router mounted at “/”.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})
	r.Get("/login", c.handleLoginGET)
	r.Post("/login", c.handleLoginPOST)
	r.Post("/login/field", c.handleFieldPOST)
	r.Get("/static/*", c.handleStatic)
	return r
}

// Register component at program start.
func init() {
	component.Register("auth", func() component.Component { return &Component{} })
}

/*──────────────────────────── Rendering ────────────────────────────────────*/

// pageData is what login.html and welcome.html see.
type pageData struct {
	Head        *head.Builder
	PageID      string
	Form        template.HTML
	SubmitError string
	Loading     bool
	User        *login.User
}

// render writes the view matching snap: welcome once authenticated, the
// form otherwise.
func (c *Component) render(w http.ResponseWriter, status int, pageID string, snap login.Snapshot) {
	h := head.New()
	h.Meta("viewport", "width=device-width, initial-scale=1")
	h.Stylesheet("/static/login.css")

	data := pageData{Head: h, PageID: pageID, SubmitError: snap.SubmitError, Loading: snap.Loading}
	name := "login"

	if snap.State == login.StateAuthenticated && snap.User != nil {
		h.SetTitle("Welcome")
		data.User = snap.User
		name = "welcome"
	} else {
		h.SetTitle(c.fd.Title)
		h.Script("/static/login.js")

		errs := make(map[string]string, len(snap.FieldErrors))
		for f, msg := range snap.FieldErrors {
			errs[string(f)] = msg
		}
		markup, err := form.Render(c.fd, form.RenderOptions{
			Prefill:  map[string]string{string(login.FieldUsername): snap.Credentials.Username},
			Errors:   errs,
			Disabled: snap.Loading,
			Hidden:   map[string]string{pageIDName: pageID},
		})
		if err != nil {
			c.fail(w, "form render", err)
			return
		}
		data.Form = markup
	}

	if err := c.views.Render(w, status, name, data); err != nil {
		c.fail(w, "template render", err)
	}
}

func (c *Component) fail(w http.ResponseWriter, what string, err error) {
	c.log.Errorw(what+" failed", "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (c *Component) handleStatic(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	c.static.ServeHTTP(w, r)
}
