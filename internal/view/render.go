// internal/view/render.go
//
// View engine: template lookup over an fs.FS, func-map injection, and an
// LRU of parsed *template.Template* sets.
//
// Public helpers
// --------------
//   - Render – write rendered HTML to an http.ResponseWriter.
//
// A set holds the shared partials (root-level files named “_*.html”, such as
// the layout) plus the requested page “<name>.html” when it exists.  Pages
// therefore never see each other’s {{ define }} blocks, and two pages may
// both define "body".
//
// execName() chooses the template to execute:
//   – If the set contains "<name>.html", we run that (file has no define).
//   – Else we fall back to "<name>" (root template defined via {{ define }}).
//
// Style
// -----
// • Oxford commas, two spaces after periods.

package view

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"

	"github.com/yanizio/adept-login/internal/cache"
)

//
// cache definitions
//

// CachePolicy hints how the caller wants this template cached.
type CachePolicy int

const (
	CacheDefault CachePolicy = iota // reuse the parsed set
	CacheSkip                       // re-parse on every call (template dev)
)

// Engine renders templates from one filesystem.  Safe for concurrent use.
type Engine struct {
	fsys   fs.FS
	funcs  template.FuncMap
	policy CachePolicy
	sets   *cache.LRU[string, *template.Template]
}

// New returns an Engine over fsys.  funcs is merged over the built-ins
// (dict), so callers may override them.
func New(fsys fs.FS, funcs template.FuncMap, policy CachePolicy) *Engine {
	fm := template.FuncMap{"dict": dict}
	for k, v := range funcs {
		fm[k] = v
	}
	return &Engine{
		fsys:   fsys,
		funcs:  fm,
		policy: policy,
		sets:   cache.New(cache.Options[string, *template.Template]{Capacity: 64}),
	}
}

//
// public helpers
//

// Render executes the named template and writes it with status.  Output is
// buffered, so a template error never leaves a half-written page; the
// caller gets the error and the response is still untouched.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := e.execute(&buf, name, data); err != nil {
		return err
	}
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (e *Engine) execute(buf *bytes.Buffer, name string, data any) error {
	t, err := e.load(name)
	if err != nil {
		return err
	}
	return t.ExecuteTemplate(buf, execName(t, name), data)
}

//
// internal: load
//

// load parses (or fetches) the set for name.
func (e *Engine) load(name string) (*template.Template, error) {
	if e.policy != CacheSkip {
		if t, ok := e.sets.Get(name); ok {
			return t, nil
		}
	}

	files, err := fs.Glob(e.fsys, "_*.html")
	if err != nil {
		return nil, err
	}
	page := path.Clean(name + ".html")
	if _, err := fs.Stat(e.fsys, page); err == nil {
		files = append(files, page)
	}
	if len(files) == 0 {
		return nil, fs.ErrNotExist
	}

	t, err := template.New(name).Funcs(e.funcs).ParseFS(e.fsys, files...)
	if err != nil {
		return nil, err
	}

	if e.policy != CacheSkip {
		e.sets.Add(name, t)
	}
	return t, nil
}

//
// helpers
//

// execName picks the template name to execute.
//
// Priority:
//  1. If the set has "<name>.html" (file-based template), run that.
//  2. Otherwise, fall back to "<name>" (root template defined in code).
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name + ".html"); tmpl != nil {
		return name + ".html"
	}
	return name
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
