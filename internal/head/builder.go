// internal/head/builder.go
//
// The Builder collects everything that should appear inside a page’s
// <head> element.  It is scoped to a single render call.  Handlers push
// tags into the builder, then the base layout emits the result with
// {{ .Head.HTML }}.
//
// Features
// --------
//   - SetTitle           – single <title> tag (last call wins).
//   - Meta               – <meta name content>, deduplicated by name.
//   - Stylesheet, Script – external assets only; the CSP forbids inline
//     script and style, so the builder never emits either.
//   - HTML               – one concatenated, escaped template.HTML.
package head

import (
	"html/template"
	"strings"
	"sync"
)

// Builder is safe for concurrent use, though typical use is one goroutine
// per request.
type Builder struct {
	mu sync.Mutex

	title   string
	metas   []string
	links   []string
	scripts []string

	// seen tracks keys for deduplication.
	seen map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// ------------------------------------------------------------------
// Single-value helper
// ------------------------------------------------------------------

// SetTitle overrides the page <title>.  The last caller wins.
func (b *Builder) SetTitle(t string) {
	b.mu.Lock()
	b.title = t
	b.mu.Unlock()
}

// ------------------------------------------------------------------
// Slice helpers with deduplication
// ------------------------------------------------------------------

// Meta adds <meta name="…" content="…">.  A repeated name is ignored.
func (b *Builder) Meta(name, content string) {
	b.add("meta:"+name, &b.metas,
		`<meta name="`+esc(name)+`" content="`+esc(content)+`">`)
}

// Stylesheet adds <link rel="stylesheet" href="…">.
func (b *Builder) Stylesheet(href string) {
	b.add("css:"+href, &b.links, `<link rel="stylesheet" href="`+esc(href)+`">`)
}

// Script adds a deferred <script src="…"></script>.
func (b *Builder) Script(src string) {
	b.add("js:"+src, &b.scripts, `<script src="`+esc(src)+`" defer></script>`)
}

func (b *Builder) add(key string, tgt *[]string, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	*tgt = append(*tgt, tag)
}

// ------------------------------------------------------------------
// Rendering helper called from layouts
// ------------------------------------------------------------------

// HTML returns title, metas, stylesheets, and scripts, in that order.
func (b *Builder) HTML() template.HTML {
	b.mu.Lock()
	defer b.mu.Unlock()

	var sb strings.Builder
	if b.title != "" {
		sb.WriteString("<title>" + esc(b.title) + "</title>")
	}
	for _, group := range [][]string{b.metas, b.links, b.scripts} {
		for _, tag := range group {
			sb.WriteString(tag)
		}
	}
	return template.HTML(sb.String())
}

func esc(s string) string { return template.HTMLEscapeString(s) }
