package view

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFS = fstest.MapFS{
	"_layout.html": {Data: []byte(`{{ define "layout" }}<main>{{ template "body" . }}</main>{{ end }}`)},
	"other.html":   {Data: []byte(`{{ define "body" }}other{{ end }}{{ template "layout" . }}`)},
	"page.html":    {Data: []byte(`{{ define "body" }}<p>{{ .Name }} {{ shout "hi" }}</p>{{ end }}{{ template "layout" . }}`)},
	"_card.html":   {Data: []byte(`{{ define "card" }}{{ with dict "k" .Name }}<b>{{ .k }}</b>{{ end }}{{ end }}`)},
}

var funcs = template.FuncMap{"shout": strings.ToUpper}

// renderBody runs Render against a recorder and returns the body.
func renderBody(e *Engine, name string, data any) (string, error) {
	w := httptest.NewRecorder()
	if err := e.Render(w, http.StatusOK, name, data); err != nil {
		return "", err
	}
	return w.Body.String(), nil
}

func TestRender_FileTemplateWithLayout(t *testing.T) {
	e := New(testFS, funcs, CacheDefault)
	w := httptest.NewRecorder()

	require.NoError(t, e.Render(w, http.StatusUnprocessableEntity, "page", map[string]string{"Name": "<x>"}))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<main><p>&lt;x&gt; HI</p></main>", w.Body.String())
}

func TestRender_PagesDoNotShareDefines(t *testing.T) {
	e := New(testFS, funcs, CacheDefault)
	a, err := renderBody(e, "page", map[string]string{"Name": "a"})
	require.NoError(t, err)
	b, err := renderBody(e, "other", nil)
	require.NoError(t, err)
	assert.Equal(t, "<main><p>a HI</p></main>", a)
	assert.Equal(t, "<main>other</main>", b)
}

func TestRender_DefinedTemplateAndDict(t *testing.T) {
	e := New(testFS, funcs, CacheSkip)
	out, err := renderBody(e, "card", map[string]string{"Name": "n"})
	require.NoError(t, err)
	assert.Equal(t, "<b>n</b>", out)
}

func TestRender_UnknownTemplateLeavesResponseUntouched(t *testing.T) {
	e := New(testFS, funcs, CacheDefault)
	w := httptest.NewRecorder()
	assert.Error(t, e.Render(w, http.StatusOK, "missing", nil))
	assert.Empty(t, w.Body.String())
	assert.Empty(t, w.Header().Get("Content-Type"))
}

func TestRender_CachesParsedSet(t *testing.T) {
	e := New(testFS, funcs, CacheDefault)
	_, err := renderBody(e, "page", map[string]string{"Name": "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, e.sets.Len())

	e = New(testFS, funcs, CacheSkip)
	_, err = renderBody(e, "page", map[string]string{"Name": "a"})
	require.NoError(t, err)
	assert.Equal(t, 0, e.sets.Len())
}

func TestDict(t *testing.T) {
	assert.Equal(t, map[string]any{"a": 1, "b": "x"}, dict("a", 1, "b", "x", "dangling"))
}
