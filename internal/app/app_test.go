package app_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/yanizio/adept-login/components/auth"
	"github.com/yanizio/adept-login/internal/app"
	"github.com/yanizio/adept-login/internal/authapi"
	"github.com/yanizio/adept-login/internal/form"
	"github.com/yanizio/adept-login/internal/session"
)

type nopAuth struct{}

func (nopAuth) Login(context.Context, authapi.Credentials) (*authapi.User, error) {
	return &authapi.User{FirstName: "Emily", LastName: "Johnson"}, nil
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h, err := app.Handler(ctx, app.Options{
		Auth:  nopAuth{},
		Pages: session.Config{Capacity: 8},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	res, err := http.Get(url)
	require.NoError(t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(b)
}

func TestHandler_Healthz(t *testing.T) {
	srv := newServer(t)
	res, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "ok", body)
	assert.NotEmpty(t, res.Header.Get("Content-Security-Policy"))
}

func TestHandler_Metrics(t *testing.T) {
	srv := newServer(t)
	res, body := get(t, srv.URL+"/metrics")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "login_pages_active")
}

func TestHandler_LoginMounted(t *testing.T) {
	srv := newServer(t)
	res, body := get(t, srv.URL+"/login")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `id="login-form"`)
}

func TestHandler_NoAuthenticator(t *testing.T) {
	_, err := app.Handler(context.Background(), app.Options{})
	assert.Error(t, err)
}

// Each Handler call gets its own component instance, so a page opened on
// one router is unknown to another.
func TestHandler_RoutersDoNotSharePages(t *testing.T) {
	a, b := newServer(t), newServer(t)

	_, html := get(t, a.URL+"/login")
	id := regexp.MustCompile(`name="page_id" value="([^"]+)"`).FindStringSubmatch(html)
	tok := regexp.MustCompile(`name="csrf_token" value="([^"]+)"`).FindStringSubmatch(html)
	require.Len(t, id, 2)
	require.Len(t, tok, 2)

	field := func(srv *httptest.Server) int {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/login/field",
			strings.NewReader(url.Values{"page_id": {id[1]}, "name": {"username"}, "value": {"x"}}.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set(form.TokenHeader, tok[1])
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		res.Body.Close()
		return res.StatusCode
	}

	assert.Equal(t, http.StatusOK, field(a))
	assert.Equal(t, http.StatusNotFound, field(b))
}
