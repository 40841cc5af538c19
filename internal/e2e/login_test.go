//go:build e2e

// Browser tests for the login page.
//
// Run with:
//
//	go test -tags e2e ./internal/e2e/...
//
// Environment
// -----------
//   - BASE_URL       target a running server; empty starts one in-process.
//   - HEADLESS       "false" shows the browser.
//   - SCREENSHOTS    "true" saves a PNG for every failed test.
//   - E2E_USERNAME   live credentials (default emilys).
//   - E2E_PASSWORD   live credentials (default emilyspass).
//
// Scenarios that need a misbehaving upstream only run in-process.

package e2e

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/yanizio/adept-login/components/auth"
	"github.com/yanizio/adept-login/internal/app"
	"github.com/yanizio/adept-login/internal/authapi"
	"github.com/yanizio/adept-login/internal/session"
)

const liveAuthURL = "https://dummyjson.com"

/* ------------------------------------------------------------------ */
/* upstream switch                                                     */
/* ------------------------------------------------------------------ */

// switchAuth forwards to whichever authenticator the current test installs
// and counts calls.
type switchAuth struct {
	mu    sync.Mutex
	next  *authapi.Client
	calls atomic.Int32
}

func (s *switchAuth) Login(ctx context.Context, c authapi.Credentials) (*authapi.User, error) {
	s.calls.Add(1)
	s.mu.Lock()
	next := s.next
	s.mu.Unlock()
	return next.Login(ctx, c)
}

func (s *switchAuth) use(t *testing.T, baseURL string) {
	t.Helper()
	cli, err := authapi.New(authapi.Config{BaseURL: baseURL, Timeout: 10 * time.Second})
	require.NoError(t, err)
	s.mu.Lock()
	s.next = cli
	s.mu.Unlock()
	s.calls.Store(0)
}

/* ------------------------------------------------------------------ */
/* suite state                                                         */
/* ------------------------------------------------------------------ */

var (
	baseURL   string
	inProcess bool
	upstream  = &switchAuth{}

	pw      *playwright.Playwright
	browser playwright.Browser

	// expect auto-waits up to its timeout, so assertions made right after a
	// submit see the new document rather than the old one.
	expect = playwright.NewPlaywrightAssertions(15000)
)

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		inProcess = true
		cli, err := authapi.New(authapi.Config{BaseURL: liveAuthURL})
		if err != nil {
			fmt.Fprintln(os.Stderr, "auth client:", err)
			return 1
		}
		upstream.next = cli

		h, err := app.Handler(ctx, app.Options{Auth: upstream, Pages: session.Config{Capacity: 100}})
		if err != nil {
			fmt.Fprintln(os.Stderr, "router:", err)
			return 1
		}
		srv := httptest.NewServer(h)
		defer srv.Close()
		baseURL = srv.URL
	}

	var err error
	if pw, err = playwright.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "playwright unavailable, skipping:", err)
		return 0
	}
	defer func() { _ = pw.Stop() }()

	browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(os.Getenv("HEADLESS") != "false"),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "chromium unavailable, skipping:", err)
		return 0
	}
	defer func() { _ = browser.Close() }()

	return m.Run()
}

/* ------------------------------------------------------------------ */
/* helpers                                                             */
/* ------------------------------------------------------------------ */

func openLogin(t *testing.T) *LoginPage {
	t.Helper()
	bctx, err := browser.NewContext()
	require.NoError(t, err)

	page, err := bctx.NewPage()
	require.NoError(t, err)
	page.SetDefaultTimeout(15000)

	t.Cleanup(func() {
		if t.Failed() && os.Getenv("SCREENSHOTS") == "true" {
			dir := filepath.Join("test-results", "screenshots")
			_ = os.MkdirAll(dir, 0o755)
			_, _ = page.Screenshot(playwright.PageScreenshotOptions{
				Path: playwright.String(filepath.Join(dir, fmt.Sprintf("%s_%d.png", filepath.Base(t.Name()), time.Now().Unix()))),
			})
		}
		_ = bctx.Close()
	})

	lp := NewLoginPage(page, baseURL)
	require.NoError(t, lp.Open())
	return lp
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireInProcess(t *testing.T) {
	t.Helper()
	if !inProcess {
		t.Skip("needs an in-process server; unset BASE_URL")
	}
}

func assertEditable(t *testing.T, lp *LoginPage) {
	t.Helper()
	assert.NoError(t, expect.Locator(lp.Username()).ToBeEditable())
	assert.NoError(t, expect.Locator(lp.Password()).ToBeEditable())
	assert.NoError(t, expect.Locator(lp.SubmitButton()).ToBeEnabled())
	assert.NoError(t, expect.Locator(lp.SubmitButton()).ToHaveText("Login"))
}

/* ------------------------------------------------------------------ */
/* scenarios                                                           */
/* ------------------------------------------------------------------ */

func TestLogin_FormContract(t *testing.T) {
	lp := openLogin(t)

	assert.NoError(t, expect.Locator(lp.Username()).ToBeVisible())
	assert.NoError(t, expect.Locator(lp.Password()).ToBeVisible())
	assert.NoError(t, expect.Locator(lp.SubmitButton()).ToHaveText("Login"))
	assert.NoError(t, expect.Locator(lp.ForgotPassword()).ToBeVisible())
	assert.NoError(t, expect.Locator(lp.Banner()).ToBeHidden())
	assert.NoError(t, expect.Locator(lp.WelcomeHeading()).ToHaveCount(0))
}

func TestLogin_ValidCredentials(t *testing.T) {
	if inProcess {
		upstream.use(t, liveAuthURL)
	}
	lp := openLogin(t)

	res, err := lp.Login(env("E2E_USERNAME", "emilys"), env("E2E_PASSWORD", "emilyspass"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.Status())

	require.NoError(t, expect.Locator(lp.WelcomeHeading()).ToHaveText("Welcome!"))
	assert.NoError(t, expect.Locator(lp.FullName()).ToContainText("Emily"))
	assert.NoError(t, expect.Locator(lp.FullName()).ToContainText("Johnson"))
	assert.NoError(t, expect.Locator(lp.Username()).ToHaveCount(0), "form must not render alongside the welcome view")
}

func TestLogin_EmptyFields(t *testing.T) {
	if inProcess {
		upstream.use(t, liveAuthURL)
	}
	lp := openLogin(t)

	res, err := lp.Submit()
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, res.Status())

	require.NoError(t, expect.Locator(lp.Banner()).ToHaveText("Error na !!"))
	assert.NoError(t, expect.Locator(lp.FieldError("username")).ToHaveText("Username is required"))
	assert.NoError(t, expect.Locator(lp.FieldError("password")).ToHaveText("Password is required"))
	if inProcess {
		assert.Zero(t, upstream.calls.Load())
	}
}

func TestLogin_ShortUsername(t *testing.T) {
	if inProcess {
		upstream.use(t, liveAuthURL)
	}
	lp := openLogin(t)

	_, err := lp.Login("ab", "x")
	require.NoError(t, err)

	require.NoError(t, expect.Locator(lp.FieldError("username")).ToHaveText("Username must be 3-10 characters"))
	assert.NoError(t, expect.Locator(lp.FieldError("password")).ToBeHidden())
	assert.NoError(t, expect.Locator(lp.Username()).ToHaveAttribute("aria-invalid", "true"))
	assert.NoError(t, expect.Locator(lp.Username()).ToHaveAttribute("aria-describedby", "username-error"))
	if inProcess {
		assert.Zero(t, upstream.calls.Load())
	}
}

func TestLogin_EditClearsFieldError(t *testing.T) {
	lp := openLogin(t)
	_, err := lp.Submit()
	require.NoError(t, err)
	require.NoError(t, expect.Locator(lp.FieldError("username")).ToHaveText("Username is required"))

	require.NoError(t, lp.Username().Fill("emilys"))

	assert.NoError(t, expect.Locator(lp.FieldError("username")).ToBeHidden())
	assert.NoError(t, expect.Locator(lp.FieldError("password")).ToHaveText("Password is required"))
	assert.NoError(t, expect.Locator(lp.Banner()).ToBeHidden())
}

func TestLogin_UpstreamRejects(t *testing.T) {
	requireInProcess(t)
	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	t.Cleanup(stub.Close)
	upstream.use(t, stub.URL)

	lp := openLogin(t)
	_, err := lp.Login("emilys", "wrong")
	require.NoError(t, err)

	require.NoError(t, expect.Locator(lp.Banner()).ToHaveText("Error again !!"))
	assertEditable(t, lp)
	assert.EqualValues(t, 1, upstream.calls.Load())
}

func TestLogin_UpstreamUnreachable(t *testing.T) {
	requireInProcess(t)
	stub := httptest.NewServer(http.NotFoundHandler())
	dead := stub.URL
	stub.Close()
	upstream.use(t, dead)

	lp := openLogin(t)
	_, err := lp.Login("emilys", "emilyspass")
	require.NoError(t, err)

	require.NoError(t, expect.Locator(lp.Banner()).ToHaveText("Error again !!"))
	assertEditable(t, lp)
}
