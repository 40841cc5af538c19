// cmd/web/main.go
//
// Adept Login – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Bootstrap console logger, then config.Load() (conf/global.yaml plus
//     ADEPT_* overrides).
//
//  3. Start daily rotating logger (tees to console when running in a TTY).
//
//  4. Resolve the CSRF signing key: a `vault:` reference is read through
//     internal/vault, anything else is decoded as base64url.  Empty means
//     a per-process key.
//
//  5. Build the remote auth client.
//
//  6. Assemble the router (internal/app) and serve until SIGINT/SIGTERM,
//     then drain within http.shutdown_timeout.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/yanizio/adept-login/internal/app"
	"github.com/yanizio/adept-login/internal/authapi"
	"github.com/yanizio/adept-login/internal/config"
	"github.com/yanizio/adept-login/internal/form"
	"github.com/yanizio/adept-login/internal/logger"
	"github.com/yanizio/adept-login/internal/server"
	"github.com/yanizio/adept-login/internal/session"
	"github.com/yanizio/adept-login/internal/vault"

	_ "github.com/yanizio/adept-login/components/auth" // login page
)

const (
	serverEnvPath = "/usr/local/etc/adept-login/global.env"
	csrfKeyTTL    = time.Hour
)

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	//
	// ── 1.  Bootstrap logger so config errors are visible ──────────────
	//
	boot, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("bootstrap logger: %v", err)
	}
	zap.ReplaceGlobals(boot)

	cfg, err := config.Load()
	if err != nil {
		boot.Sugar().Fatalw("load config", "err", err)
	}

	//
	// ── 2.  File logger ─────────────────────────────────────────────────
	//
	logOut, err := logger.New(cfg.Log.Dir, cfg.Log.Level, runningInTTY())
	if err != nil {
		boot.Sugar().Fatalw("start logger", "err", err)
	}
	defer func() { _ = logOut.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 3.  CSRF key ────────────────────────────────────────────────────
	//
	if err := installCSRFKey(ctx, cfg.CSRF, logOut); err != nil {
		logOut.Fatalw("csrf key", "err", err)
	}

	//
	// ── 4.  Remote auth client ──────────────────────────────────────────
	//
	authClient, err := authapi.New(authapi.Config{
		BaseURL:   cfg.Auth.BaseURL,
		LoginPath: cfg.Auth.LoginPath,
		Timeout:   cfg.Auth.Timeout,
		Debug:     cfg.Auth.Debug,
	})
	if err != nil {
		logOut.Fatalw("auth client", "err", err)
	}

	//
	// ── 5.  Router and server ───────────────────────────────────────────
	//
	handler, err := app.Handler(ctx, app.Options{
		Log:  logOut,
		Auth: authClient,
		Pages: session.Config{
			Capacity: cfg.Pages.Capacity,
			IdleTTL:  cfg.Pages.IdleTTL,
		},
		ForceHTTPS:   cfg.HTTP.ForceHTTPS,
		DevTemplates: cfg.HTTP.DevTemplates,
	})
	if err != nil {
		logOut.Fatalw("build router", "err", err)
	}

	srv := server.New(cfg.HTTP.ListenAddr, handler, server.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})
	ln, err := net.Listen("tcp", cfg.HTTP.ListenAddr)
	if err != nil {
		logOut.Fatalw("listen", "addr", cfg.HTTP.ListenAddr, "err", err)
	}

	logOut.Infow("listening", "addr", ln.Addr().String())
	if err := server.Serve(ctx, srv, ln, cfg.HTTP.ShutdownTimeout); err != nil {
		logOut.Fatalw("http server", "err", err)
	}
	logOut.Infow("server stopped")
}

// installCSRFKey resolves csrf.key and hands it to the form package.
func installCSRFKey(ctx context.Context, c config.CSRF, log *zap.SugaredLogger) error {
	raw := c.Key
	if path, key, ok := c.VaultRef(); ok {
		vc, err := vault.New(ctx, log)
		if err != nil {
			return err
		}
		if raw, err = vc.GetKV(ctx, path, key, csrfKeyTTL); err != nil {
			return err
		}
		log.Infow("csrf key loaded from vault", "path", path)
	}
	if raw == "" {
		return form.SetSecret(nil)
	}
	key, err := form.DecodeKey(raw)
	if err != nil {
		return err
	}
	return form.SetSecret(key)
}
