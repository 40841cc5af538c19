// internal/config/model.go
//
// Typed configuration model.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                         – dotenv values,
//   • `conf/global.yaml`                      – primary static file,
//   • `ADEPT_`-prefixed environment overrides – highest precedence.
//
// A `csrf.key` beginning with `vault:` is kept verbatim here; cmd/web
// resolves it through internal/vault at boot.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • Durations accept Go syntax (“30m”, “10s”).
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import (
	"strings"
	"time"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"gte=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"gte=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
	DevTemplates    bool          `koanf:"dev_templates"`
}

//
// Auth section
//

// Auth points at the remote authentication service.  Timeout 0 leaves the
// request bounded only by the caller’s context.
type Auth struct {
	BaseURL   string        `koanf:"base_url"   validate:"required,url"`
	LoginPath string        `koanf:"login_path" validate:"omitempty,startswith=/"`
	Timeout   time.Duration `koanf:"timeout"    validate:"gte=0"`
	Debug     bool          `koanf:"debug"`
}

//
// Pages section
//

// Pages sizes the in-memory page-view store.
type Pages struct {
	Capacity int           `koanf:"capacity" validate:"gte=0"`
	IdleTTL  time.Duration `koanf:"idle_ttl" validate:"gte=0"`
}

//
// CSRF section
//

// CSRF carries the token signing key: base64url, or a vault reference.
type CSRF struct {
	Key string `koanf:"key"`
}

// VaultRef splits “vault:<path>#<key>”.  ok is false for plain keys.
func (c CSRF) VaultRef() (path, key string, ok bool) {
	ref, found := strings.CutPrefix(c.Key, "vault:")
	if !found {
		return "", "", false
	}
	path, key, found = strings.Cut(ref, "#")
	if !found || path == "" || key == "" {
		return "", "", false
	}
	return path, key, true
}

//
// Log section
//

// Log controls the file sink.  Empty Dir means `<root>/logs`.
type Log struct {
	Dir   string `koanf:"dir"`
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // ADEPT_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP  HTTP  `koanf:"http"`
	Auth  Auth  `koanf:"auth"`
	Pages Pages `koanf:"pages"`
	CSRF  CSRF  `koanf:"csrf"`
	Log   Log   `koanf:"log"`
	Paths Paths `koanf:"-"`
}
