// internal/login/controller.go
//
// Login form controller.
//
// Context
// -------
// A Controller owns the state of one login page view: field values, field
// errors, the banner message, the loading flag, and, after success, the
// authenticated user.  Handlers mutate it through UpdateField and Submit,
// then render from an immutable Snapshot.
//
// State machine
// -------------
//
//	Editing ──Submit(valid)──▶ Submitting ──2xx──▶ Authenticated (terminal)
//	   ▲                           │
//	   └──────non-2xx / error──────┘
//
// Submit with invalid input stays in Editing and never reaches the network.
// A Submit while Submitting is ignored, so one page view never has two
// requests in flight.
//
// Concurrency
// -----------
// State is guarded by mu.  The lock is never held across the network call;
// the Submitting state itself is the re-entrancy guard.  Settled lets a
// duplicate submit wait for the outcome of the in-flight one.
package login

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yanizio/adept-login/internal/authapi"
)

// Errors returned by Submit when it does nothing.
var (
	ErrSubmitInProgress = errors.New("login: submission already in progress")
	ErrAuthenticated    = errors.New("login: already authenticated")
)

const (
	fallbackInvalid = "Please correct the highlighted fields."
	fallbackFailed  = "Login failed.  Please try again."
)

// Authenticator performs the remote login.  *authapi.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, creds authapi.Credentials) (*authapi.User, error)
}

// State of a page view.
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// User is the part of the profile the welcome view shows.
type User struct {
	FirstName string
	LastName  string
}

// FullName joins first and last name with a single space.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Outcome classifies what a Submit call did.
type Outcome int

const (
	OutcomeIgnored  Outcome = iota // guarded, nothing happened
	OutcomeInvalid                 // validation failed, no request
	OutcomeRejected                // remote answered with a non-success status
	OutcomeFailed                  // transport, decode, or cancellation error
	OutcomeSuccess
)

func (o Outcome) String() string {
	return [...]string{"ignored", "invalid", "rejected", "error", "success"}[o]
}

// Result describes one Submit call.
type Result struct {
	Outcome Outcome
	Profile *authapi.User // full remote profile, OutcomeSuccess only
	Err     error         // cause, OutcomeRejected and OutcomeFailed only
	Elapsed time.Duration // remote round-trip, zero when no request was made
}

// Snapshot is a copy of the controller state safe to hand to templates.
type Snapshot struct {
	State       State
	Credentials Credentials
	FieldErrors FieldErrors
	SubmitError string
	Loading     bool
	User        *User
}

// Controller is safe for concurrent use.  Zero value is invalid; use New.
type Controller struct {
	validator *Validator
	auth      Authenticator
	invalid   string
	failed    string

	mu        sync.Mutex
	state     State
	creds     Credentials
	fieldErrs FieldErrors
	submitErr string
	user      *User
	settled   chan struct{} // closed while no request is outstanding
}

// New returns a Controller in the Editing state with empty fields.
func New(v *Validator, auth Authenticator) *Controller {
	c := &Controller{
		validator: v,
		auth:      auth,
		invalid:   v.fd.Messages.Invalid,
		failed:    v.fd.Messages.Failed,
		fieldErrs: FieldErrors{},
		settled:   make(chan struct{}),
	}
	if c.invalid == "" {
		c.invalid = fallbackInvalid
	}
	if c.failed == "" {
		c.failed = fallbackFailed
	}
	close(c.settled)
	return c
}

// UpdateField stores value, drops any error attached to that field, and
// clears the banner.  Errors on other fields are left alone.  Unknown
// fields, and any edit after authentication, are ignored.
func (c *Controller) UpdateField(name Field, value string) {
	if !name.valid() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateAuthenticated {
		return
	}
	c.creds.set(name, value)
	delete(c.fieldErrs, name)
	c.submitErr = ""
}

// Submit validates the current credentials and, when they pass, performs
// exactly one remote login.  It returns ErrSubmitInProgress or
// ErrAuthenticated when guarded; every other path returns a nil error and
// reports what happened in Result.
func (c *Controller) Submit(ctx context.Context) (Result, error) {
	c.mu.Lock()
	switch c.state {
	case StateSubmitting:
		c.mu.Unlock()
		return Result{Outcome: OutcomeIgnored}, ErrSubmitInProgress
	case StateAuthenticated:
		c.mu.Unlock()
		return Result{Outcome: OutcomeIgnored}, ErrAuthenticated
	}

	if errs := c.validator.Validate(c.creds); len(errs) > 0 {
		c.fieldErrs = errs
		c.submitErr = c.invalid
		c.mu.Unlock()
		return Result{Outcome: OutcomeInvalid}, nil
	}

	c.state = StateSubmitting
	c.fieldErrs = FieldErrors{}
	c.submitErr = ""
	creds := c.creds
	done := make(chan struct{})
	c.settled = done
	c.mu.Unlock()

	start := time.Now()
	profile, err := c.auth.Login(ctx, authapi.Credentials{
		Username: creds.Username,
		Password: creds.Password,
	})
	res := Result{Elapsed: time.Since(start)}
	if err == nil && profile == nil {
		err = errors.New("login: empty response")
	}

	c.mu.Lock()
	defer func() {
		c.mu.Unlock()
		close(done)
	}()

	if err != nil {
		c.state = StateEditing
		c.submitErr = c.failed
		res.Outcome = OutcomeFailed
		if authapi.IsAPIError(err) {
			res.Outcome = OutcomeRejected
		}
		res.Err = err
		return res, nil
	}

	c.user = &User{FirstName: profile.FirstName, LastName: profile.LastName}
	c.state = StateAuthenticated
	res.Outcome = OutcomeSuccess
	res.Profile = profile
	return res, nil
}

// Settled blocks until no request is outstanding or ctx is done.
func (c *Controller) Settled(ctx context.Context) error {
	c.mu.Lock()
	ch := c.settled
	c.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	errs := make(FieldErrors, len(c.fieldErrs))
	for k, v := range c.fieldErrs {
		errs[k] = v
	}
	s := Snapshot{
		State:       c.state,
		Credentials: c.creds,
		FieldErrors: errs,
		SubmitError: c.submitErr,
		Loading:     c.state == StateSubmitting,
	}
	if c.user != nil {
		u := *c.user
		s.User = &u
	}
	return s
}
