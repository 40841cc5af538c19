// internal/login/validate.go
//
// Login validator.
//
// Context
// -------
// The username and password rules are declared in the auth component’s
// form definition (forms/login.yaml) and evaluated by the generic forms
// engine.  This file binds that definition to the two login fields and
// converts the engine’s []ErrorField into FieldErrors keyed by Field.
//
// Notes
// -----
// • Validate is pure and total; it never returns an error.
// • Oxford commas, two spaces after periods.
package login

import (
	"fmt"

	"github.com/yanizio/adept-login/internal/form"
)

// Field names a login input.
type Field string

const (
	FieldUsername Field = "username"
	FieldPassword Field = "password"
)

// Fields lists the login inputs in render order.
var Fields = []Field{FieldUsername, FieldPassword}

// valid reports whether f is one of the login inputs.
func (f Field) valid() bool { return f == FieldUsername || f == FieldPassword }

// Credentials holds the raw, untrimmed field values.
type Credentials struct {
	Username string
	Password string
}

func (c Credentials) get(f Field) string {
	if f == FieldUsername {
		return c.Username
	}
	return c.Password
}

func (c *Credentials) set(f Field, v string) {
	if f == FieldUsername {
		c.Username = v
		return
	}
	c.Password = v
}

// FieldErrors maps a field to its message.  A field without an entry is
// valid.
type FieldErrors map[Field]string

// Validator applies the login form definition to Credentials.
type Validator struct {
	fd *form.FormDef
}

// NewValidator binds fd.  It fails when fd lacks a login field, so a
// misnamed definition is caught at boot rather than on first submit.
func NewValidator(fd *form.FormDef) (*Validator, error) {
	if fd == nil {
		return nil, fmt.Errorf("login: nil form definition")
	}
	for _, f := range Fields {
		if fd.Field(string(f)) == nil {
			return nil, fmt.Errorf("login: form %q has no %q field", fd.ID, f)
		}
	}
	return &Validator{fd: fd}, nil
}

// Form returns the bound definition.
func (v *Validator) Form() *form.FormDef { return v.fd }

// Validate returns the errors for c, possibly none.
func (v *Validator) Validate(c Credentials) FieldErrors {
	values := make(map[string]string, len(Fields))
	for _, f := range Fields {
		values[string(f)] = c.get(f)
	}

	out := FieldErrors{}
	for _, e := range form.Validate(v.fd, values) {
		if f := Field(e.Name); f.valid() {
			out[f] = e.Message
		}
	}
	return out
}
