// internal/form/submit.go
//
// Adept – Forms subsystem: consolidated Submit helper.
//
// Context
//   Most handlers want one call that parses the POST body and confirms the
//   request carries a CSRF token this process issued.  ParseSubmission
//   provides that convenience so component code stays terse.  Field rules
//   are applied separately (see validate.go) because the caller usually owns
//   state that decides when validation runs.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"net/http"
	"net/url"
)

// ErrInvalidToken is returned when the CSRF token is missing, forged, or
// expired.  Handlers typically answer 403.
var ErrInvalidToken = errors.New("form: security token invalid")

// ParseSubmission parses r and verifies its CSRF token, taken from the
// csrf_token form value or, for script-driven requests, the X-CSRF-Token
// header.  It returns the posted values.
func ParseSubmission(r *http.Request) (url.Values, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	tok := r.PostForm.Get(TokenField)
	if tok == "" {
		tok = r.Header.Get(TokenHeader)
	}
	if !VerifyToken(tok) {
		return nil, ErrInvalidToken
	}
	return r.PostForm, nil
}

// IsTokenError reports whether err came from a failed CSRF check.
func IsTokenError(err error) bool { return errors.Is(err, ErrInvalidToken) }
