// internal/form/validate.go
//
// Adept – Forms subsystem: server-side validation.
//
// Context
//   The renderer outputs HTML hints (required, minlength, maxlength, and
//   pattern), but the browser is never trusted.  Validate applies the same
//   rules on the server, one field at a time, and returns []ErrorField so
//   templates can highlight exact issues.
//
// Workflow
//   •  Fields are checked in definition order.
//   •  Per field the rules run as required → length → pattern.  The first
//      failing rule wins and later rules are skipped.
//   •  An empty optional field passes without further checks.
//   •  Values are NOT trimmed.  Whitespace is input like any other rune.
//
// Style
//   Comments follow Adept’s guide: full sentences, two space spacing, Oxford
//   comma.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"unicode/utf8"
)

// -----------------------------------------------------------------------------
// Error types
// -----------------------------------------------------------------------------

// ErrorField describes a single validation failure so the template can render
// a field-level message.
type ErrorField struct {
	Name    string // field name
	Message string // user-facing message
}

// -----------------------------------------------------------------------------
// Public API
// -----------------------------------------------------------------------------

// Validate checks values against fd and returns one ErrorField per failing
// field, in definition order.  It has no side effects and never fails; an
// empty slice means the input is acceptable.
func Validate(fd *FormDef, values map[string]string) []ErrorField {
	var errs []ErrorField
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if msg := checkField(f, values[f.Name]); msg != "" {
			errs = append(errs, ErrorField{Name: f.Name, Message: msg})
		}
	}
	return errs
}

// checkField returns the message of the first failing rule, or "".
func checkField(f *FieldDef, val string) string {
	if val == "" {
		if f.Required {
			return requiredMsg(f)
		}
		return ""
	}
	if msg := lengthCheck(f, val); msg != "" {
		return msg
	}
	if f.re != nil && !f.re.MatchString(val) {
		return patternMsg(f)
	}
	return ""
}

// -----------------------------------------------------------------------------
// Field-level helpers
// -----------------------------------------------------------------------------

// lengthCheck validates minlength / maxlength rules.  Length is counted in
// characters so multi-byte input is not over-counted.
func lengthCheck(f *FieldDef, s string) string {
	n := utf8.RuneCountInString(s)
	if (f.MinLength > 0 && n < f.MinLength) || (f.MaxLength > 0 && n > f.MaxLength) {
		return lengthMsg(f)
	}
	return ""
}

// user-friendly default messages
func requiredMsg(f *FieldDef) string {
	if f.Messages.Required != "" {
		return f.Messages.Required
	}
	return "This field is required."
}
func lengthMsg(f *FieldDef) string {
	if f.Messages.Length != "" {
		return f.Messages.Length
	}
	switch {
	case f.MinLength > 0 && f.MaxLength > 0:
		return fmt.Sprintf("Must be %d-%d characters.", f.MinLength, f.MaxLength)
	case f.MinLength > 0:
		return fmt.Sprintf("Must be at least %d characters.", f.MinLength)
	default:
		return fmt.Sprintf("Must be at most %d characters.", f.MaxLength)
	}
}
func patternMsg(f *FieldDef) string {
	if f.Messages.Pattern != "" {
		return f.Messages.Pattern
	}
	return "Input does not match required format."
}
