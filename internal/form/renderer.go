// internal/form/renderer.go
//
// Adept – Forms subsystem: HTML renderer.
//
// Context
//   Given a parsed FormDef (from definition.go) this file converts the
//   definition into safe, accessible HTML markup.  The renderer applies
//   HTML5 validation attributes as hints, wires field-level error messages
//   through aria-invalid and aria-describedby, injects a CSRF token and any
//   caller-supplied hidden inputs, and honours pre-fill data.
//
// Workflow
//   •  Render walks a FormDef (see GetFormDef) and writes each field via
//      writeField, in definition order.
//   •  Every field has a <p id="{name}-error"> sibling so scripts can fill it
//      in place.  It carries the hidden attribute unless RenderOptions.Errors
//      has a message for the field, in which case the input also gets
//      aria-invalid="true" and aria-describedby="{name}-error".
//   •  A cryptographically strong CSRF token is generated via GenerateToken
//      (csrf.go) and embedded as a hidden <input>.
//   •  The caller receives the final HTML as template.HTML so the surrounding
//      template does not double-escape the markup.
//
// Style
//   Output HTML is deliberately plain so themes can style via element
//   selectors or class hooks.  Each input gets id="fld-{name}" and is wrapped
//   in <div class="form-field">.  The surrounding <form> should carry
//   novalidate so the server, not the browser, decides what is valid.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"sort"
	"strconv"
	"time"
)

// RenderOptions bundles optional parameters influencing HTML output.
type RenderOptions struct {
	// Prefill provides initial field values keyed by field name.  Password
	// fields are never pre-filled.
	Prefill map[string]string
	// Errors maps field name to the message shown under that field.
	Errors map[string]string
	// Disabled renders every input as disabled, e.g. while a submission is
	// outstanding.
	Disabled bool
	// Hidden lists extra hidden inputs (name → value).
	Hidden map[string]string
}

// Render returns the HTML markup for fd.
func Render(fd *FormDef, opts RenderOptions) (template.HTML, error) {
	var buf bytes.Buffer
	buf.WriteString(`<div class="adept-form">` + "\n")

	for i := range fd.Fields {
		f := &fd.Fields[i]
		writeField(&buf, f, prefillValue(f.Name, opts.Prefill), opts.Errors[f.Name], opts.Disabled)
	}

	// Hidden meta inputs, sorted for stable output.
	names := make([]string, 0, len(opts.Hidden))
	for n := range opts.Hidden {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		writeHidden(&buf, n, opts.Hidden[n])
	}
	writeHidden(&buf, TokenField, csrfGenerateToken())

	buf.WriteString(`</div>`)
	return template.HTML(buf.String()), nil
}

// writeField emits HTML for an individual field into buf, applying prefill,
// validation hints, and the error message when present.
func writeField(buf *bytes.Buffer, f *FieldDef, val, errMsg string, disabled bool) {
	name := html.EscapeString(f.Name)
	id := "fld-" + name
	errID := name + "-error"

	buf.WriteString(`<div class="form-field">` + "\n")

	// Label first (for accessibility)
	buf.WriteString(`<label for="` + id + `">` + html.EscapeString(f.Label) + `</label>` + "\n")

	buf.WriteString(`<input id="` + id + `" name="` + name + `" type="` + f.Type + `"`)
	buf.WriteString(` aria-label="` + html.EscapeString(f.Label) + `"`)
	if f.Placeholder != "" {
		buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
	}
	if f.Required {
		buf.WriteString(` required`)
	}
	if f.MinLength > 0 {
		buf.WriteString(` minlength="` + strconv.Itoa(f.MinLength) + `"`)
	}
	if f.MaxLength > 0 {
		buf.WriteString(` maxlength="` + strconv.Itoa(f.MaxLength) + `"`)
	}
	if f.Pattern != "" {
		buf.WriteString(` pattern="` + html.EscapeString(f.Pattern) + `"`)
	}
	if val != "" && f.Type != "password" {
		buf.WriteString(` value="` + html.EscapeString(val) + `"`)
	}
	if errMsg != "" {
		buf.WriteString(` aria-invalid="true" aria-describedby="` + errID + `"`)
	} else {
		buf.WriteString(` aria-invalid="false"`)
	}
	if disabled {
		buf.WriteString(` disabled`)
	}
	buf.WriteString(`>` + "\n")

	buf.WriteString(`<p id="` + errID + `" class="field-error"`)
	if errMsg == "" {
		buf.WriteString(` hidden`)
	}
	buf.WriteString(`>` + html.EscapeString(errMsg) + `</p>` + "\n")

	buf.WriteString(`</div>` + "\n")
}

func writeHidden(buf *bytes.Buffer, name, value string) {
	buf.WriteString(`<input type="hidden" name="` + html.EscapeString(name) + `" value="` + html.EscapeString(value) + `">` + "\n")
}

// prefillValue returns previously submitted value or empty string.
func prefillValue(name string, pre map[string]string) string {
	if pre == nil {
		return ""
	}
	return pre[name]
}

// csrfGenerateToken wraps GenerateToken so a render never fails on a token.
func csrfGenerateToken() string {
	token, err := GenerateToken()
	if err != nil {
		// Fall back to timestamp-based token on unexpected failure (extremely rare).
		// It will not verify, so the POST is rejected instead of trusted.
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return token
}
