// internal/form/definition.go
//
// Adept – Forms subsystem: YAML definition loader.
//
// Context
//   Each HTML form is declared in a YAML file.  The file defines the form’s
//   identifier, title, fields, per-rule error messages, and the form-level
//   banner messages.  Components ship their definitions inside an embedded
//   fs.FS under “forms/”; RegisterForms walks that tree at start-up and
//   stores every FormDef in an in-memory registry.  The renderer and the
//   validator fetch definitions from this registry by ID, so there is a
//   single source of truth for both the HTML hints and the server rules.
//
// Workflow
//   •  Structs mirror the YAML schema: FormDef → FieldDef → Messages.
//   •  ParseFormDef decodes one YAML document and validates structural rules.
//   •  RegisterForms walks an fs.FS, discovers YAMLs, parses them, and adds
//      them to the registry.  Later registrations override earlier ones.
//   •  GetFormDef offers safe, read-only access to a parsed form by ID.
//
// Style
//   Comments follow Adept’s guide: full sentences, two spaces after periods,
//   Oxford commas, and clear roles.  Helper comments use short noun phrases.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
//
// The form is uniquely identified by ID which should be namespaced by component,
// e.g. “auth/login”.  Fields are validated and rendered in definition order.
type FormDef struct {
	ID       string       `yaml:"id"`       // Component-scoped identifier.
	Title    string       `yaml:"title"`    // Display title, optional.
	Fields   []FieldDef   `yaml:"fields"`   // Ordered list of inputs.
	Messages FormMessages `yaml:"messages"` // Form-level banner text.
}

// FormMessages holds the banner text shown above the submit button.
type FormMessages struct {
	Invalid string `yaml:"invalid"` // Shown when any field fails validation.
	Failed  string `yaml:"failed"`  // Shown when the submission itself fails.
}

// FieldDef describes a single input control on the form.  Validation metadata
// lives inline so the server enforces the same rules the markup hints at.
type FieldDef struct {
	Name        string        `yaml:"name"`        // Submission key.  Required.
	Label       string        `yaml:"label"`       // Human-readable label.  Required.
	Type        string        `yaml:"type"`        // text, password, email.
	Placeholder string        `yaml:"placeholder"` // Optional placeholder text.
	Required    bool          `yaml:"required"`    // True if input is mandatory.
	MinLength   int           `yaml:"minlength"`   // ≥ 0, 0 means unset.
	MaxLength   int           `yaml:"maxlength"`   // ≥ 0, 0 means unset.
	Pattern     string        `yaml:"pattern"`     // Regex the whole value must match.
	Messages    FieldMessages `yaml:"messages"`    // Per-rule overrides, optional.

	re *regexp.Regexp // compiled Pattern, set by validateField
}

// FieldMessages overrides the default text of each rule.
type FieldMessages struct {
	Required string `yaml:"required"`
	Length   string `yaml:"length"`
	Pattern  string `yaml:"pattern"`
}

// Field returns the named FieldDef, or nil.
func (fd *FormDef) Field(name string) *FieldDef {
	for i := range fd.Fields {
		if fd.Fields[i].Name == name {
			return &fd.Fields[i]
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

// registry maps compositeID (“comp/form”) → *FormDef.  Guarded by mutex.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]*FormDef)
)

// GetFormDef returns a parsed FormDef by composite ID (“component/form”).
// The boolean is false when the ID is unknown.
func GetFormDef(id string) (*FormDef, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fd, ok := registry[id]
	return fd, ok
}

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

// ParseFormDef decodes one YAML document, validates its structure, and
// returns a populated FormDef.  It NEVER mutates the global registry.  name
// is only used in error messages.
func ParseFormDef(name string, raw []byte) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", name, err)
	}

	if err := validateFormDef(&fd, name); err != nil {
		return nil, err
	}

	return &fd, nil
}

// RegisterForms walks fsys from root and loads every “*.yaml” it finds.
// Parse errors fail fast so broken definitions surface at boot.
//
// Example:
//
//	//go:embed forms
//	var assets embed.FS
//	err := form.RegisterForms(assets, "forms")
func RegisterForms(fsys fs.FS, root string) error {
	if fsys == nil {
		return errors.New("RegisterForms: nil filesystem")
	}

	return fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".yaml") {
			return nil // skip non-YAML
		}

		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("read form file %s: %w", path, err)
		}
		fd, err := ParseFormDef(path, raw)
		if err != nil {
			return err
		}
		register(fd)
		return nil
	})
}

// register inserts or overrides the form in the global registry.  Caller must
// ensure the FormDef passed validation.
func register(fd *FormDef) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[fd.ID] = fd
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

// validateFormDef enforces structural rules that cannot be expressed via YAML
// tags alone.  It returns a descriptive error referencing the offending file.
func validateFormDef(fd *FormDef, path string) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", path)
	}
	if len(fd.Fields) == 0 {
		return fmt.Errorf("form definition %s: must have 'fields'", path)
	}

	fieldNames := make(map[string]struct{})
	for i := range fd.Fields {
		if err := validateField(&fd.Fields[i], path); err != nil {
			return err
		}
		if _, dup := fieldNames[fd.Fields[i].Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", path, fd.Fields[i].Name)
		}
		fieldNames[fd.Fields[i].Name] = struct{}{}
	}

	return nil
}

// validateField confirms that essential attributes are present and sane.
func validateField(f *FieldDef, path string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", path)
	}
	if f.Label == "" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", path, f.Name)
	}
	switch f.Type {
	case "text", "password", "email":
	case "":
		return fmt.Errorf("form %s: field '%s' missing 'type'", path, f.Name)
	default:
		return fmt.Errorf("form %s: field '%s' unsupported type %q", path, f.Name, f.Type)
	}

	if f.Pattern != "" {
		// Anchor so the whole value must match, like the HTML pattern attribute.
		re, err := regexp.Compile(`^(?:` + f.Pattern + `)$`)
		if err != nil {
			return fmt.Errorf("form %s: field '%s' invalid regex pattern: %v", path, f.Name, err)
		}
		f.re = re
	}

	if f.MinLength < 0 || f.MaxLength < 0 {
		return fmt.Errorf("form %s: field '%s' minlength/maxlength cannot be negative", path, f.Name)
	}
	if f.MaxLength > 0 && f.MinLength > f.MaxLength {
		return fmt.Errorf("form %s: field '%s' minlength greater than maxlength", path, f.Name)
	}

	return nil
}
