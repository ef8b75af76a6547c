package manifest

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ValidationError represents a single schema violation with its field context.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors. Validation always
// runs the full schema so a user can fix a manifest in one edit cycle.
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("manifest validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Fields returns the offending field names in reporting order.
func (ve ValidationErrors) Fields() []string {
	fields := make([]string, 0, len(ve))
	for _, err := range ve {
		fields = append(fields, err.Field)
	}
	return fields
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// namePattern constrains entry names to characters every tool document
// accepts as an object key without escaping surprises.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Validate checks the manifest against the schema and returns every
// violation found, or nil when the manifest is valid.
func (m *Manifest) Validate() error {
	var errs ValidationErrors

	if m.Version != CurrentVersion {
		errs.Add("version", fmt.Sprintf("unsupported version %d (this build supports %d)", m.Version, CurrentVersion), m.Version)
	}
	if strings.TrimSpace(m.Name) == "" {
		errs.Add("name", "is required")
	} else if !namePattern.MatchString(m.Name) {
		errs.Add("name", "must start with a letter or digit and contain only letters, digits, '_', '.', '-'", m.Name)
	}
	if m.Stdio == nil && m.HTTP == nil {
		errs.Add("stdio", "at least one of stdio or http must be present")
		errs.Add("http", "at least one of stdio or http must be present")
	}
	if m.Stdio != nil && strings.TrimSpace(m.Stdio.Command) == "" {
		errs.Add("stdio.command", "is required when stdio is present")
	}
	if m.HTTP != nil {
		u, err := url.Parse(m.HTTP.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs.Add("http.url", "must be an absolute URL", m.HTTP.URL)
		}
	}
	for key := range m.Env {
		if strings.TrimSpace(key) == "" {
			errs.Add("env", "contains an entry with an empty variable name")
		}
	}
	if m.TargetTools != nil && len(m.TargetTools.Include) > 0 && len(m.TargetTools.Exclude) > 0 {
		errs.Add("targetTools.include", "mutually exclusive with targetTools.exclude")
		errs.Add("targetTools.exclude", "mutually exclusive with targetTools.include")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
