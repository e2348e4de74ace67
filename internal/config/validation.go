package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/giantswarm/contacts/pkg/logging"
)

// ValidationError represents a validation error with context
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

// ValidationErrors is a collection of validation errors
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
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
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

// ValidateOneOf checks if a value is one of the allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

// Validate checks a configuration for values the application cannot work
// with. All problems are collected before returning.
func Validate(cfg ContactsConfig) error {
	var errs ValidationErrors

	if strings.TrimSpace(cfg.Mailbox.Path) == "" {
		errs.Add("mailbox.path", "is required", cfg.Mailbox.Path)
	}
	if cfg.Mailbox.Debounce < 0 {
		errs.Add("mailbox.debounce", "must not be negative", cfg.Mailbox.Debounce)
	}

	if u, err := url.Parse(cfg.Profile.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs.Add("profile.baseURL", "must be an absolute URL", cfg.Profile.BaseURL)
	}
	if cfg.Profile.AvatarSize <= 0 || cfg.Profile.AvatarSize > 2048 {
		errs.Add("profile.avatarSize", "must be between 1 and 2048", cfg.Profile.AvatarSize)
	}
	if cfg.Profile.Scale <= 0 {
		errs.Add("profile.scale", "must be positive", cfg.Profile.Scale)
	}
	if cfg.Profile.Timeout <= 0 {
		errs.Add("profile.timeout", "must be positive", cfg.Profile.Timeout)
	}
	if cfg.Profile.MaxRetries == 0 {
		errs.Add("profile.maxRetries", "must be at least 1", cfg.Profile.MaxRetries)
	}
	if cfg.Profile.Concurrency <= 0 {
		errs.Add("profile.concurrency", "must be positive", cfg.Profile.Concurrency)
	}

	if err := ValidateOneOf("view.layout", cfg.View.Layout, []string{LayoutList, LayoutGrid}); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if cfg.View.GridColumns <= 0 {
		errs.Add("view.gridColumns", "must be positive", cfg.View.GridColumns)
	}
	if _, err := template.New("detail").Funcs(sprig.TxtFuncMap()).Parse(cfg.View.DetailTemplate); err != nil {
		errs.Add("view.detailTemplate", fmt.Sprintf("does not parse: %v", err))
	}

	if cfg.Simulate.MaxPerKind < 0 {
		errs.Add("simulate.maxPerKind", "must not be negative", cfg.Simulate.MaxPerKind)
	}
	if cfg.Simulate.MinimumEntities < 0 {
		errs.Add("simulate.minimumEntities", "must not be negative", cfg.Simulate.MinimumEntities)
	}

	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		errs.Add("logLevel", "must be one of: debug, info, warn, error", cfg.LogLevel)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
