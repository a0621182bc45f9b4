package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError names the offending field alongside a human message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one validation pass,
// rather than failing on the first.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidateConfig checks c for internally inconsistent or unusable values.
// It returns nil if c is valid, or a non-nil ValidationErrors otherwise.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{Field: "version", Message: fmt.Sprintf("unsupported version %d", c.Version)})
	}

	errs = append(errs, validateURLs("calendars.servers", c.Calendars.Servers)...)
	errs = append(errs, validateURLs("block_explorers.base_urls", c.BlockExplorers.BaseURLs)...)

	if c.Limits.MaxDepth <= 0 {
		errs = append(errs, ValidationError{Field: "limits.max_depth", Message: "must be positive"})
	}
	if c.Limits.MaxVarbytes <= 0 {
		errs = append(errs, ValidationError{Field: "limits.max_varbytes", Message: "must be positive"})
	}
	if c.Limits.MaxCalendarResponseBytes <= 0 {
		errs = append(errs, ValidationError{Field: "limits.max_calendar_response_bytes", Message: "must be positive"})
	}

	if c.Receipts.Enabled && c.Receipts.Path == "" {
		errs = append(errs, ValidationError{Field: "receipts.path", Message: "required when receipts.enabled is true"})
	}

	switch c.Logging.Format {
	case "", "text", "json":
	default:
		errs = append(errs, ValidationError{Field: "logging.format", Message: "must be \"text\" or \"json\""})
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateURLs(field string, urls []string) ValidationErrors {
	var errs ValidationErrors
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("%q is not an absolute URL", raw)})
		}
	}
	return errs
}
