// Package urlutil validates submitted URL strings and normalizes them
// to the scheme://host form used for storage and deduplication.
package urlutil

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldName is the form field key validation messages are reported under.
const FieldName = "url"

const maxLength = 255

const (
	msgRequired = "URL must not be empty"
	msgInvalid  = "Invalid URL"
	msgTooLong  = "URL must not exceed 255 characters"
)

var validate = validator.New()

// Validate checks a raw submission against the three rules (required,
// well-formed absolute URL, length limit) and returns all failing messages
// keyed by field name. The rules are evaluated independently so multiple
// messages can surface together. An empty map means the input is valid.
func Validate(raw string) map[string][]string {
	errs := make(map[string][]string)

	if err := validate.Var(raw, "required"); err != nil {
		errs[FieldName] = append(errs[FieldName], msgRequired)
	}
	if err := validate.Var(raw, "url"); err != nil {
		errs[FieldName] = append(errs[FieldName], msgInvalid)
	}
	if err := validate.Var(raw, fmt.Sprintf("max=%d", maxLength)); err != nil {
		errs[FieldName] = append(errs[FieldName], msgTooLong)
	}

	return errs
}

// Normalize lowercases the input and reduces it to its canonical
// scheme://host form, discarding path, query and fragment. The result is
// the only value persisted or used for deduplication lookups.
func Normalize(raw string) (string, error) {
	u, err := url.Parse(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return "", fmt.Errorf("failed to parse url: %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url must be absolute: %q", raw)
	}

	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), nil
}
