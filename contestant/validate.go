package contestant

import (
	"errors"
	"fmt"
	"net/url"
)

// Validation sentinels wrapped by FieldError.
var (
	ErrEmptyField    = errors.New("empty field")
	ErrInvalidURL    = errors.New("invalid absolute URL")
	ErrNoContestants = errors.New("no contestants")
)

// FieldError reports one invalid field. Index is -1 for top-level fields.
type FieldError struct {
	Index int
	Name  string
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
	}

	return fmt.Sprintf("contestants[%d] (%s).%s %q: %v",
		e.Index, e.Name, e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// IsAbsoluteURL reports whether s parses as a URL with scheme and host.
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	return u.Scheme != "" && u.Host != ""
}

// Validate checks every contestant and the tests locator and returns all
// violations joined together, or nil.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("validate: nil config")
	}

	var errs []error

	if !IsAbsoluteURL(cfg.Tests) {
		errs = append(errs, &FieldError{
			Index: -1, Field: "tests", Value: cfg.Tests,
			Err: locatorErr(cfg.Tests),
		})
	}

	if len(cfg.Contestants) == 0 {
		errs = append(errs, ErrNoContestants)
	}

	for i, c := range cfg.Contestants {
		if c.Name == "" {
			errs = append(errs, &FieldError{
				Index: i, Field: "name", Err: ErrEmptyField,
			})
		}

		for _, f := range []struct{ field, value string }{
			{"url", c.URL},
			{"benchmarkUrl", c.BenchmarkURL},
		} {
			if IsAbsoluteURL(f.value) {
				continue
			}

			errs = append(errs, &FieldError{
				Index: i, Name: c.Name, Field: f.field, Value: f.value,
				Err: locatorErr(f.value),
			})
		}
	}

	return errors.Join(errs...)
}

func locatorErr(value string) error {
	if value == "" {
		return ErrEmptyField
	}

	return ErrInvalidURL
}
