// Package validate holds input validation shared by the HTTP adapter and the
// use cases: struct-tag validation for request DTOs plus the handful of
// field checks (email, phone, URL, markup stripping) the forms rely on.
package validate

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const maxEmailLength = 254

var (
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	scriptRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	tagRe    = regexp.MustCompile(`<[^>]*>`)
	digitsRe = regexp.MustCompile(`\D`)
)

var (
	once     sync.Once
	instance *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return Phone(fl.Field().String())
		})
		_ = v.RegisterValidation("emailaddr", func(fl validator.FieldLevel) bool {
			return Email(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// Struct validates s against its `validate` tags and flattens any failures
// into a single error naming each offending JSON field.
func Struct(s any) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "emailaddr":
		return field + " must be a valid email address"
	case "phone":
		return field + " must contain 10-15 digits"
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return len(s) <= maxEmailLength && emailRe.MatchString(s)
}

// Phone accepts numbers with 10 to 15 digits once punctuation is removed.
func Phone(s string) bool {
	n := len(digitsRe.ReplaceAllString(s, ""))
	return n >= 10 && n <= 15
}

// NormalizeURL trims raw, assumes https:// when no scheme is given and
// accepts only http and https URLs with a host.
func NormalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.New("url is empty")
	}
	if !strings.HasPrefix(strings.ToLower(s), "http") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("url has no host")
	}
	return s, nil
}

// Sanitize strips script blocks and markup, trims whitespace and caps the
// result at max runes.
func Sanitize(s string, max int) string {
	s = scriptRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if max > 0 && utf8.RuneCountInString(s) > max {
		s = string([]rune(s)[:max])
	}
	return s
}
