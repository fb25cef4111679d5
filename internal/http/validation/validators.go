// Package validation holds the form models accepted by the auth and profile
// pages together with their validation rules.
package validation

import (
	"errors"
	"regexp"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation"
)

var (
	upperRe  = regexp.MustCompile(`[A-Z]`)
	digitRe  = regexp.MustCompile(`[0-9]`)
	symbolRe = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// Validatable is implemented by every form.
type Validatable interface {
	Validate() error
}

// Check validates f and returns the failures keyed by form field name, or
// nil when the form is valid. Errors that are not per-field end up under
// the empty key.
func Check(f Validatable) map[string]string {
	err := f.Validate()
	if err == nil {
		return nil
	}
	var fieldErrs ozzo.Errors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"": err.Error()}
	}
	out := make(map[string]string, len(fieldErrs))
	for field, e := range fieldErrs {
		if e != nil {
			out[field] = sentence(e.Error())
		}
	}
	return out
}

// StringEquals fails when the value differs from want.
func StringEquals(want, message string) ozzo.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != want {
			return errors.New(message)
		}
		return nil
	}
}

// PasswordStrength lists which strength checks a password passes: length,
// upper-case letter, digit and symbol.
func PasswordStrength(password string) []bool {
	return []bool{
		len(password) >= 8,
		upperRe.MatchString(password),
		digitRe.MatchString(password),
		symbolRe.MatchString(password),
	}
}

func passwordRules() []ozzo.Rule {
	return []ozzo.Rule{
		ozzo.Required.Error("Password is required."),
		ozzo.Length(8, 0).Error("Password must be at least 8 characters."),
		ozzo.Match(upperRe).Error("Password must contain an uppercase letter."),
		ozzo.Match(digitRe).Error("Password must contain a number."),
		ozzo.Match(symbolRe).Error("Password must contain a symbol."),
	}
}

// sentence capitalizes ozzo's default messages and ends them with a period.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	s = strings.ToUpper(s[:1]) + s[1:]
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}
