// Package validation holds the input rules shared by request payloads and
// services, built on ozzo-validation.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"

	"github.com/dmitrijs2005/jobboard/internal/common"
)

// Password length limits for registration.
const (
	PasswordMinLength = 6
	PasswordMaxLength = 36
)

var (
	countryCodeRe  = regexp.MustCompile(`^[A-Za-z]{2}$`)
	languageCodeRe = regexp.MustCompile(`^[a-z]{2}(-[a-z]{2})?$`)
)

// Email validates an email address.
var Email = []validation.Rule{validation.Required, is.Email, validation.Length(3, 255)}

// Password validates a registration password.
var Password = []validation.Rule{validation.Required, validation.Length(PasswordMinLength, PasswordMaxLength)}

// CountryCode accepts two ASCII letters in either case.
var CountryCode = validation.Match(countryCodeRe).Error("must be a two-letter country code")

// LanguageCode accepts "lv" or "pt-br" style codes (lower case).
var LanguageCode = validation.Match(languageCodeRe).Error("must be a language code such as lv")

// ErrInvalidPhone is returned for numbers that cannot be parsed or are not
// valid for their region.
var ErrInvalidPhone = errors.New("must be a valid phone number")

// NormalizePhone parses raw, falling back to region for numbers without a
// country prefix, and returns it in E.164 form.
func NormalizePhone(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	num, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Phone is a rule accepting string or *string values that NormalizePhone
// can handle. Empty values pass; combine with validation.Required if needed.
func Phone(region string) validation.Rule {
	return validation.By(func(value interface{}) error {
		v, isNil := validation.Indirect(value)
		if isNil || validation.IsEmpty(v) {
			return nil
		}
		s, ok := v.(string)
		if !ok {
			return ErrInvalidPhone
		}
		_, err := NormalizePhone(s, region)
		return err
	})
}

// Invalid wraps a validation failure so it maps to a 400 response.
func Invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", common.ErrorValidation, err)
}

// Value runs rules against a single value and wraps any failure with
// Invalid, prefixing it with name.
func Value(name string, value interface{}, rules ...validation.Rule) error {
	if err := validation.Validate(value, rules...); err != nil {
		return Invalid(validation.Errors{name: err})
	}
	return nil
}
