// Package validator contains explicit request-body validators.  Each
// validator returns a list of field/message pairs; an empty list means the
// body is acceptable.  Handlers respond 400 with the collected errors.
package validator

import (
	"strconv"
	"time"
)

// FieldError pairs a field name with the reason it was rejected.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateLogin checks login credentials: username (or email) must be 4-320
// characters, password 4-20 characters, both required.
func ValidateLogin(username, password string) []FieldError {
	var errs []FieldError
	if username == "" {
		errs = append(errs, FieldError{"username", "username is required"})
	} else if len(username) < 4 || len(username) > 320 {
		errs = append(errs, FieldError{"username", "username must be between 4 and 320 characters"})
	}
	if password == "" {
		errs = append(errs, FieldError{"password", "password is required"})
	} else if len(password) < 4 || len(password) > 20 {
		errs = append(errs, FieldError{"password", "password must be between 4 and 20 characters"})
	}
	return errs
}

// ValidatePriceCreate checks a price insertion body: value is required and
// numeric, date is optional but must parse when present.
func ValidatePriceCreate(value, date string) []FieldError {
	var errs []FieldError
	if value == "" {
		errs = append(errs, FieldError{"value", "value is required"})
	} else if _, err := strconv.ParseFloat(value, 64); err != nil {
		errs = append(errs, FieldError{"value", "value must be a number"})
	}
	errs = append(errs, validateDate(date)...)
	return errs
}

// ValidatePriceUpdate checks a price edit body: both fields optional, same
// rules as creation when present, but at least one must be given.
func ValidatePriceUpdate(value, date string) []FieldError {
	var errs []FieldError
	if value == "" && date == "" {
		return []FieldError{{"value", "nothing to update"}}
	}
	if value != "" {
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			errs = append(errs, FieldError{"value", "value must be a number"})
		}
	}
	errs = append(errs, validateDate(date)...)
	return errs
}

func validateDate(date string) []FieldError {
	if date == "" {
		return nil
	}
	if _, err := ParseDate(date); err != nil {
		return []FieldError{{"date", "date must be an RFC 3339 timestamp or YYYY-MM-DD"}}
	}
	return nil
}

// ParseDate accepts an RFC 3339 timestamp or a bare date.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
