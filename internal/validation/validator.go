// Package validation provides tag-driven request validation. It runs
// before any external call so malformed input never costs a network
// round-trip.
package validation

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/ericfisherdev/codereview/internal/domain"
)

// FieldError describes a single violated constraint.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Result is the outcome of validating a struct.
type Result struct {
	Valid  bool          `json:"valid"`
	Errors []*FieldError `json:"errors,omitempty"`
}

// Validate checks a struct's `validate` tags and returns every
// violation. It is pure: no side effects, no network.
func Validate(s interface{}) *Result {
	result := &Result{Valid: true}

	val := reflect.ValueOf(s)
	typ := reflect.TypeOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	if val.Kind() != reflect.Struct {
		return result
	}

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)
		if !field.CanInterface() {
			continue
		}

		tag := fieldType.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := fieldType.Name
		if jsonTag := fieldType.Tag.Get("json"); jsonTag != "" {
			if part := strings.Split(jsonTag, ",")[0]; part != "" && part != "-" {
				name = part
			}
		}

		result.Errors = append(result.Errors, validateField(name, field.Interface(), tag)...)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func validateField(name string, value interface{}, tag string) []*FieldError {
	var errs []*FieldError
	for _, rule := range strings.Split(tag, ",") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		ruleName, param := rule, ""
		if idx := strings.Index(rule, "="); idx >= 0 {
			ruleName, param = rule[:idx], rule[idx+1:]
		}
		if !checkRule(value, ruleName, param) {
			errs = append(errs, &FieldError{
				Field:   name,
				Tag:     ruleName,
				Message: errorMessage(name, ruleName, param),
			})
		}
	}
	return errs
}

func checkRule(value interface{}, rule, param string) bool {
	switch rule {
	case "required":
		return checkRequired(value)
	case "min":
		return checkMin(value, param)
	case "max":
		return checkMax(value, param)
	case "positive":
		return checkPositive(value)
	default:
		// Unknown rules pass.
		return true
	}
}

func checkRequired(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case int, int32, int64:
		// Presence of an integer field is checked by "positive" where
		// zero is meaningful; required alone only rejects the zero
		// value, matching the binding layer.
		return !reflect.ValueOf(value).IsZero()
	default:
		return !reflect.ValueOf(value).IsZero()
	}
}

func checkMin(value interface{}, param string) bool {
	n, err := strconv.Atoi(param)
	if err != nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return len(v) >= n
	case int:
		return v >= n
	case int64:
		return v >= int64(n)
	default:
		return true
	}
}

func checkMax(value interface{}, param string) bool {
	n, err := strconv.Atoi(param)
	if err != nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return len(v) <= n
	case int:
		return v <= n
	case int64:
		return v <= int64(n)
	default:
		return true
	}
}

func checkPositive(value interface{}) bool {
	switch v := value.(type) {
	case int:
		return v > 0
	case int32:
		return v > 0
	case int64:
		return v > 0
	case string:
		n, err := strconv.Atoi(v)
		return err == nil && n > 0
	default:
		return true
	}
}

func errorMessage(field, rule, param string) string {
	switch rule {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, param)
	case "positive":
		return fmt.Sprintf("%s must be a positive integer", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// ValidateStruct validates s and folds violations into a single
// domain validation error. The message is intentionally generic; the
// per-field details are carried for server-side logging only and are
// never echoed to the client.
func ValidateStruct(s interface{}, message string) *domain.Error {
	result := Validate(s)
	if result.Valid {
		return nil
	}

	details := make(map[string]interface{}, len(result.Errors))
	for _, fe := range result.Errors {
		details[fe.Field] = fe.Message
	}
	return domain.NewValidationError("VALIDATION_FAILED", message, details)
}

// PositiveInt coerces a path or query parameter into a positive
// integer; pull-request numbers must satisfy this before any provider
// call is made.
func PositiveInt(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// NonEmpty reports whether every supplied identifier is a non-empty
// string after trimming.
func NonEmpty(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
