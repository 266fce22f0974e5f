package common

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/joseph-ayodele/results-parser/constants"
	"github.com/joseph-ayodele/results-parser/internal/entity"
)

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// Validator provides validation utilities
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		errors: make([]ValidationError, 0),
	}
}

// Field validates a field and collects errors
func (v *Validator) Field(fieldName string, value interface{}, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
		}
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Error returns a combined error wrapping ErrValidation
func (v *Validator) Error() error {
	if !v.HasErrors() {
		return nil
	}

	messages := make([]string, 0, len(v.errors))
	for _, err := range v.errors {
		messages = append(messages, err.Error())
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(messages, "; "))
}

// ValidationRule represents a single validation rule
type ValidationRule func(fieldName string, value interface{}) *ValidationError

// Required - Common validation rules
func Required(fieldName string, value interface{}) *ValidationError {
	if value == nil {
		return &ValidationError{Field: fieldName, Value: value, Message: "is required"}
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return &ValidationError{Field: fieldName, Value: value, Message: "is required"}
	}
	return nil
}

var reDigits = regexp.MustCompile(`^\d+$`)

// Digits requires a non-empty string of ASCII digits.
func Digits(fieldName string, value interface{}) *ValidationError {
	s, ok := value.(string)
	if !ok || !reDigits.MatchString(s) {
		return &ValidationError{Field: fieldName, Value: value, Message: "must be digits"}
	}
	return nil
}

// IntRange returns a rule requiring an int within [min, max].
func IntRange(min, max int) ValidationRule {
	return func(fieldName string, value interface{}) *ValidationError {
		n, ok := value.(int)
		if !ok || n < min || n > max {
			return &ValidationError{
				Field:   fieldName,
				Value:   value,
				Message: fmt.Sprintf("must be between %d and %d", min, max),
			}
		}
		return nil
	}
}

// ValidateScheme checks the fields a scheme record must carry after header extraction.
func ValidateScheme(s *entity.SchemeRecord) error {
	v := NewValidator()
	v.Field("schemeID", s.SchemeID, Required, Digits).
		Field("prgCode", s.ProgrammeCode, Required, Digits).
		Field("programme", s.Programme, Required).
		Field("sem", s.Semester, IntRange(constants.MinSemester, constants.MaxSemester))
	return v.Error()
}

// ValidateStudent checks the identity fields of a reconstructed student record.
func ValidateStudent(r *entity.StudentResult) error {
	v := NewValidator()
	v.Field("enrollment", r.Enrollment, Required, Digits).
		Field("name", r.Name, Required).
		Field("sid", r.SID, Required, Digits).
		Field("schemeID", r.SchemeID, Required, Digits).
		Field("sem", r.Header.Semester, IntRange(constants.MinSemester, constants.MaxSemester))
	return v.Error()
}

// GradeMismatches returns the subject codes whose printed grade disagrees with
// the grade band of the printed total, sorted. Marks without a grade, or with a
// total that is neither numeric nor ABS/CAN, are not checked.
func GradeMismatches(r *entity.StudentResult) []string {
	var out []string
	for code, m := range r.Subjects {
		if m.TotalGrade == "" {
			continue
		}
		want, ok := constants.GradeForTotal(m.Total)
		if ok && want != m.TotalGrade {
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}
