package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// New creates a new validator instance
func New() *Validator {
	v := validator.New()

	// Register custom tag name function to use JSON tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate validates a struct and returns validation errors in field
// declaration order.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	// Convert validation errors to our custom format
	var validationErrs ValidationErrors
	for _, err := range err.(validator.ValidationErrors) {
		validationErrs = append(validationErrs, ValidationError{
			Field:   err.Field(),
			Message: msgForField(err),
			Tag:     err.Tag(),
		})
	}

	return validationErrs
}

// fieldMessages carries the entity constraint messages, keyed by struct
// namespace. Range violations on either side of a bound share the same
// message.
var fieldMessages = map[string]string{
	"SongInput.Name":              "Song name is required",
	"SongInput.Author":            "Song author is required",
	"SongInput.BPM":               "BPM must be a positive number",
	"DifficultyInput.SongID":      "Valid song_id is required",
	"DifficultyInput.Level":       "Difficulty must be between 1 and 10",
	"DifficultyInput.NoteCount":   "Note count must be a non-negative number",
	"NoteInput.DifficultyID":      "Valid difficulty_id is required",
	"NoteInput.TimeMS":            "Time must be a non-negative number",
	"NoteInput.Lane":              "Lane must be between 1 and 4",
	"NoteInput.Type":              "Type must be a non-negative number",
	"HighscoreInput.UserID":       "Valid user_id is required",
	"HighscoreInput.DifficultyID": "Valid difficulty_id is required",
	"HighscoreInput.Score":        "Score must be a non-negative number",
	"HighscoreInput.MaxCombo":     "Max combo must be a non-negative number",
	"HighscoreInput.Accuracy":     "Accuracy must be between 0 and 100",
}

// msgForField returns the entity constraint message for a field, falling
// back to a generic human-readable message for the validation tag.
func msgForField(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.StructNamespace()]; ok {
		return msg
	}
	return msgForTag(fe)
}

// msgForTag returns a human-readable error message for a validation tag
func msgForTag(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
