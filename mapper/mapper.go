// Package mapper converts between wire-format JSON shapes and persisted
// entities. Inbound conversions are the trust boundary: every field
// constraint is enforced here before a value can reach storage. Outbound
// conversions optionally hydrate nested relations through the unit of
// work that the mapper is bound to.
package mapper

import (
	"errors"
	"fmt"

	"notefall/database"
	"notefall/validator"
)

// Kind tags an entity family for the generic dispatch operations.
type Kind string

const (
	KindUser       Kind = "user"
	KindSong       Kind = "song"
	KindDifficulty Kind = "difficulty"
	KindNote       Kind = "note"
	KindHighscore  Kind = "highscore"
)

// ErrUnknownKind is returned when dispatch receives an unrecognized
// entity kind tag.
var ErrUnknownKind = errors.New("unknown entity kind")

// ValidationError is a constraint failure on the inbound path. The
// message is user-facing and stable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// CredentialRules is the field-length policy shared by the user
// conversion and the login flow.
type CredentialRules struct {
	MinUsernameLength int
	MinPasswordLength int
}

var DefaultCredentialRules = CredentialRules{
	MinUsernameLength: 3,
	MinPasswordLength: 6,
}

// Check validates credentials against the rules. The username is
// expected to already be trimmed.
func (r CredentialRules) Check(username, password string) error {
	if len(username) < r.MinUsernameLength {
		return &ValidationError{
			Field:   "username",
			Message: fmt.Sprintf("Username must be at least %d characters", r.MinUsernameLength),
		}
	}
	if len(password) < r.MinPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("Password must be at least %d characters", r.MinPasswordLength),
		}
	}
	return nil
}

// Mapper binds the conversion layer to one unit of work. Hydration and
// enrichment queries run on that unit's connection.
type Mapper struct {
	unit     *database.Unit
	validate *validator.Validator
	rules    CredentialRules
}

func New(unit *database.Unit, v *validator.Validator) *Mapper {
	return &Mapper{
		unit:     unit,
		validate: v,
		rules:    DefaultCredentialRules,
	}
}

// checkInput runs struct-tag validation and surfaces the first failed
// constraint as a ValidationError.
func (m *Mapper) checkInput(in any) error {
	err := m.validate.Validate(in)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return &ValidationError{Field: errs[0].Field, Message: errs[0].Message}
	}
	return err
}
