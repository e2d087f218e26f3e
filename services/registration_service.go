package services

import (
	"errors"

	"github.com/mattn/go-sqlite3"

	"notefall/database"
	"notefall/mapper"
	"notefall/models"
	"notefall/validator"
)

// RegistrationService handles account creation. The uniqueness check and
// the insert run on the same unit so the decision is made against one
// transaction snapshot; a concurrent loser surfaces through the UNIQUE
// constraint on insert.
type RegistrationService struct {
	validate *validator.Validator
}

func NewRegistrationService(v *validator.Validator) *RegistrationService {
	return &RegistrationService{validate: v}
}

// RegistrationResponse is the result of a registration attempt.
type RegistrationResponse struct {
	Success bool
	UserID  int64
	Error   string
}

// Register validates, checks uniqueness, and inserts a new user on the
// given unit. Validation failures surface before any database access.
func (s *RegistrationService) Register(unit *database.Unit, req models.RegisterRequest) RegistrationResponse {
	m := mapper.New(unit, s.validate)

	user, err := m.UserFromJSON(models.UserInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return RegistrationResponse{Error: resultMessage(err, MsgRegistrationFailed)}
	}

	_, exists, err := findUserByUsername(unit, user.Username)
	if err != nil {
		return RegistrationResponse{Error: MsgRegistrationFailed}
	}
	if exists {
		return RegistrationResponse{Error: MsgUsernameExists}
	}

	stmt := database.Prepare(unit,
		`INSERT INTO users (username, password) VALUES ($username, $password) RETURNING id`,
		database.Params{"username": user.Username, "password": user.Password}, scanRowID)

	id, ok, err := stmt.Get()
	if err != nil {
		if isUniqueConstraint(err) {
			return RegistrationResponse{Error: MsgUsernameExists}
		}
		return RegistrationResponse{Error: MsgRegistrationFailed}
	}
	if !ok {
		return RegistrationResponse{Error: MsgUserCreateFailed}
	}

	return RegistrationResponse{Success: true, UserID: id}
}

// resultMessage keeps validation messages intact and masks everything
// else behind a generic one.
func resultMessage(err error, fallback string) string {
	var ve *mapper.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return fallback
}

func isUniqueConstraint(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
