package services

import (
	"strings"

	"notefall/database"
	"notefall/mapper"
	"notefall/models"
)

// AuthService handles login. It never raises: every failure is folded
// into the response value.
type AuthService struct {
	rules mapper.CredentialRules
}

func NewAuthService() *AuthService {
	return &AuthService{rules: mapper.DefaultCredentialRules}
}

// LoginResponse is the result of a login attempt. On success User is the
// full stored row including the password; the caller strips it via the
// mapper before transmission.
type LoginResponse struct {
	Success bool
	User    *models.User
	Error   string
}

// Login authenticates a user on the given unit. Credential shape is
// checked before any lookup; a missing user and a wrong password produce
// the same generic error.
func (s *AuthService) Login(unit *database.Unit, req models.LoginRequest) LoginResponse {
	username := strings.TrimSpace(req.Username)

	if err := s.rules.Check(username, req.Password); err != nil {
		return LoginResponse{Error: err.Error()}
	}

	user, found, err := findUserByUsername(unit, username)
	if err != nil {
		return LoginResponse{Error: MsgLoginFailed}
	}
	if !found {
		return LoginResponse{Error: MsgInvalidCredentials}
	}

	// Plain text comparison; the stored design has no hashing scheme.
	if user.Password != req.Password {
		return LoginResponse{Error: MsgInvalidCredentials}
	}

	return LoginResponse{Success: true, User: &user}
}
