package services

// User-facing result messages. MsgInvalidCredentials deliberately covers
// both "no such user" and "wrong password" so a caller cannot probe which
// condition failed.
const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgUsernameExists     = "Username already exists"
	MsgUserCreateFailed   = "Failed to create user"
	MsgLoginFailed        = "Login failed"
	MsgRegistrationFailed = "Registration failed"
)
