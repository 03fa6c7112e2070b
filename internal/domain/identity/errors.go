package identity

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrPatientNotFound    = errors.New("patient not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInactiveAccount    = errors.New("account is inactive")
	ErrInvalidRole        = errors.New("invalid role")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateNational  = errors.New("national id already registered")
)
