package user

import "errors"

var (
	ErrEmailExists         = errors.New("email already registered")
	ErrInvalidRegistration = errors.New("name, email and a password of at least 6 characters are required")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid email or password")
)
