package domain

import "errors"

var (
	// ErrUnauthorized is returned when the caller's role or status does not permit the operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrAlreadyAttempted is returned when a (user, quiz) pair already has a stored attempt.
	ErrAlreadyAttempted = errors.New("quiz already attempted")
	// ErrQuizNotFound indicates the referenced quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrQuizEnded is returned when the lifecycle gate rejects a submission.
	ErrQuizEnded = errors.New("quiz has ended")
	// ErrValidation is returned for malformed or inconsistent input.
	ErrValidation = errors.New("invalid input")
	// ErrEmailTaken is returned when registering with an email that is already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
