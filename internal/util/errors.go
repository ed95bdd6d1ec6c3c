package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailRegistered      = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrInvalidGeneratedQuiz = errors.New("generated quiz failed validation")
	ErrValidation           = errors.New("validation failed")
)
