package util

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrSubjectNotFound  = errors.New("subject not found")
	ErrChapterNotFound  = errors.New("chapter not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrScoreNotFound    = errors.New("score not found")

	ErrQuizHidden          = errors.New("quiz is not available yet")
	ErrQuizPastDue         = errors.New("quiz due date has passed")
	ErrAttemptLimitReached = errors.New("attempt limit reached")
	ErrAttemptConflict     = errors.New("attempt already recorded by a concurrent submission")

	ErrValidation         = errors.New("validation failed")
	ErrInvalidQuestion    = errors.New("invalid question")
	ErrEmptyUpdate        = errors.New("nothing to update")
	ErrUnsupportedStorage = errors.New("unsupported storage provider")
)

// ValidationError describes a malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsDuplicateKey reports unique-constraint violations from any supported driver.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "23505") ||
		strings.Contains(msg, "unique constraint failed")
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
