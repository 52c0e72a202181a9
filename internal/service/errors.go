package service

import (
	"errors"
	"fmt"

	"github.com/Shivanand-hulikatti/steelfist/internal/repository"
)

// Kind classifies a failed operation for the presentation layer.
type Kind string

const (
	KindInvalidInput          Kind = "InvalidInput"
	KindNotFound              Kind = "NotFound"
	KindCapacityExceeded      Kind = "CapacityExceeded"
	KindDuplicateRegistration Kind = "DuplicateRegistration"
	KindNoFieldsToUpdate      Kind = "NoFieldsToUpdate"
	KindAmbiguousMember       Kind = "AmbiguousMember"
	KindStorage               Kind = "StorageError"
)

// ErrNoFieldsToUpdate is wrapped by updates that supply no field.
var ErrNoFieldsToUpdate = errors.New("no fields to update")

// ErrAmbiguousMember is wrapped when a member name matches more than one member.
var ErrAmbiguousMember = errors.New("member name is ambiguous")

// Error is the typed failure returned by every GymService operation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Kind == KindStorage && e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err: empty for nil, KindStorage for errors that
// did not come from this package.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

func invalid(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// storeError translates a repository failure into a typed Error. op names the
// failed operation in storage error messages.
func storeError(err error, op string) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}

	switch {
	case errors.Is(err, repository.ErrMemberNotFound),
		errors.Is(err, repository.ErrCoachNotFound),
		errors.Is(err, repository.ErrCourseNotFound):
		return &Error{Kind: KindNotFound, Message: err.Error(), Err: err}
	case errors.Is(err, repository.ErrCourseFull):
		return &Error{Kind: KindCapacityExceeded, Message: err.Error(), Err: err}
	case errors.Is(err, repository.ErrAlreadyRegistered):
		return &Error{Kind: KindDuplicateRegistration, Message: err.Error(), Err: err}
	case errors.Is(err, repository.ErrAccessCardInUse):
		return &Error{Kind: KindInvalidInput, Message: err.Error(), Err: err}
	default:
		return &Error{Kind: KindStorage, Message: op + " failed", Err: err}
	}
}

// Result is the (success, message) pair handed to the presentation layer.
type Result struct {
	Success bool   `json:"success"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message"`
}

// Outcome folds an operation's error into a Result, using successMsg when
// err is nil.
func Outcome(err error, successMsg string) Result {
	if err == nil {
		return Result{Success: true, Message: successMsg}
	}
	return Result{Kind: KindOf(err), Message: err.Error()}
}
