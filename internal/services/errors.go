package services

import (
	"errors"

	"gorm.io/gorm"
)

type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindInvalidArgument
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a failure the caller is expected to act on. Anything else coming
// out of a service is an internal error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrInvalidCredentials = newError(KindUnauthenticated, "invalid email or password")
	ErrInsufficientRole   = newError(KindForbidden, "forbidden: insufficient role")
	ErrBlockedByAuthor    = newError(KindForbidden, "you are blocked by this user")

	ErrCurrentUserNotFound = newError(KindNotFound, "current user not found")
	ErrUserNotFound        = newError(KindNotFound, "user not found")
	ErrPostNotFound        = newError(KindNotFound, "post not found")
	ErrNotFollowing        = newError(KindNotFound, "not following")
	ErrNotBlocked          = newError(KindNotFound, "not blocked")
	ErrNotLiked            = newError(KindNotFound, "not liked")

	ErrSelfFollow         = newError(KindInvalidArgument, "cannot follow yourself")
	ErrSelfBlock          = newError(KindInvalidArgument, "cannot block yourself")
	ErrEmptyContent       = newError(KindInvalidArgument, "content is required")
	ErrMissingFields      = newError(KindInvalidArgument, "name, email and password are required")
	ErrMissingCredentials = newError(KindInvalidArgument, "email and password are required")
	ErrNotAdmin           = newError(KindInvalidArgument, "user is not an admin")

	ErrAlreadyFollowing = newError(KindConflict, "already following")
	ErrAlreadyBlocked   = newError(KindConflict, "already blocked")
	ErrAlreadyLiked     = newError(KindConflict, "already liked")
	ErrEmailTaken       = newError(KindConflict, "email already registered")
)

// KindOf classifies err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// conflictOr maps a unique index violation to conflict and passes any other
// error through.
func conflictOr(err error, conflict *Error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflict
	}
	return err
}
