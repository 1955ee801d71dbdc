package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every sentinel below wraps exactly one of them so callers can
// classify with errors.Is without knowing the specific condition.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access forbidden")
	ErrNotFound     = errors.New("not found")
)

// kindError is a sentinel that belongs to a kind.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newKindError(kind error, msg string) error {
	return &kindError{msg: msg, kind: kind}
}

var (
	ErrInvalidID          = newKindError(ErrValidation, "invalid id")
	ErrMissingFields      = newKindError(ErrValidation, "all fields are required")
	ErrUsernameTaken      = newKindError(ErrValidation, "username is taken, please choose a different username")
	ErrSelfRelation       = newKindError(ErrValidation, "cannot target yourself")
	ErrBlockedRelation    = newKindError(ErrValidation, "cannot send friend request to a blocked user")
	ErrNotFriends         = newKindError(ErrValidation, "user is not in your friend list")
	ErrNotBlocked         = newKindError(ErrValidation, "user is not blocked")
	ErrInvalidBanDuration = newKindError(ErrValidation, "ban duration must be a positive number of minutes")
	ErrOwnerCannotLeave   = newKindError(ErrValidation, "server owner cannot leave the server")
	ErrInvalidChannelType = newKindError(ErrValidation, "invalid channel type")
	ErrInvalidRole        = newKindError(ErrValidation, "role must be one of: user, moderator, admin")

	ErrEmailTaken          = newKindError(ErrConflict, "email already registered")
	ErrFriendRequestExists = newKindError(ErrConflict, "friend request already exists")
	ErrAlreadyFriends      = newKindError(ErrConflict, "users are already friends")
	ErrAlreadyBlocked      = newKindError(ErrConflict, "user is already blocked")
	ErrAlreadyMember       = newKindError(ErrConflict, "already a member of this server")

	ErrMissingToken       = newKindError(ErrUnauthorized, "unauthorized access")
	ErrInvalidToken       = newKindError(ErrUnauthorized, "invalid token")
	ErrInvalidCredentials = newKindError(ErrUnauthorized, "invalid email or password")
	ErrRoleNotAllowed     = newKindError(ErrUnauthorized, "role not allowed")

	ErrNotRequestReceiver = newKindError(ErrForbidden, "only the receiver can resolve this friend request")
	ErrNotRequestSender   = newKindError(ErrForbidden, "only the sender can revoke this friend request")
	ErrNotAccountOwner    = newKindError(ErrForbidden, "you are not authorized to delete this user")
	ErrNotServerOwner     = newKindError(ErrForbidden, "you are not the owner of this server")
	ErrNotServerMember    = newKindError(ErrForbidden, "you are not a member of this server")
	ErrNotRecipient       = newKindError(ErrForbidden, "user is not a recipient of this channel")

	ErrUserNotFound          = newKindError(ErrNotFound, "user not found")
	ErrFriendRequestNotFound = newKindError(ErrNotFound, "friend request not found")
	ErrServerNotFound        = newKindError(ErrNotFound, "server not found")
	ErrChannelNotFound       = newKindError(ErrNotFound, "channel not found")
)

// ValidationError reports a request that failed field validation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError formats a ValidationError.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// BannedError is returned by login when the account is under an active ban.
type BannedError struct {
	Status BanStatus
}

func (e *BannedError) Error() string {
	if e.Status.Type == BanPermanent {
		return fmt.Sprintf("This user is banned permanently. Reason: %s", e.Status.Reason)
	}
	return fmt.Sprintf("This user is banned temporarily until %s. Reason: %s", e.Status.ExpiresAtFormatted, e.Status.Reason)
}

func (e *BannedError) Unwrap() error { return ErrUnauthorized }

// ErrorMessage returns the caller-facing text of a classified error, ignoring
// any context wrapped around it. ok is false for unclassified errors.
func ErrorMessage(err error) (msg string, ok bool) {
	var be *BannedError
	if errors.As(err, &be) {
		return be.Error(), true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Msg, true
	}
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg, true
	}
	return "", false
}
