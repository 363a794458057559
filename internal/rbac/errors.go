package rbac

import (
	"errors"
	"fmt"
)

// Kind classifies a failure the caller can act on.
type Kind int

const (
	// KindUnauthenticated is returned when no caller id is known.
	KindUnauthenticated Kind = iota + 1
	// KindForbidden is returned when the caller lacks a permission.
	KindForbidden
	// KindValidation is returned for malformed input and integrity violations.
	KindValidation
	// KindNotFound is returned when a role id does not resolve.
	KindNotFound
	// KindConflict is returned when a role name is already taken.
	KindConflict
)

// String implements fmt.Stringer, used as metrics label.
func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Messages returned to API callers.
const (
	MsgUnauthorized       = "Unauthorized"
	MsgForbidden          = "Forbidden"
	MsgRoleNotFound       = "Role not found"
	MsgRoleIDRequired     = "Role ID is required"
	MsgNameRequired       = "Name and display name are required"
	MsgDisplayNameEmpty   = "Display name cannot be empty"
	MsgRoleExists         = "Role with this name already exists"
	MsgSystemRoleRename   = "Cannot change name of system role"
	MsgSystemRoleDelete   = "Cannot delete system role"
	MsgUsersAssignedFmt   = "Cannot delete role with %d users assigned. Remove users first."
	MsgUnknownPermissions = "Unknown permission ids: %v"
	MsgEmptyPermissionID  = "Permission ids cannot be empty"
)

var (
	// ErrRoleNotFound is returned by a Store when a role id does not resolve.
	ErrRoleNotFound = errors.New("role not found")

	// ErrRoleNameTaken is returned by a Store when the unique role name index rejects a write.
	ErrRoleNameTaken = errors.New("role name already taken")
)

// Error is a failure with a caller facing message.
// Any other error returned by the Manager is unexpected.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements error.
func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...any) *Error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}

	return &Error{Kind: kind, Message: msg}
}

// KindOf returns the kind of err if it is an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}

	return 0, false
}
