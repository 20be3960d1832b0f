// Package errors provides structured domain error handling for shelter.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unclassified error.
	CodeUnknown Code = "UNKNOWN"

	// Cat errors
	CodeCatNotFound       Code = "CAT_NOT_FOUND"
	CodeCatAlreadyAdopted Code = "CAT_ALREADY_ADOPTED"
	CodeCatAlreadyDeleted Code = "CAT_ALREADY_DELETED"
	CodeCatNotDeleted     Code = "CAT_NOT_DELETED"
	CodeCatNameTaken      Code = "CAT_NAME_TAKEN"
	CodeOwnerNotFound     Code = "OWNER_NOT_FOUND"

	// User errors
	CodeUserNotFound      Code = "USER_NOT_FOUND"
	CodeEmailTaken        Code = "EMAIL_TAKEN"
	CodeUserHasCats       Code = "USER_HAS_CATS"
	CodeUserHasPosts      Code = "USER_HAS_POSTS"
	CodeForceDeleteFailed Code = "FORCE_DELETE_FAILED"

	// Post errors
	CodeAuthorNotFound Code = "AUTHOR_NOT_FOUND"

	// Validation errors (raised by the transport layer before the engines)
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// NotFound - referenced entity absent or filtered out by soft delete
	case CodeCatNotFound,
		CodeUserNotFound,
		CodeOwnerNotFound,
		CodeAuthorNotFound:
		return http.StatusNotFound

	// Conflict - state precondition violated
	case CodeCatAlreadyAdopted,
		CodeCatAlreadyDeleted,
		CodeCatNotDeleted,
		CodeCatNameTaken,
		CodeEmailTaken,
		CodeUserHasCats,
		CodeUserHasPosts:
		return http.StatusConflict

	// BadRequest - malformed input or a cascading delete that went wrong
	case CodeInvalidArgument,
		CodeForceDeleteFailed:
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
