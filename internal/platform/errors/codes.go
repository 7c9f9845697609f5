// Package errors provides structured error handling with i18n support.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable outcome code.
type Code string

const (
	// CodeOK represents a successfully applied message.
	CodeOK Code = "OK"

	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Pipeline errors
	CodeUnauthorized   Code = "UNAUTHORIZED"
	CodeInvalidRequest Code = "INVALID_REQUEST"
	CodeStoreFailure   Code = "STORE_FAILURE"
	CodeNotFound       Code = "NOT_FOUND"
	CodeAlreadyExists  Code = "ALREADY_EXISTS"

	// Envelope errors
	CodeMessageTypeUnknown Code = "MESSAGE_TYPE_UNKNOWN"
	CodeMessageMalformed   Code = "MESSAGE_MALFORMED"

	// Class errors
	CodeClassIDInvalid Code = "CLASS_ID_INVALID"
	CodeClassNameEmpty Code = "CLASS_NAME_EMPTY"

	// User errors
	CodeUserIDInvalid   Code = "USER_ID_INVALID"
	CodeUserNameEmpty   Code = "USER_USERNAME_EMPTY"
	CodeUserRoleInvalid Code = "USER_ROLE_INVALID"
	CodeUserSelfDelete  Code = "USER_SELF_DELETE"
	CodeUserExists      Code = "USER_ALREADY_EXISTS"

	// Assignment errors
	CodeAssignmentIDInvalid  Code = "ASSIGNMENT_ID_INVALID"
	CodeAssignmentNameEmpty  Code = "ASSIGNMENT_NAME_EMPTY"
	CodeAssignmentDueInvalid Code = "ASSIGNMENT_DUE_INVALID"

	// Session errors
	CodeSessionTokenInvalid Code = "SESSION_TOKEN_INVALID"
	CodeSessionTokenExpired Code = "SESSION_TOKEN_EXPIRED"
)

// GRPCCode maps outcome codes to gRPC status codes so clients carrying a
// gRPC transport can branch on the standard vocabulary.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeOK:
		return codes.OK

	// InvalidArgument - validation failures, bad input
	case CodeInvalidRequest,
		CodeMessageMalformed,
		CodeClassIDInvalid,
		CodeClassNameEmpty,
		CodeUserIDInvalid,
		CodeUserNameEmpty,
		CodeUserRoleInvalid,
		CodeAssignmentIDInvalid,
		CodeAssignmentNameEmpty,
		CodeAssignmentDueInvalid:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeUserSelfDelete:
		return codes.FailedPrecondition

	// PermissionDenied - principal lacks the required capability
	case CodeUnauthorized:
		return codes.PermissionDenied

	// Unauthenticated - the principal could not be established
	case CodeSessionTokenInvalid,
		CodeSessionTokenExpired:
		return codes.Unauthenticated

	// NotFound - target entity doesn't exist
	case CodeNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeAlreadyExists,
		CodeUserExists:
		return codes.AlreadyExists

	// Unimplemented - unregistered message type tag
	case CodeMessageTypeUnknown:
		return codes.Unimplemented

	default:
		return codes.Internal
	}
}
