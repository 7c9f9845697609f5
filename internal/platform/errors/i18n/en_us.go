package i18n

// Outcome codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeOK                   = "OK"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeStoreFailure         = "STORE_FAILURE"
	CodeNotFound             = "NOT_FOUND"
	CodeAlreadyExists        = "ALREADY_EXISTS"
	CodeMessageTypeUnknown   = "MESSAGE_TYPE_UNKNOWN"
	CodeMessageMalformed     = "MESSAGE_MALFORMED"
	CodeClassIDInvalid       = "CLASS_ID_INVALID"
	CodeClassNameEmpty       = "CLASS_NAME_EMPTY"
	CodeUserIDInvalid        = "USER_ID_INVALID"
	CodeUserNameEmpty        = "USER_USERNAME_EMPTY"
	CodeUserRoleInvalid      = "USER_ROLE_INVALID"
	CodeUserSelfDelete       = "USER_SELF_DELETE"
	CodeUserExists           = "USER_ALREADY_EXISTS"
	CodeAssignmentIDInvalid  = "ASSIGNMENT_ID_INVALID"
	CodeAssignmentNameEmpty  = "ASSIGNMENT_NAME_EMPTY"
	CodeAssignmentDueInvalid = "ASSIGNMENT_DUE_INVALID"
	CodeSessionTokenInvalid  = "SESSION_TOKEN_INVALID"
	CodeSessionTokenExpired  = "SESSION_TOKEN_EXPIRED"
)

var enUSCatalog = NewCatalog("en-US", map[Code]string{
	CodeOK:             "The operation completed successfully",
	CodeUnauthorized:   "You do not have permission to perform this operation",
	CodeInvalidRequest: "The request is invalid",
	CodeStoreFailure:   "The server failed to complete the operation",
	CodeNotFound:       "The requested record does not exist",
	CodeAlreadyExists:  "A record with this identity already exists",

	// Envelope errors
	CodeMessageTypeUnknown: "Unknown message type {{.Type}}",
	CodeMessageMalformed:   "The message payload could not be decoded",

	// Class errors
	CodeClassIDInvalid: "A valid class id is required",
	CodeClassNameEmpty: "Class name cannot be empty",

	// User errors
	CodeUserIDInvalid:   "A valid user id is required",
	CodeUserNameEmpty:   "Username cannot be empty",
	CodeUserRoleInvalid: "Unknown user role {{.Role}}",
	CodeUserSelfDelete:  "You cannot delete your own account",
	CodeUserExists:      "User {{.Username}} already exists",

	// Assignment errors
	CodeAssignmentIDInvalid:  "A valid assignment id is required",
	CodeAssignmentNameEmpty:  "Assignment name cannot be empty",
	CodeAssignmentDueInvalid: "Assignment due date is invalid",

	// Session errors
	CodeSessionTokenInvalid: "The session token is invalid",
	CodeSessionTokenExpired: "The session has expired, please sign in again",
})

func init() {
	RegisterCatalog("en-US", enUSCatalog)
	RegisterCatalog("en", enUSCatalog)
}
