package schemas

// CustomError is a struct that represents an error in the error catalog
// Code is the stable error code returned to clients
// Message is the human readable description
type CustomError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	// BadRequest covers malformed or missing input, it is never retried.
	BadRequest = &CustomError{
		Code:    "ERR-001",
		Message: "The request body is invalid. Please check the request body and try again.",
	}
	// EmailTaken is returned when registering with an email that already exists.
	EmailTaken = &CustomError{
		Code:    "ERR-002",
		Message: "The email is already registered. Please try another email or login instead.",
	}
	// InvalidCredentials is returned when the presented password does not match.
	InvalidCredentials = &CustomError{
		Code:    "ERR-003",
		Message: "The credentials are invalid. Please check the email and password and try again.",
	}
	// UserNotFound is returned when no user matches the given email or ID.
	UserNotFound = &CustomError{
		Code:    "ERR-004",
		Message: "The user was not found. Please check the email and try again.",
	}
	// Unauthorized is returned when the session cookie is missing, invalid or expired.
	Unauthorized = &CustomError{
		Code:    "ERR-005",
		Message: "The request is unauthorized. Please login and try again.",
	}
	// InvalidToken is returned when a reset token is unknown, expired or already consumed.
	InvalidToken = &CustomError{
		Code:    "ERR-006",
		Message: "The reset token is invalid or expired. Please request a new password reset.",
	}
	// EmailNotSent is returned when the mail transport reports a delivery failure.
	EmailNotSent = &CustomError{
		Code:    "ERR-007",
		Message: "The email could not be sent. Please try again later.",
	}
	// DatabaseError is returned when the store is unreachable or a statement fails.
	DatabaseError = &CustomError{
		Code:    "ERR-008",
		Message: "A database error occurred. Please try again later.",
	}
	// InternalServerError is the catch-all for unexpected failures.
	InternalServerError = &CustomError{
		Code:    "ERR-009",
		Message: "An internal error occurred. Please try again later.",
	}
)
