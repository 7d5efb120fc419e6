// Package schemas defines the request structures for various operations in the application.
package schemas

// RegistrationRequest is a struct that represents a registration request
// Name is required and must be less than 50 characters
// Email is required and must be a valid email
// Password is required and must be between 6 and 23 characters
// Photo, Bio and Phone are optional profile fields
type RegistrationRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=23"`
	Photo    string `json:"photo" validate:"omitempty,url"`
	Bio      string `json:"bio" validate:"max=250"`
	Phone    string `json:"phone" validate:"max=20"`
}

// LoginRequest is a struct that represents a login request
// Email is required and must be a valid email
// Password is required and must be between 6 and 23 characters
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=23"`
}

// UpdateUserRequest is a struct that represents a profile update request
// All fields are optional, only the provided ones are applied
// Email and password are never changed through this path
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"max=50"`
	Photo string `json:"photo" validate:"omitempty,url"`
	Bio   string `json:"bio" validate:"max=250"`
	Phone string `json:"phone" validate:"max=20"`
}

// ChangePasswordRequest is a struct that represents a PasswordChange request
// OldPassword is required and must be between 6 and 23 characters
// NewPassword is required and must be between 6 and 23 characters
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required,min=6,max=23"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=23"`
}

// ForgotPasswordRequest is a struct that represents a password reset request
// Email is required and must be a valid email
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is a struct that represents the completion of a password
// reset, the reset token itself travels in the URL path
// Password is required and must be between 6 and 23 characters
// ConfirmPassword must equal Password
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=6,max=23"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}
