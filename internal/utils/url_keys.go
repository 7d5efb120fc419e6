package utils

const (
	// ResetTokenKey is the key for the plaintext reset token used in routing parameters.
	ResetTokenKey = "resetToken"
)
