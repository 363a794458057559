// Package login provides HTTP handlers for user authentication.
//
// This file defines the messages returned by the login flow.
package login

const (
	// MsgInvalidCredentials is returned when the email or password is wrong.
	// Unknown users and disabled accounts get the same answer.
	MsgInvalidCredentials = "Invalid email or password"

	// MsgCredentialsRequired is returned when email or password is missing.
	MsgCredentialsRequired = "Email and password are required"

	// MsgInternalServerError is returned for unexpected failures during the login process.
	MsgInternalServerError = "Internal server error"
)
