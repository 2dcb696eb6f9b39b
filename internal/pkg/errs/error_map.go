/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
user-facing messages and internal error handling.
*/
package errs

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the kind and the user message.
var errorMap = map[int]CustomError{
	// 1xxx: Input Validation Errors
	ErrEmptyMessage:       {Code: ErrEmptyMessage, Kind: KindValidation, Message: "Message cannot be empty."},
	ErrMissingCredentials: {Code: ErrMissingCredentials, Kind: KindValidation, Message: "Enter a username and password."},

	// 2xxx: Feed Synchronization and Delivery Errors
	ErrFeedSyncFailed:    {Code: ErrFeedSyncFailed, Kind: KindSync, Message: "Could not refresh messages. Showing the last known state."},
	ErrMessageSendFailed: {Code: ErrMessageSendFailed, Kind: KindSend, Message: "Message could not be sent. Please try again."},
	ErrSendRateLimited:   {Code: ErrSendRateLimited, Kind: KindSend, Message: "You are sending messages too quickly. Please wait a moment."},

	// 3xxx: Authentication and Session Errors
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Kind: KindAuth, Message: "Incorrect username or password."},
	ErrRegistrationFailed: {Code: ErrRegistrationFailed, Kind: KindAuth, Message: "Registration failed. Please try a different username."},
	ErrSessionExpired:     {Code: ErrSessionExpired, Kind: KindAuth, Message: "Your session has expired. Please sign in again."},

	// 4xxx: Local Storage Errors
	ErrTokenStorage: {Code: ErrTokenStorage, Kind: KindStorage, Message: "Could not access saved credentials."},

	// 5xxx: Internal Errors
	ErrUnknown: {Code: ErrUnknown, Kind: KindUnknown, Message: "Something went wrong. Please try again."},
}
