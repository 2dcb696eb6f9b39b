/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the client and in messages shown to the user.
*/
package errs

// 1xxx: Input Validation Errors
const (
	// ErrEmptyMessage indicates an empty or whitespace-only message was submitted.
	ErrEmptyMessage = 1001

	// ErrMissingCredentials indicates the username or password field was left empty.
	ErrMissingCredentials = 1002
)

// 2xxx: Feed Synchronization and Delivery Errors
const (
	// ErrFeedSyncFailed indicates the periodic feed fetch failed; stale data is retained.
	ErrFeedSyncFailed = 2001

	// ErrMessageSendFailed indicates the server rejected or never received a sent message.
	ErrMessageSendFailed = 2002

	// ErrSendRateLimited indicates the local send rate limit was exceeded.
	ErrSendRateLimited = 2003
)

// 3xxx: Authentication and Session Errors
const (
	// ErrInvalidCredentials indicates a login attempt with a wrong username or password.
	ErrInvalidCredentials = 3001

	// ErrRegistrationFailed indicates the server rejected an account registration.
	ErrRegistrationFailed = 3002

	// ErrSessionExpired indicates a stored credential the server no longer accepts.
	ErrSessionExpired = 3003
)

// 4xxx: Local Storage Errors
const (
	// ErrTokenStorage indicates the credential could not be persisted or removed.
	ErrTokenStorage = 4001
)

// 5xxx: Internal Errors
const (
	// ErrUnknown represents an unclassified, general client internal error.
	ErrUnknown = 5000
)
