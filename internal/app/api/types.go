/*
Package api implements the request gateway for the remote chat service.

This file defines the wire types exchanged with the server. They are immutable
value types: the server assigns every identity field, and the client never
mutates a record after decoding it.
*/
package api

import "time"

// Member is the identity record of an authenticated account.
type Member struct {
	// ID is the server-assigned account identifier.
	ID int64 `json:"id"`

	// Username is the unique display name chosen at registration.
	Username string `json:"username"`

	// CreatedAt is when the account was registered.
	CreatedAt time.Time `json:"created_at"`
}

// Message is a single entry of the shared chat feed.
type Message struct {
	// ID is the server-assigned message identifier; feed identity is keyed by it.
	ID int64 `json:"id"`

	// Username is the author's display name.
	Username string `json:"username"`

	// Text is the message body.
	Text string `json:"text"`

	// CreatedAt is the server-side creation timestamp.
	CreatedAt time.Time `json:"created_at"`
}

// AuthResult is the payload returned by successful login and register calls.
type AuthResult struct {
	// Member is the authenticated account.
	Member Member `json:"member"`

	// Token is the opaque bearer credential authorizing subsequent requests.
	Token string `json:"token"`
}

// credentialsInput is the request body shared by login and register.
type credentialsInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// sendMessageInput is the request body for creating a chat message.
type sendMessageInput struct {
	Text string `json:"text"`
}
