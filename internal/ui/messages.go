package ui

import (
	"gchat/internal/app/api"
	"gchat/internal/app/feed"
	"gchat/internal/app/session"
)

// SessionMsg carries a session state change into the program. It is pushed via
// Program.Send from the session manager's subscription, so the access
// arbitration rule is re-evaluated on every change.
type SessionMsg struct {
	Session session.Session
}

// FeedMsg carries a feed snapshot change into the program, pushed via
// Program.Send from the synchronizer's subscription.
type FeedMsg struct {
	Snapshot feed.Snapshot
}

// authResultMsg is the outcome of an asynchronous login or register call.
type authResultMsg struct {
	member api.Member
	err    error
}

// sendResultMsg is the outcome of an asynchronous message send.
// On failure the draft text stays in the input.
type sendResultMsg struct {
	err error
}

// logoutDoneMsg reports that the logout call finished. The session change
// itself arrives separately as a SessionMsg.
type logoutDoneMsg struct{}
