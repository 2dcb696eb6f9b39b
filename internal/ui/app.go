/*
Package ui is the terminal view layer of the chat client.

It renders whatever state the core produces and dispatches user intents
(login, register, send, logout) back into it. Session and feed changes enter
the program as messages pushed from the core's subscriptions, so the access
arbitration rule is re-applied on every change: a loading session renders a
neutral state, an anonymous one is kept on the login view, an authenticated
one is kept away from it.
*/
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gchat/internal/app/feed"
	"gchat/internal/app/session"
	"gchat/internal/ui/styles"
)

// view identifies the active screen.
type view int

const (
	viewLoading view = iota
	viewLogin
	viewChat
	viewProfile
)

// Model is the top-level program model routing between views.
type Model struct {
	manager      *session.Manager
	synchronizer *feed.Synchronizer
	timeout      time.Duration

	session session.Session
	active  view

	login   loginModel
	chat    chatModel
	profile profileModel

	width  int
	height int
}

// New returns the top-level model in the neutral loading state.
func New(manager *session.Manager, synchronizer *feed.Synchronizer, timeout time.Duration) Model {
	return Model{
		manager:      manager,
		synchronizer: synchronizer,
		timeout:      timeout,
		session:      session.Session{Loading: true},
		active:       viewLoading,
		login:        newLoginModel(),
		chat:         newChatModel(),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg, m.synchronizer, m.timeout)
		return m, cmd

	case SessionMsg:
		m.session = msg.Session
		m.chat.username = ""
		m.profile.user = msg.Session.User
		if msg.Session.User != nil {
			m.chat.username = msg.Session.User.Username
		}

		// The synchronizer runs exactly while the session is authenticated
		// and resolved; any other state deactivates it immediately.
		if msg.Session.Authenticated() {
			m.synchronizer.Start()
		} else {
			m.synchronizer.Stop()
		}

		m.applyArbitration()
		return m, nil

	case FeedMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg, m.synchronizer, m.timeout)
		return m, cmd

	case authResultMsg:
		var cmd tea.Cmd
		m.login, cmd = m.login.Update(msg, m.manager, m.timeout)
		return m, cmd

	case sendResultMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg, m.synchronizer, m.timeout)
		return m, cmd

	case logoutDoneMsg:
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "ctrl+p":
			if m.session.Authenticated() && m.active == viewChat {
				m.active = viewProfile
				return m, nil
			}

		case "esc":
			if m.session.Authenticated() && m.active == viewProfile {
				m.active = viewChat
				return m, nil
			}

		case "ctrl+l":
			if m.session.Authenticated() {
				return m, logoutCmd(m.manager, m.timeout)
			}
		}
	}

	var cmd tea.Cmd
	switch m.active {
	case viewLogin:
		m.login, cmd = m.login.Update(msg, m.manager, m.timeout)
	case viewChat:
		m.chat, cmd = m.chat.Update(msg, m.synchronizer, m.timeout)
	}
	return m, cmd
}

// applyArbitration decides which view the session state allows. While the
// session is loading no redirect happens in either direction; once it is
// resolved, anonymous sessions are confined to the login view and
// authenticated ones are kept away from it.
func (m *Model) applyArbitration() {
	if m.session.Loading {
		m.active = viewLoading
		return
	}

	if m.session.User == nil {
		m.active = viewLogin
		return
	}

	if m.active == viewLoading || m.active == viewLogin {
		m.active = viewChat
	}
}

func (m Model) View() string {
	switch m.active {
	case viewLogin:
		return m.login.View()
	case viewChat:
		return m.chat.View()
	case viewProfile:
		return m.profile.View()
	default:
		return styles.Subtitle.Render("Loading...")
	}
}
