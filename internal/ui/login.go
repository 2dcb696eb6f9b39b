package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gchat/internal/app/api"
	"gchat/internal/app/session"
	"gchat/internal/pkg/errs"
	"gchat/internal/ui/styles"
)

// authMode selects between the sign-in and registration forms, which share
// one model the way the original pages share one credentials shape.
type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

// loginModel is the credentials form for both login and register.
type loginModel struct {
	mode     authMode
	username textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	errText  string
}

func newLoginModel() loginModel {
	username := textinput.New()
	username.Placeholder = "username"
	username.CharLimit = 150
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginModel{
		mode:     modeLogin,
		username: username,
		password: password,
	}
}

// submitAuth runs the login or register call off the UI goroutine and
// delivers the outcome as an authResultMsg.
func submitAuth(manager *session.Manager, mode authMode, username, password string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var member api.Member
		var err error
		if mode == modeRegister {
			member, err = manager.Register(ctx, username, password)
		} else {
			member, err = manager.Login(ctx, username, password)
		}

		return authResultMsg{member: member, err: err}
	}
}

func (m loginModel) Update(msg tea.Msg, manager *session.Manager, timeout time.Duration) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = userMessage(msg.err)
			return m, nil
		}
		// The redirect to the chat view rides in on the session change.
		m.password.SetValue("")
		m.errText = ""
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}

		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focus = (m.focus + 1) % 2
			if m.focus == 0 {
				m.username.Focus()
				m.password.Blur()
			} else {
				m.username.Blur()
				m.password.Focus()
			}
			return m, textinput.Blink

		case "ctrl+t":
			if m.mode == modeLogin {
				m.mode = modeRegister
			} else {
				m.mode = modeLogin
			}
			m.errText = ""
			return m, nil

		case "enter":
			// Match the original form behavior: reject blank fields locally,
			// before any network call.
			if m.username.Value() == "" || m.password.Value() == "" {
				m.errText = errs.NewError(errs.ErrMissingCredentials).Message
				return m, nil
			}

			m.busy = true
			m.errText = ""
			return m, submitAuth(manager, m.mode, m.username.Value(), m.password.Value(), timeout)
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginModel) View() string {
	title := "Sign in"
	subtitle := "Sign in to your account to join the chat."
	action := "sign in"
	toggleHint := "ctrl+t create an account"
	if m.mode == modeRegister {
		title = "Create account"
		subtitle = "Register to join the chat."
		action = "register"
		toggleHint = "ctrl+t back to sign in"
	}

	view := styles.Title.Render("Group Chat — "+title) + "\n"
	view += styles.Subtitle.Render(subtitle) + "\n\n"
	view += styles.Label.Render("Username") + "\n" + m.username.View() + "\n\n"
	view += styles.Label.Render("Password") + "\n" + m.password.View() + "\n\n"

	if m.errText != "" {
		view += styles.ErrorLine.Render(m.errText) + "\n\n"
	}

	if m.busy {
		view += styles.Subtitle.Render("Signing in...") + "\n"
	}

	view += styles.Help.Render("enter " + action + " · tab switch field · " + toggleHint + " · ctrl+c quit")
	return view
}

// userMessage extracts the user-facing text of an error. Classified errors
// carry their own message; anything else falls back to the generic one.
func userMessage(err error) string {
	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		return customErr.Message
	}
	return errs.NewError(errs.ErrUnknown).Message
}
