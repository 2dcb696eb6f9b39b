package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"gchat/internal/app/api"
	"gchat/internal/app/feed"
	"gchat/internal/ui/styles"
)

// chatHeaderHeight is the number of lines above the viewport (title + blank).
const chatHeaderHeight = 2

// chatFooterHeight is the number of lines below the viewport (error, input, help).
const chatFooterHeight = 4

// chatModel renders the shared message feed and the send input.
type chatModel struct {
	viewport viewport.Model
	input    textinput.Model

	messages []api.Message
	syncErr  error
	lastSync time.Time

	sendErr string
	sending bool

	// username of the signed-in user, used to highlight own messages.
	username string

	width  int
	height int
	ready  bool
}

func newChatModel() chatModel {
	input := textinput.New()
	input.Placeholder = "write a message"
	input.CharLimit = 2000
	input.Focus()

	return chatModel{input: input}
}

// sendMessage runs the send call off the UI goroutine. The confirmed message
// reaches the feed through the synchronizer's subscription; only the outcome
// comes back here, so a failure leaves the draft untouched.
func sendMessage(synchronizer *feed.Synchronizer, text string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		_, err := synchronizer.Send(ctx, text)
		return sendResultMsg{err: err}
	}
}

func (m chatModel) Update(msg tea.Msg, synchronizer *feed.Synchronizer, timeout time.Duration) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		viewportHeight := max(msg.Height-chatHeaderHeight-chatFooterHeight, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		m.viewport.SetContent(m.renderFeed())
		m.viewport.GotoBottom()
		return m, nil

	case FeedMsg:
		atBottom := m.viewport.AtBottom()
		m.messages = msg.Snapshot.Messages
		m.syncErr = msg.Snapshot.SyncErr
		m.lastSync = msg.Snapshot.LastSync
		if m.ready {
			m.viewport.SetContent(m.renderFeed())
			if atBottom {
				m.viewport.GotoBottom()
			}
		}
		return m, nil

	case sendResultMsg:
		m.sending = false
		if msg.err != nil {
			// The draft stays in the input so the user does not lose it.
			m.sendErr = userMessage(msg.err)
			return m, nil
		}
		m.input.Reset()
		m.sendErr = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if m.sending {
				return m, nil
			}
			m.sending = true
			m.sendErr = ""
			return m, sendMessage(synchronizer, m.input.Value(), timeout)

		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m chatModel) View() string {
	view := styles.Title.Render("Group Chat") + "\n\n"

	if m.ready {
		view += m.viewport.View() + "\n"
	}

	if m.syncErr != nil {
		view += styles.Banner.Render(userMessage(m.syncErr)) + "\n"
	} else if m.sendErr != "" {
		view += styles.ErrorLine.Render(m.sendErr) + "\n"
	} else {
		view += "\n"
	}

	view += m.input.View() + "\n"
	view += styles.Help.Render("enter send · pgup/pgdn scroll · ctrl+p profile · ctrl+l sign out · ctrl+c quit")
	return view
}

// renderFeed formats the feed for the viewport, preserving server order.
func (m chatModel) renderFeed() string {
	if len(m.messages) == 0 {
		return styles.Subtitle.Render("No messages yet. Say hello!")
	}

	var b strings.Builder
	for _, message := range m.messages {
		author := styles.Author
		if message.Username == m.username {
			author = styles.OwnAuthor
		}

		fmt.Fprintf(&b, "%s %s %s\n",
			styles.Timestamp.Render(formatTimestamp(message.CreatedAt)),
			author.Render(message.Username+":"),
			message.Text,
		)
	}
	return b.String()
}

// formatTimestamp renders a message time compactly: clock time for today,
// date and clock time otherwise.
func formatTimestamp(t time.Time) string {
	local := t.Local()
	now := time.Now()
	if local.Year() == now.Year() && local.YearDay() == now.YearDay() {
		return local.Format("15:04")
	}
	return local.Format("Jan 2 15:04")
}
