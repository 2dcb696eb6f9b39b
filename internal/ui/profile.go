package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gchat/internal/app/api"
	"gchat/internal/app/session"
	"gchat/internal/ui/styles"
)

// profileModel renders the current user's account card.
type profileModel struct {
	user *api.Member
}

// logoutCmd runs the logout off the UI goroutine. Logout never fails
// observably; the resulting session change redirects to the login view.
func logoutCmd(manager *session.Manager, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		manager.Logout(ctx)
		return logoutDoneMsg{}
	}
}

func (m profileModel) View() string {
	view := styles.Title.Render("Profile") + "\n\n"

	if m.user == nil {
		return view + styles.Subtitle.Render("Not signed in.")
	}

	view += styles.Label.Render("Username     ") + m.user.Username + "\n"
	view += styles.Label.Render("Member since ") + m.user.CreatedAt.Local().Format("January 2, 2006") + "\n\n"
	view += styles.Help.Render("ctrl+l sign out · esc back to chat · ctrl+c quit")
	return view
}
