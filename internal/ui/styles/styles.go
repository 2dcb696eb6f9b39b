// Package styles defines the shared lipgloss palette for the client views.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Title renders view headings.
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#73F59F"))

	// Subtitle renders the secondary line under a heading.
	Subtitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	// Label renders form field labels.
	Label = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	// ErrorLine renders inline validation and auth errors.
	ErrorLine = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F"))

	// Banner renders the non-blocking sync failure notice above the feed.
	Banner = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#121212")).
		Background(lipgloss.Color("#FFAF5F")).
		Padding(0, 1)

	// Author renders message author names.
	Author = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5FAFFF"))

	// OwnAuthor renders the current user's name in the feed.
	OwnAuthor = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#73F59F"))

	// Timestamp renders message timestamps.
	Timestamp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	// Help renders the key hint line at the bottom of each view.
	Help = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#555555"))
)
