package tui

import (
	"charm.land/lipgloss/v2"
)

// Palette. Chrome follows the muted terminal scheme; the haiku view keeps
// the app's pink accent.
var (
	colorPrimary   = lipgloss.Color("#cba6f7")
	colorSecondary = lipgloss.Color("#b4befe")
	colorBase      = lipgloss.Color("#cdd6f4")
	colorMuted     = lipgloss.Color("#6c7086")
	colorSubtle    = lipgloss.Color("#a6adc8")
	colorError     = lipgloss.Color("#f38ba8")
	colorWarning   = lipgloss.Color("#f9e2af")
	colorAccent    = lipgloss.Color("#fea7a8")
	colorCountdown = lipgloss.Color("#e58381")
)

var (
	styleGreeting = lipgloss.NewStyle().
			Foreground(colorBase).
			Align(lipgloss.Center)

	styleButton = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 3)

	stylePoemBox = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorAccent).
			Padding(1, 4)

	stylePoemLine = lipgloss.NewStyle().
			Foreground(colorBase)

	styleCountdown = lipgloss.NewStyle().
			Foreground(colorCountdown)

	styleLoading = lipgloss.NewStyle().
			Foreground(colorSubtle)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleNotice = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleModalBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)

	styleModalTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleModalHint = lipgloss.NewStyle().
			Foreground(colorMuted).
			Faint(true)

	styleMenuBox = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)

	styleMenuItem = lipgloss.NewStyle().
			Foreground(colorSubtle)

	styleMenuSelected = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorSecondary)

	styleFooterLabel = lipgloss.NewStyle().
				Foreground(colorMuted)
)
