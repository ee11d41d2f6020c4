package main

import "charm.land/lipgloss/v2"

// Colors for subcommand output (the TUI has its own theme).
var (
	colorPrimary = lipgloss.Color("#cba6f7")
	colorBase    = lipgloss.Color("#cdd6f4")
	colorMuted   = lipgloss.Color("#6c7086")
	colorBorder  = lipgloss.Color("#45475a")
	colorSuccess = lipgloss.Color("#a6e3a1")
	colorWarning = lipgloss.Color("#f9e2af")
	colorError   = lipgloss.Color("#f38ba8")
)
