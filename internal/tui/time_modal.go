package tui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/kigo-app/kigo/internal/schedule"
)

// TimeChosenMsg is sent when the user confirms a valid daily time.
type TimeChosenMsg struct {
	Time schedule.TimeOfDay
}

// TimeModal is the daily-time picker: a single HH:MM input.
type TimeModal struct {
	input      textinput.Model
	visible    bool
	validError string
	width      int
	height     int
}

// NewTimeModal creates the time entry modal.
func NewTimeModal() *TimeModal {
	input := textinput.New()
	input.Placeholder = "08:00"
	input.Prompt = ""
	input.CharLimit = 5
	input.SetWidth(12)

	styles := textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(colorBase),
			Placeholder: lipgloss.NewStyle().Foreground(colorSubtle),
			Prompt:      lipgloss.NewStyle().Foreground(colorSecondary),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(colorSubtle),
			Placeholder: lipgloss.NewStyle().Foreground(colorSubtle),
			Prompt:      lipgloss.NewStyle().Foreground(colorMuted),
		},
		Cursor: textinput.CursorStyle{
			Color: colorPrimary,
			Shape: tea.CursorBar,
			Blink: true,
		},
	}
	input.SetStyles(styles)

	return &TimeModal{input: input}
}

// Visible returns whether the modal is showing.
func (m *TimeModal) Visible() bool { return m.visible }

// Show opens the modal, optionally pre-filled with the current time.
func (m *TimeModal) Show(current string) tea.Cmd {
	m.visible = true
	m.validError = ""
	m.input.SetValue(current)
	return m.input.Focus()
}

// Close hides the modal and resets its state.
func (m *TimeModal) Close() {
	m.visible = false
	m.validError = ""
	m.input.SetValue("")
	m.input.Blur()
}

// SetSize updates the available dimensions.
func (m *TimeModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles key input while the modal is open.
func (m *TimeModal) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "enter":
			t, err := schedule.ParseClock(m.input.Value())
			if err != nil {
				m.validError = "Use 24-hour HH:MM, e.g. 08:00"
				return nil
			}
			return func() tea.Msg {
				return TimeChosenMsg{Time: t}
			}
		case "esc":
			return func() tea.Msg {
				return CloseModalMsg{}
			}
		}
		m.validError = ""
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// View renders the modal centered on the screen.
func (m *TimeModal) View() string {
	var b strings.Builder
	b.WriteString(styleModalTitle.Render("Daily haiku time"))
	b.WriteString("\n")
	b.WriteString(styleModalHint.Render("(24-hour clock)"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.validError != "" {
		b.WriteString(styleError.Render("✗ " + m.validError))
	}
	b.WriteString("\n")
	b.WriteString(styleModalHint.Render("enter save · esc cancel"))

	box := styleModalBox.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
