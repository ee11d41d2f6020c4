package tui

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// NameSubmittedMsg is sent when the user confirms a non-empty name.
type NameSubmittedMsg struct {
	Name string
}

// CloseModalMsg is sent when a modal is dismissed without submitting.
type CloseModalMsg struct{}

// NameModal is the name-entry modal. On first run it is blocking: there is
// no stored name to fall back to, so ESC is ignored until a name is saved.
type NameModal struct {
	input      textinput.Model
	visible    bool
	cancelable bool
	validError string
	width      int
	height     int
}

// NewNameModal creates the name entry modal.
func NewNameModal() *NameModal {
	input := textinput.New()
	input.Placeholder = "Your name"
	input.Prompt = ""
	input.CharLimit = 60
	input.SetWidth(36)

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

	return &NameModal{input: input}
}

// Visible returns whether the modal is showing.
func (m *NameModal) Visible() bool { return m.visible }

// Show opens the modal. cancelable is false on first run, when no name
// exists yet and the prompt must block.
func (m *NameModal) Show(cancelable bool) tea.Cmd {
	m.visible = true
	m.cancelable = cancelable
	m.validError = ""
	m.input.SetValue("")
	return m.input.Focus()
}

// Close hides the modal and resets its state.
func (m *NameModal) Close() {
	m.visible = false
	m.validError = ""
	m.input.SetValue("")
	m.input.Blur()
}

// SetError displays a save failure inside the open modal.
func (m *NameModal) SetError(msg string) {
	m.validError = msg
}

// SetSize updates the available dimensions.
func (m *NameModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles key input while the modal is open.
func (m *NameModal) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "enter":
			name := strings.TrimSpace(m.input.Value())
			if name == "" {
				m.validError = "Name cannot be empty"
				return nil
			}
			return func() tea.Msg {
				return NameSubmittedMsg{Name: name}
			}
		case "esc":
			if !m.cancelable {
				return nil
			}
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
func (m *NameModal) View() string {
	var b strings.Builder
	b.WriteString(styleModalTitle.Render("Enter your name"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.validError != "" {
		b.WriteString(styleError.Render("✗ " + m.validError))
	}
	b.WriteString("\n")
	if m.cancelable {
		b.WriteString(styleModalHint.Render("enter save · esc cancel"))
	} else {
		b.WriteString(styleModalHint.Render("enter save"))
	}

	box := styleModalBox.Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
