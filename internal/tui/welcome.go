package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// GotoHaikuMsg switches to the haiku view.
type GotoHaikuMsg struct{}

// OpenNameModalMsg opens the change-name modal.
type OpenNameModalMsg struct{}

// OpenTimeModalMsg opens the change-time modal.
type OpenTimeModalMsg struct{}

var menuItems = []string{"Change your name", "Change time"}

// WelcomeModel is the first view: a greeting, the entry button to the
// haiku view, and a small settings menu.
type WelcomeModel struct {
	name        string
	menuVisible bool
	menuIndex   int
	width       int
	height      int
}

// NewWelcome creates the welcome view.
func NewWelcome() *WelcomeModel {
	return &WelcomeModel{}
}

// SetName updates the greeting name.
func (w *WelcomeModel) SetName(name string) { w.name = name }

// Name returns the current greeting name.
func (w *WelcomeModel) Name() string { return w.name }

// SetSize updates the view dimensions.
func (w *WelcomeModel) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// Update handles key input for the welcome view.
func (w *WelcomeModel) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	if w.menuVisible {
		switch keyMsg.String() {
		case "esc", "m":
			w.menuVisible = false
		case "up", "k":
			if w.menuIndex > 0 {
				w.menuIndex--
			}
		case "down", "j":
			if w.menuIndex < len(menuItems)-1 {
				w.menuIndex++
			}
		case "enter":
			w.menuVisible = false
			if w.menuIndex == 0 {
				return func() tea.Msg { return OpenNameModalMsg{} }
			}
			return func() tea.Msg { return OpenTimeModalMsg{} }
		}
		return nil
	}

	switch keyMsg.String() {
	case "m":
		w.menuVisible = true
		w.menuIndex = 0
	case "enter":
		return func() tea.Msg { return GotoHaikuMsg{} }
	}
	return nil
}

// View renders the welcome view.
func (w *WelcomeModel) View() string {
	name := w.name
	if name == "" {
		name = "User"
	}

	greeting := styleGreeting.Render("Welcome,\n" + name)
	button := styleButton.Render("Go to my daily haiku!")

	var sections []string
	sections = append(sections, greeting, "", button)

	if w.menuVisible {
		var items []string
		for i, item := range menuItems {
			if i == w.menuIndex {
				items = append(items, styleMenuSelected.Render("> "+item))
			} else {
				items = append(items, styleMenuItem.Render("  "+item))
			}
		}
		sections = append(sections, "", styleMenuBox.Render(strings.Join(items, "\n")))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)

	body := lipgloss.Place(w.width, w.height-1, lipgloss.Center, lipgloss.Center, content)

	hints := []Hint{
		{Key: "enter", Label: "Haiku"},
		{Key: "m", Label: "Menu"},
		{Key: "q", Label: "Quit"},
	}
	return body + "\n" + renderFooter(w.width, hints)
}
