package tui

import "strings"

// NavID identifies a side navigation entry
type NavID string

const (
	NavNew      NavID = "new"
	NavPrevious NavID = "previous"
	NavSettings NavID = "settings"
)

// NavItem is one entry of the side navigation
type NavItem struct {
	ID    NavID
	Label string
	Glyph string
}

// DefaultNav returns the navigation entries in display order
func DefaultNav() []NavItem {
	return []NavItem{
		{ID: NavNew, Label: "New Chat", Glyph: "+"},
		{ID: NavPrevious, Label: "Previous Chats", Glyph: "↺"},
		{ID: NavSettings, Label: "Settings", Glyph: "⚙"},
	}
}

// navCommand maps slash commands typed in the input onto nav entries
func navCommand(input string) (NavID, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "/new":
		return NavNew, true
	case "/previous", "/history":
		return NavPrevious, true
	case "/settings", "/config":
		return NavSettings, true
	default:
		return "", false
	}
}

func (m Model) renderNav() string {
	var sb strings.Builder
	sb.WriteString(navTitleStyle.Render("IntelliBrowse"))
	sb.WriteString("\n\n")
	for i, item := range m.nav {
		line := item.Glyph + " " + item.Label
		switch {
		case m.navFocused && i == m.navCursor:
			sb.WriteString(navSelectedStyle.Render("▸ " + line))
		case item.ID == NavSettings && m.showSettings:
			sb.WriteString(navActiveStyle.Render("  " + line))
		default:
			sb.WriteString(navItemStyle.Render("  " + line))
		}
		sb.WriteString("\n")
	}
	return navPanelStyle.Render(sb.String())
}
