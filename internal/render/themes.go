package render

import (
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
)

// Built-in markdown theme names
const (
	ThemeDark       = "dark"
	ThemeLight      = "light"
	ThemeTokyoNight = "tokyonight"
	ThemeCatppuccin = "catppuccin"
	ThemeDracula    = "dracula"
	ThemeNoTTY      = "notty"
	ThemeASCII      = "ascii"
)

func strPtr(s string) *string { return &s }

func uintPtr(u uint) *uint { return &u }

// catppuccinStyle derives a Catppuccin Mocha palette from the dark style
func catppuccinStyle() ansi.StyleConfig {
	cfg := styles.DarkStyleConfig

	cfg.Document.Color = strPtr("#cdd6f4")
	cfg.Document.Margin = uintPtr(2)
	cfg.Heading.Color = strPtr("#89b4fa")
	cfg.H1.Color = strPtr("#1e1e2e")
	cfg.H1.BackgroundColor = strPtr("#cba6f7")
	cfg.Link.Color = strPtr("#89dceb")
	cfg.LinkText.Color = strPtr("#a6e3a1")
	cfg.Code.Color = strPtr("#f5c2e7")
	cfg.Code.BackgroundColor = strPtr("#313244")
	cfg.BlockQuote.Color = strPtr("#a6adc8")
	cfg.HorizontalRule.Color = strPtr("#45475a")
	return cfg
}

// BuiltinStyle returns the style config of a built-in theme
func BuiltinStyle(name string) (ansi.StyleConfig, bool) {
	switch name {
	case ThemeDark:
		return styles.DarkStyleConfig, true
	case ThemeLight:
		return styles.LightStyleConfig, true
	case ThemeTokyoNight:
		return styles.TokyoNightStyleConfig, true
	case ThemeCatppuccin:
		return catppuccinStyle(), true
	case ThemeDracula:
		return styles.DraculaStyleConfig, true
	case ThemeNoTTY:
		return styles.NoTTYStyleConfig, true
	case ThemeASCII:
		return styles.ASCIIStyleConfig, true
	default:
		return ansi.StyleConfig{}, false
	}
}

// IsBuiltinStyle reports whether style names a built-in theme rather
// than a path to a JSON style file
func IsBuiltinStyle(style string) bool {
	_, ok := BuiltinStyle(style)
	return ok
}

// ThemeInfo contains information about a theme for display purposes.
type ThemeInfo struct {
	Name        string
	Description string
}

// AvailableThemes returns a list of all built-in themes.
func AvailableThemes() []ThemeInfo {
	return []ThemeInfo{
		{Name: ThemeDark, Description: "Dark theme (default)"},
		{Name: ThemeTokyoNight, Description: "Tokyo Night color scheme"},
		{Name: ThemeCatppuccin, Description: "Catppuccin Mocha color scheme"},
		{Name: ThemeLight, Description: "Light theme for bright terminals"},
		{Name: ThemeDracula, Description: "Dracula color scheme"},
		{Name: ThemeNoTTY, Description: "Plain text (no styling)"},
		{Name: ThemeASCII, Description: "ASCII-only output"},
	}
}

// ThemeNames returns just the theme names for selection.
func ThemeNames() []string {
	themes := AvailableThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
