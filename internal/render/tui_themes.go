package render

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// TUITheme is the color scheme of the chat interface
type TUITheme struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// Built-in TUI themes
var (
	// TokyoNightTheme is the default
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night, dark with blue accents",
		Background:  "#1a1b26",
		Surface:     "#24283b",
		Border:      "#414868",
		Primary:     "#7aa2f7",
		Secondary:   "#9ece6a",
		Accent:      "#bb9af7",
		Warning:     "#e0af68",
		Error:       "#f7768e",
		Text:        "#c0caf5",
		TextDim:     "#565f89",
		TextMute:    "#3b4261",
	}

	CatppuccinMochaTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha, warm pastels",
		Background:  "#1e1e2e",
		Surface:     "#313244",
		Border:      "#45475a",
		Primary:     "#89b4fa",
		Secondary:   "#a6e3a1",
		Accent:      "#cba6f7",
		Warning:     "#f9e2af",
		Error:       "#f38ba8",
		Text:        "#cdd6f4",
		TextDim:     "#6c7086",
		TextMute:    "#45475a",
	}

	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord, cool arctic tones",
		Background:  "#2e3440",
		Surface:     "#3b4252",
		Border:      "#4c566a",
		Primary:     "#88c0d0",
		Secondary:   "#a3be8c",
		Accent:      "#b48ead",
		Warning:     "#ebcb8b",
		Error:       "#bf616a",
		Text:        "#eceff4",
		TextDim:     "#7b88a1",
		TextMute:    "#4c566a",
	}

	DraculaTheme = TUITheme{
		Name:        "dracula",
		Description: "Dracula, vibrant on dark grey",
		Background:  "#282a36",
		Surface:     "#44475a",
		Border:      "#6272a4",
		Primary:     "#8be9fd",
		Secondary:   "#50fa7b",
		Accent:      "#ff79c6",
		Warning:     "#f1fa8c",
		Error:       "#ff5555",
		Text:        "#f8f8f2",
		TextDim:     "#6272a4",
		TextMute:    "#44475a",
	}

	// PaperTheme is for light terminal backgrounds
	PaperTheme = TUITheme{
		Name:        "paper",
		Description: "Paper, dark ink for light terminals",
		Background:  "#fafafa",
		Surface:     "#eeeeee",
		Border:      "#bdbdbd",
		Primary:     "#1565c0",
		Secondary:   "#2e7d32",
		Accent:      "#6a1b9a",
		Warning:     "#ef6c00",
		Error:       "#c62828",
		Text:        "#212121",
		TextDim:     "#616161",
		TextMute:    "#9e9e9e",
	}
)

var tuiThemes = []TUITheme{
	TokyoNightTheme,
	CatppuccinMochaTheme,
	NordTheme,
	DraculaTheme,
	PaperTheme,
}

var (
	tuiThemeMu      sync.RWMutex
	currentTUITheme = TokyoNightTheme
)

// GetTUITheme returns the active TUI theme
func GetTUITheme() TUITheme {
	tuiThemeMu.RLock()
	defer tuiThemeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme activates the named theme. Unknown names leave the active
// theme unchanged and report false.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	tuiThemeMu.Lock()
	currentTUITheme = theme
	tuiThemeMu.Unlock()
	return true
}

// GetTUIThemeByName looks a theme up by name, ignoring case
func GetTUIThemeByName(name string) (TUITheme, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	return lo.Find(tuiThemes, func(t TUITheme) bool {
		return t.Name == name
	})
}

// AvailableTUIThemes returns the built-in themes, default first
func AvailableTUIThemes() []TUITheme {
	return append([]TUITheme(nil), tuiThemes...)
}

// TUIThemeNames returns the theme names in display order
func TUIThemeNames() []string {
	return lo.Map(tuiThemes, func(t TUITheme, _ int) string { return t.Name })
}
