package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the color scheme of the chat interface
type TUITheme struct {
	Name        string
	Description string

	Background lipgloss.Color
	Surface    lipgloss.Color
	Border     lipgloss.Color

	// User is the accent for the user's bubbles, Bot for answers
	User    lipgloss.Color
	Bot     lipgloss.Color
	Accent  lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

var (
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night, blue and green on navy",
		Background:  lipgloss.Color("#1a1b26"),
		Surface:     lipgloss.Color("#24283b"),
		Border:      lipgloss.Color("#414868"),
		User:        lipgloss.Color("#7aa2f7"),
		Bot:         lipgloss.Color("#9ece6a"),
		Accent:      lipgloss.Color("#bb9af7"),
		Warning:     lipgloss.Color("#e0af68"),
		Error:       lipgloss.Color("#f7768e"),
		Text:        lipgloss.Color("#c0caf5"),
		TextDim:     lipgloss.Color("#565f89"),
		TextMute:    lipgloss.Color("#3b4261"),
	}

	HarvestTheme = TUITheme{
		Name:        "harvest",
		Description: "Wheat and leaf tones on dark soil",
		Background:  lipgloss.Color("#1c1a14"),
		Surface:     lipgloss.Color("#2a271d"),
		Border:      lipgloss.Color("#4a4430"),
		User:        lipgloss.Color("#e9c46a"),
		Bot:         lipgloss.Color("#8ab17d"),
		Accent:      lipgloss.Color("#f4a261"),
		Warning:     lipgloss.Color("#f4a261"),
		Error:       lipgloss.Color("#e76f51"),
		Text:        lipgloss.Color("#ede0c8"),
		TextDim:     lipgloss.Color("#8c8169"),
		TextMute:    lipgloss.Color("#4a4430"),
	}

	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord, frost blues and aurora accents",
		Background:  lipgloss.Color("#2e3440"),
		Surface:     lipgloss.Color("#3b4252"),
		Border:      lipgloss.Color("#4c566a"),
		User:        lipgloss.Color("#88c0d0"),
		Bot:         lipgloss.Color("#a3be8c"),
		Accent:      lipgloss.Color("#b48ead"),
		Warning:     lipgloss.Color("#ebcb8b"),
		Error:       lipgloss.Color("#bf616a"),
		Text:        lipgloss.Color("#eceff4"),
		TextDim:     lipgloss.Color("#7b88a1"),
		TextMute:    lipgloss.Color("#4c566a"),
	}

	PaperTheme = TUITheme{
		Name:        "paper",
		Description: "Light theme for bright terminals",
		Background:  lipgloss.Color("#fafafa"),
		Surface:     lipgloss.Color("#eeeeee"),
		Border:      lipgloss.Color("#bdbdbd"),
		User:        lipgloss.Color("#1565c0"),
		Bot:         lipgloss.Color("#2e7d32"),
		Accent:      lipgloss.Color("#6a1b9a"),
		Warning:     lipgloss.Color("#ef6c00"),
		Error:       lipgloss.Color("#c62828"),
		Text:        lipgloss.Color("#212121"),
		TextDim:     lipgloss.Color("#616161"),
		TextMute:    lipgloss.Color("#9e9e9e"),
	}
)

var (
	themeMu         sync.RWMutex
	currentTUITheme = TokyoNightTheme
)

// GetTUITheme returns the active theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTUITheme
}

// SetTUITheme activates the named theme and reports whether it exists
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTUITheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName looks a theme up by name
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, t := range AvailableTUIThemes() {
		if t.Name == name {
			return t, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes lists the built-in themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{TokyoNightTheme, HarvestTheme, NordTheme, PaperTheme}
}

// TUIThemeNames returns the built-in theme names
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
