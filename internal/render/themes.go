package render

// Markdown style names accepted by glamour
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleTokyoNight = "tokyo-night"
	StyleDracula    = "dracula"
	StylePink       = "pink"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
)

// StyleInfo describes a markdown style for display purposes.
type StyleInfo struct {
	Name        string
	Description string
}

// AvailableStyles lists the built-in markdown styles.
func AvailableStyles() []StyleInfo {
	return []StyleInfo{
		{Name: StyleDark, Description: "Dark terminals (default)"},
		{Name: StyleLight, Description: "Light terminals"},
		{Name: StyleTokyoNight, Description: "Tokyo Night colors"},
		{Name: StyleDracula, Description: "Dracula colors"},
		{Name: StylePink, Description: "Pink accents"},
		{Name: StyleNoTTY, Description: "Plain text, no colors"},
		{Name: StyleASCII, Description: "ASCII-only output"},
	}
}

// StyleNames returns the names of the built-in markdown styles.
func StyleNames() []string {
	styles := AvailableStyles()
	names := make([]string, len(styles))
	for i, s := range styles {
		names[i] = s.Name
	}
	return names
}

// IsBuiltinStyle reports whether style names a built-in markdown style.
// Anything else is treated as a path to a JSON style file.
func IsBuiltinStyle(style string) bool {
	for _, s := range AvailableStyles() {
		if s.Name == style {
			return true
		}
	}
	return false
}

// normalizeStyle maps common aliases onto glamour's names
func normalizeStyle(style string) string {
	switch style {
	case "", "auto":
		return StyleDark
	case "tokyonight":
		return StyleTokyoNight
	case "plain", "none":
		return StyleNoTTY
	default:
		return style
	}
}
