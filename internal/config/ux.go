package config

import "fmt"

// Theme names accepted in ui.theme.
const (
	ThemeAuto  = "auto"
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// UIConfig holds user interface configuration.
type UIConfig struct {
	// Theme selects the colour scheme: auto, light or dark.
	Theme string `yaml:"theme"`

	// WordWrap is the markdown wrap width for rendered text (0 = terminal width).
	WordWrap int `yaml:"word_wrap,omitempty"`
}

// DefaultUIConfig returns sensible UI defaults.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Theme:    ThemeAuto,
		WordWrap: 72,
	}
}

func (u UIConfig) validate() error {
	switch u.Theme {
	case ThemeAuto, ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("invalid ui.theme: %s (valid: auto, light, dark)", u.Theme)
	}
	if u.WordWrap < 0 {
		return fmt.Errorf("ui.word_wrap must not be negative")
	}
	return nil
}
