package config

import (
	"fyne.io/fyne/v2"
)

// Settings keys for Fyne preferences
const (
	KeyLanguage     = "app_language"
	KeyLastTab      = "last_tab"
	KeyWindowWidth  = "window_width"
	KeyWindowHeight = "window_height"
)

// Default values
const (
	DefaultLanguage     = "system"
	DefaultLastTab      = 0
	DefaultWindowWidth  = 560
	DefaultWindowHeight = 640

	MinWindowWidth  = 320
	MinWindowHeight = 240
)

// Settings manages UI preferences kept by the toolkit
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLastTab returns the index of the tab selected when the app last closed
func (s *Settings) GetLastTab() int {
	tab := s.app.Preferences().IntWithFallback(KeyLastTab, DefaultLastTab)
	if tab < 0 {
		return DefaultLastTab
	}
	return tab
}

// SetLastTab remembers the selected tab
func (s *Settings) SetLastTab(index int) {
	if index < 0 {
		index = DefaultLastTab
	}
	s.app.Preferences().SetInt(KeyLastTab, index)
}

// GetWindowSize returns the saved window size, never smaller than the minimum
func (s *Settings) GetWindowSize() fyne.Size {
	w := s.app.Preferences().FloatWithFallback(KeyWindowWidth, DefaultWindowWidth)
	h := s.app.Preferences().FloatWithFallback(KeyWindowHeight, DefaultWindowHeight)
	if w < MinWindowWidth {
		w = MinWindowWidth
	}
	if h < MinWindowHeight {
		h = MinWindowHeight
	}
	return fyne.NewSize(float32(w), float32(h))
}

// SetWindowSize stores the window size for the next start
func (s *Settings) SetWindowSize(size fyne.Size) {
	s.app.Preferences().SetFloat(KeyWindowWidth, float64(size.Width))
	s.app.Preferences().SetFloat(KeyWindowHeight, float64(size.Height))
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}
