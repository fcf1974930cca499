package config

import (
	"strings"

	"fyne.io/fyne/v2"

	"github.com/mylora/mylora-desktop/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyAPIBaseURL      = "api_base_url"
	KeyDownloadDir     = "download_directory"
	KeyPreviewMaxIndex = "preview_max_index"
	KeyLanguage        = "language"
)

// Default values
const (
	DefaultAPIBaseURL       = "http://localhost:5000"
	DefaultPreviewMaxIndex  = 10
	DefaultProbeConcurrency = 8
	MaxPreviewMaxIndex      = 50
	DefaultLanguage         = "system"
)

// Settings manages persisted application configuration
type Settings struct {
	app      fyne.App
	defaults Env
}

// NewSettings creates a new settings manager. defaults supplies the values
// used when nothing has been persisted yet; nil means built-in defaults.
func NewSettings(app fyne.App, defaults *Env) *Settings {
	s := &Settings{app: app}
	if defaults != nil {
		s.defaults = *defaults
	}
	if s.defaults.APIBaseURL == "" {
		s.defaults.APIBaseURL = DefaultAPIBaseURL
	}
	if s.defaults.PreviewMaxIndex <= 0 {
		s.defaults.PreviewMaxIndex = DefaultPreviewMaxIndex
	}
	return s
}

// GetAPIBaseURL returns the catalog origin
func (s *Settings) GetAPIBaseURL() string {
	v := strings.TrimSpace(s.app.Preferences().String(KeyAPIBaseURL))
	if v == "" || ValidateBaseURL(v) != nil {
		return s.defaults.APIBaseURL
	}
	return v
}

// SetAPIBaseURL persists the catalog origin after validating it
func (s *Settings) SetAPIBaseURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if err := ValidateBaseURL(raw); err != nil {
		return err
	}
	s.app.Preferences().SetString(KeyAPIBaseURL, raw)
	return nil
}

// GetDownloadDirectory returns the directory offered first by the save dialog
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = "/tmp/downloads"
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetPreviewMaxIndex returns the highest numbered preview suffix probed
func (s *Settings) GetPreviewMaxIndex() int {
	value := s.app.Preferences().Int(KeyPreviewMaxIndex)
	if value <= 0 {
		return s.defaults.PreviewMaxIndex
	}
	return clampMaxIndex(value)
}

// SetPreviewMaxIndex sets the highest numbered preview suffix probed
func (s *Settings) SetPreviewMaxIndex(n int) {
	s.app.Preferences().SetInt(KeyPreviewMaxIndex, clampMaxIndex(n))
}

func clampMaxIndex(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxPreviewMaxIndex {
		return MaxPreviewMaxIndex
	}
	return n
}

// GetLanguage returns the interface language code, "system" when unset
func (s *Settings) GetLanguage() string {
	return s.app.Preferences().StringWithFallback(KeyLanguage, DefaultLanguage)
}

// SetLanguage sets the interface language code
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}
