package config

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
	if settings.defaults.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("Expected default base URL %s, got %s", DefaultAPIBaseURL, settings.defaults.APIBaseURL)
	}
}

func TestAPIBaseURL(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, &Env{APIBaseURL: "http://catalog.local:8080"})

	// Env default until something is persisted
	if got := settings.GetAPIBaseURL(); got != "http://catalog.local:8080" {
		t.Errorf("Expected env default, got %s", got)
	}

	if err := settings.SetAPIBaseURL("https://loras.example.com/api"); err != nil {
		t.Fatalf("Expected valid URL to be accepted, got %v", err)
	}
	if got := settings.GetAPIBaseURL(); got != "https://loras.example.com/api" {
		t.Errorf("Expected persisted URL, got %s", got)
	}

	if err := settings.SetAPIBaseURL("ftp://nope"); err == nil {
		t.Error("Expected error for non-http URL")
	}
	if got := settings.GetAPIBaseURL(); got != "https://loras.example.com/api" {
		t.Errorf("Rejected URL must not replace persisted one, got %s", got)
	}
}

func TestDownloadDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	// Test default value
	dir := settings.GetDownloadDirectory()
	if dir == "" {
		t.Error("Download directory should not be empty")
	}

	// Test setting custom value
	customDir := "/custom/downloads"
	settings.SetDownloadDirectory(customDir)

	retrievedDir := settings.GetDownloadDirectory()
	if retrievedDir != customDir {
		t.Errorf("Expected download directory %s, got %s", customDir, retrievedDir)
	}
}

func TestPreviewMaxIndex(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	if got := settings.GetPreviewMaxIndex(); got != DefaultPreviewMaxIndex {
		t.Errorf("Expected default max index %d, got %d", DefaultPreviewMaxIndex, got)
	}

	settings.SetPreviewMaxIndex(4)
	if got := settings.GetPreviewMaxIndex(); got != 4 {
		t.Errorf("Expected max index 4, got %d", got)
	}

	settings.SetPreviewMaxIndex(500) // Should be clamped
	if got := settings.GetPreviewMaxIndex(); got != MaxPreviewMaxIndex {
		t.Errorf("Max index should be clamped to %d, got %d", MaxPreviewMaxIndex, got)
	}
}

func TestLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	if got := settings.GetLanguage(); got != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, got)
	}

	settings.SetLanguage("ru")
	if got := settings.GetLanguage(); got != "ru" {
		t.Errorf("Expected language ru, got %s", got)
	}
}
