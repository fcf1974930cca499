package ui

// Icons (symbols)
const (
	IconSettings = "⚙"
	IconRefresh  = "⟳"
	IconFolder   = "📁"
	IconClose    = "×"
	IconError    = "❌"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Window sizing
const (
	DetailWidth  float32 = 760
	DetailHeight float32 = 620

	PreviewMinWidth  float32 = 320
	PreviewMinHeight float32 = 320

	SettingsWidth  float32 = 500
	SettingsHeight float32 = 360
)

// Layout sizing (DownloadRow / lists)
const (
	StatusLabelWidth float32 = 84
	RowMinHeight     float32 = 48
	DownloadsHeight  float32 = 160
)
