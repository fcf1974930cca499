package ui

import (
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/mylora/mylora-desktop/internal/config"
)

// SettingsDialog edits the persisted preferences
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func(originChanged bool)

	apiEntry         *widget.Entry
	downloadDirEntry *widget.Entry
	maxIndexEntry    *widget.Entry
	languageSelect   *widget.Select
	languageCodes    map[string]string // display name -> code
}

// ShowSettingsDialog opens the settings dialog. onSaved runs after a
// successful save.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func(originChanged bool)) {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}
	sd.createUI()
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	l := sd.localization

	sd.apiEntry = widget.NewEntry()
	sd.apiEntry.SetPlaceHolder(config.DefaultAPIBaseURL)
	sd.apiEntry.Validator = config.ValidateBaseURL

	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(l.GetText(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	sd.maxIndexEntry = widget.NewEntry()
	sd.maxIndexEntry.SetPlaceHolder("0-" + strconv.Itoa(config.MaxPreviewMaxIndex))

	sd.languageCodes = map[string]string{}
	names := make([]string, 0)
	for code, name := range l.GetAvailableLanguages() {
		sd.languageCodes[name] = code
		names = append(names, name)
	}
	sort.Strings(names)
	sd.languageSelect = widget.NewSelect(names, nil)

	form := container.NewVBox(
		widget.NewLabel(l.GetText(KeyAPIBaseURL)+":"),
		sd.apiEntry,
		widget.NewLabel(l.GetText(KeyDownloadDirectory)+":"),
		downloadDirRow,
		widget.NewLabel(l.GetText(KeyPreviewMaxIndex)+":"),
		sd.maxIndexEntry,
		widget.NewSeparator(),
		widget.NewLabel(l.GetText(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		l.GetText(KeySettings),
		l.GetText(KeySave),
		l.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(SettingsWidth, SettingsHeight))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.apiEntry.SetText(sd.settings.GetAPIBaseURL())
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.maxIndexEntry.SetText(strconv.Itoa(sd.settings.GetPreviewMaxIndex()))

	current := sd.localization.GetCurrentLanguage()
	for name, code := range sd.languageCodes {
		if code == current {
			sd.languageSelect.SetSelected(name)
		}
	}
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	previous := sd.settings.GetAPIBaseURL()
	if sd.apiEntry.Text != "" && sd.apiEntry.Text != previous {
		if err := sd.settings.SetAPIBaseURL(sd.apiEntry.Text); err != nil {
			dialog.ShowError(err, sd.window)
			return
		}
	}

	if sd.downloadDirEntry.Text != "" {
		sd.settings.SetDownloadDirectory(sd.downloadDirEntry.Text)
	}

	if n, err := strconv.Atoi(sd.maxIndexEntry.Text); err == nil {
		sd.settings.SetPreviewMaxIndex(n)
	}

	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
		sd.localization.SetLanguage(code)
	}

	if sd.onSaved != nil {
		sd.onSaved(sd.settings.GetAPIBaseURL() != previous)
	}
}
