package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/mylora/mylora-desktop/internal/catalog"
	"github.com/mylora/mylora-desktop/internal/config"
	"github.com/mylora/mylora-desktop/internal/model"
	"github.com/mylora/mylora-desktop/internal/orchestrator"
	"github.com/mylora/mylora-desktop/internal/platform"
)

// RootUI is the catalog browser window
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	session      *orchestrator.Session
	locator      catalog.Locator
	settings     *config.Settings
	localization *Localization
	log          zerolog.Logger

	searchEntry    *widget.Entry
	categorySelect *widget.Select
	entryList      *widget.List
	statusLabel    *widget.Label
	spinner        *widget.ProgressBarInfinite
	downloadList   *widget.List

	categories []model.Category
	entries    []model.CatalogEntry
	downloads  []model.DownloadTask
}

// NewRootUI builds the browser into window and starts loading categories
// and the first page of entries
func NewRootUI(window fyne.Window, app fyne.App, session *orchestrator.Session, locator catalog.Locator, settings *config.Settings, log zerolog.Logger) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		app:          app,
		session:      session,
		locator:      locator,
		settings:     settings,
		localization: localization,
		log:          log.With().Str("component", "ui").Logger(),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	session.OnDownloadUpdate(ui.onTaskUpdate)

	ui.setupUI()
	ui.loadCategories(false)
	ui.runQuery()
	return ui
}

func (ui *RootUI) setupUI() {
	l := ui.localization
	ui.createMenu()

	ui.searchEntry = widget.NewEntry()
	ui.searchEntry.SetPlaceHolder(l.GetText(KeySearchPlaceholder))
	ui.searchEntry.OnSubmitted = func(string) { ui.runQuery() }

	ui.categorySelect = widget.NewSelect(categoryOptions(l.GetText(KeyAllCategories), nil), func(string) {
		ui.runQuery()
	})
	ui.categorySelect.PlaceHolder = l.GetText(KeyAllCategories)

	searchBtn := widget.NewButton(l.GetText(KeySearch), ui.runQuery)
	refreshBtn := widget.NewButton(IconRefresh, func() { ui.loadCategories(true) })
	refreshBtn.Importance = widget.LowImportance
	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	top := container.NewBorder(nil, nil,
		container.NewHBox(settingsBtn, ui.categorySelect, refreshBtn),
		searchBtn,
		ui.searchEntry,
	)

	ui.statusLabel = widget.NewLabel("")
	ui.spinner = widget.NewProgressBarInfinite()
	ui.spinner.Hide()
	status := container.NewBorder(nil, nil, nil, ui.spinner, ui.statusLabel)

	ui.entryList = widget.NewList(
		func() int { return len(ui.entries) },
		func() fyne.CanvasObject {
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < len(ui.entries) {
				obj.(*widget.Label).SetText(entryTitle(ui.entries[id]))
			}
		},
	)
	ui.entryList.OnSelected = func(id widget.ListItemID) {
		if id < len(ui.entries) {
			ShowDetail(ui, ui.entries[id])
		}
		ui.entryList.UnselectAll()
	}

	ui.downloadList = widget.NewList(
		func() int { return len(ui.downloads) },
		func() fyne.CanvasObject { return NewDownloadRow(ui.localization) },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(ui.downloads) {
				return
			}
			row := obj.(*DownloadRow)
			row.SetCallbacks(ui.onRevealFile, ui.onRemoveTask)
			row.UpdateTask(ui.downloads[id])
		},
	)
	downloads := container.NewBorder(
		widget.NewLabelWithStyle(l.GetText(KeyDownloads), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil, ui.downloadList,
	)

	split := container.NewVSplit(ui.entryList, downloads)
	split.Offset = 0.7

	ui.window.SetContent(container.NewBorder(container.NewVBox(top, status), nil, nil, nil, split))
}

func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)
	refreshItem := fyne.NewMenuItem(ui.localization.GetText(KeyRefreshCategories), func() { ui.loadCategories(true) })
	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), refreshItem, settingsItem),
	))
}

// runQuery lists entries for the current search text and category. A
// non-empty search text uses the search endpoint, otherwise the grid.
func (ui *RootUI) runQuery() {
	query := strings.TrimSpace(ui.searchEntry.Text)
	ui.setBusy(ui.localization.GetText(KeyLoading))

	if query != "" {
		ui.session.Search(query, nil, 0, ui.onEntries)
		return
	}
	ui.session.ListGrid(catalog.GridQuery{
		Category: categoryID(ui.categorySelect.Selected, ui.categories),
	}, ui.onEntries)
}

func (ui *RootUI) onEntries(r orchestrator.Result[[]model.CatalogEntry]) {
	if r.Err != nil {
		ui.log.Warn().Err(r.Err).Msg("listing failed")
		ui.setIdle(ui.localization.GetText(KeyRequestFailed) + ": " + r.Err.Error())
		return
	}

	ui.entries = r.Value
	ui.entryList.Refresh()
	if len(ui.entries) == 0 {
		ui.setIdle(ui.localization.GetText(KeyNoResults))
		return
	}
	ui.setIdle(fmt.Sprintf(ui.localization.GetText(KeyResultsCount), len(ui.entries)))
}

func (ui *RootUI) loadCategories(refresh bool) {
	deliver := func(r orchestrator.Result[[]model.Category]) {
		if r.Err != nil {
			ui.log.Warn().Err(r.Err).Msg("loading categories failed")
			ui.setIdle(ui.localization.GetText(KeyRequestFailed) + ": " + r.Err.Error())
			return
		}
		ui.categories = r.Value
		selected := ui.categorySelect.Selected
		ui.categorySelect.SetOptions(categoryOptions(ui.localization.GetText(KeyAllCategories), ui.categories))
		if categoryID(selected, ui.categories) == nil {
			ui.categorySelect.ClearSelected()
		}
	}
	if refresh {
		ui.session.RefreshCategories(deliver)
		return
	}
	ui.session.Categories(deliver)
}

func (ui *RootUI) onTaskUpdate(task model.DownloadTask) {
	found := false
	for i := range ui.downloads {
		if ui.downloads[i].ID == task.ID {
			ui.downloads[i] = task
			found = true
			break
		}
	}
	if !found {
		ui.downloads = append(ui.downloads, task)
	}
	ui.downloadList.Refresh()

	switch task.Status {
	case model.TaskStatusDone:
		ui.setIdle(ui.localization.GetText(KeyDownloadCompleted) + ": " + task.GetDisplayTitle())
	case model.TaskStatusFailed:
		ui.setIdle(ui.localization.GetText(KeyDownloadFailed) + ": " + task.GetDisplayTitle())
	}
}

func (ui *RootUI) onRevealFile(task model.DownloadTask) {
	if err := platform.OpenFileInManager(task.Destination); err != nil {
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFile), err), ui.window)
	}
}

func (ui *RootUI) onRemoveTask(task model.DownloadTask) {
	if err := ui.session.RemoveDownload(task.ID); err != nil {
		ui.log.Debug().Err(err).Str("task", task.ID).Msg("remove refused")
		return
	}
	ui.downloads = removeTask(ui.downloads, task.ID)
	ui.downloadList.Refresh()
}

// StartDownload saves entry to destination and reports through the
// downloads list
func (ui *RootUI) StartDownload(entry model.CatalogEntry, destination string, done func(error)) {
	_, err := ui.session.Download(entry.Filename, destination, func(r orchestrator.Result[string]) {
		if done != nil {
			done(r.Err)
		}
	})
	if err != nil {
		ui.log.Warn().Err(err).Str("dest", destination).Msg("download rejected")
		if done != nil {
			done(fmt.Errorf("%s: %w", ui.localization.GetText(KeyAlreadyDownloading), err))
			return
		}
		dialog.ShowInformation(ui.localization.GetText(KeyDownload), ui.localization.GetText(KeyAlreadyDownloading), ui.window)
		return
	}
	ui.setIdle(ui.localization.GetText(KeyDownloadStarted) + ": " + entry.Filename)
}

func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func(originChanged bool) {
		ui.createMenu()
		msg := ui.localization.GetText(KeySettingsSaved)
		if originChanged {
			msg = ui.localization.GetText(KeyRestartRequired)
		}
		dialog.ShowInformation(ui.localization.GetText(KeySettings), msg, ui.window)
	})
}

func (ui *RootUI) setBusy(msg string) {
	ui.statusLabel.SetText(msg)
	ui.spinner.Show()
}

func (ui *RootUI) setIdle(msg string) {
	ui.statusLabel.SetText(msg)
	ui.spinner.Hide()
}

func removeTask(tasks []model.DownloadTask, id string) []model.DownloadTask {
	out := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
