package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/mylora/mylora-desktop/internal/model"
)

// DownloadRow shows one download task
type DownloadRow struct {
	widget.BaseWidget

	task         model.DownloadTask
	localization *Localization

	titleLabel    *widget.Label
	statusLabel   *widget.Label
	progressLabel *widget.Label
	progressBar   *widget.ProgressBar
	revealBtn     *widget.Button
	removeBtn     *widget.Button

	onReveal func(task model.DownloadTask)
	onRemove func(task model.DownloadTask)
}

// NewDownloadRow creates a row; UpdateTask fills it in
func NewDownloadRow(localization *Localization) *DownloadRow {
	r := &DownloadRow{localization: localization}
	r.ExtendBaseWidget(r)
	r.createUI()
	return r
}

// SetCallbacks sets the action callbacks
func (r *DownloadRow) SetCallbacks(onReveal, onRemove func(task model.DownloadTask)) {
	r.onReveal = onReveal
	r.onRemove = onRemove
}

// UpdateTask shows task in the row
func (r *DownloadRow) UpdateTask(task model.DownloadTask) {
	r.task = task

	r.titleLabel.SetText(cleanText(task.GetDisplayTitle()))
	r.statusLabel.SetText(task.Status.String())
	r.progressLabel.SetText(progressText(task))
	r.progressBar.SetValue(progressValue(task))

	if task.Status == model.TaskStatusDone {
		r.revealBtn.Enable()
	} else {
		r.revealBtn.Disable()
	}
	if task.Status.IsFinished() {
		r.removeBtn.Enable()
	} else {
		r.removeBtn.Disable()
	}
	r.Refresh()
}

func (r *DownloadRow) createUI() {
	r.titleLabel = widget.NewLabel("")
	r.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	r.titleLabel.Truncation = fyne.TextTruncateEllipsis

	r.statusLabel = widget.NewLabel("")
	r.progressLabel = widget.NewLabel("")
	r.progressLabel.Truncation = fyne.TextTruncateEllipsis
	r.progressBar = widget.NewProgressBar()
	r.progressBar.TextFormatter = func() string { return "" }

	// reveal in file manager (Finder/Explorer) and highlight file
	r.revealBtn = widget.NewButton(IconFolder, func() {
		if r.onReveal != nil {
			r.onReveal(r.task)
		}
	})
	r.revealBtn.Importance = widget.LowImportance

	r.removeBtn = widget.NewButton(IconClose, func() {
		if r.onRemove != nil {
			r.onRemove(r.task)
		}
	})
	r.removeBtn.Importance = widget.LowImportance
}

// CreateRenderer creates the widget renderer
func (r *DownloadRow) CreateRenderer() fyne.WidgetRenderer {
	status := container.NewGridWrap(fyne.NewSize(StatusLabelWidth, r.statusLabel.MinSize().Height), r.statusLabel)
	top := container.NewBorder(nil, nil, nil, container.NewHBox(status, r.revealBtn, r.removeBtn), r.titleLabel)
	bottom := container.NewBorder(nil, nil, nil, nil, container.NewStack(r.progressBar, r.progressLabel))

	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(0, RowMinHeight))
	return widget.NewSimpleRenderer(container.NewStack(spacer, container.NewVBox(top, bottom)))
}
