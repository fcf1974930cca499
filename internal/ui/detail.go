package ui

import (
	"os"
	"path"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/mylora/mylora-desktop/internal/model"
	"github.com/mylora/mylora-desktop/internal/orchestrator"
	"github.com/mylora/mylora-desktop/internal/platform"
)

// DetailWindow shows one catalog entry: its preview image, further
// discovered previews, embedded metadata and a download button
type DetailWindow struct {
	root   *RootUI
	entry  model.CatalogEntry
	window fyne.Window

	image         *canvas.Image
	imageStatus   *widget.Label
	previewsBox   *fyne.Container
	metadataBox   *fyne.Container
	downloadBtn   *widget.Button
	downloadState *widget.Label
}

// ShowDetail opens a detail window for entry
func ShowDetail(root *RootUI, entry model.CatalogEntry) *DetailWindow {
	d := &DetailWindow{
		root:   root,
		entry:  entry,
		window: root.app.NewWindow(cleanText(entry.DisplayName())),
	}
	d.setupUI()
	d.window.Resize(fyne.NewSize(DetailWidth, DetailHeight))
	d.window.Show()

	d.loadMainPreview()
	d.loadPreviews()
	d.loadMetadata()
	return d
}

func (d *DetailWindow) setupUI() {
	l := d.root.localization

	d.image = canvas.NewImageFromResource(nil)
	d.image.FillMode = canvas.ImageFillContain
	d.image.SetMinSize(fyne.NewSize(PreviewMinWidth, PreviewMinHeight))
	d.imageStatus = widget.NewLabel(l.GetText(KeyLoading))

	d.previewsBox = container.NewVBox(widget.NewLabel(l.GetText(KeyLoading)))
	d.metadataBox = container.NewVBox(widget.NewLabel(l.GetText(KeyLoading)))

	d.downloadBtn = widget.NewButton(l.GetText(KeyDownload), d.onDownload)
	d.downloadBtn.Importance = widget.HighImportance
	d.downloadState = widget.NewLabel("")

	title := widget.NewLabelWithStyle(cleanText(d.entry.DisplayName()), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	filename := widget.NewLabel(d.entry.Filename)

	left := container.NewBorder(
		container.NewVBox(title, filename),
		container.NewVBox(d.imageStatus, container.NewBorder(nil, nil, nil, d.downloadBtn, d.downloadState)),
		nil, nil,
		d.image,
	)

	right := container.NewVBox(
		widget.NewLabelWithStyle(l.GetText(KeyPreviews), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		d.previewsBox,
		widget.NewSeparator(),
		widget.NewLabelWithStyle(l.GetText(KeyMetadata), fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		d.metadataBox,
	)

	split := container.NewHSplit(left, container.NewVScroll(right))
	split.Offset = 0.55
	d.window.SetContent(split)
}

// loadMainPreview shows the server provided preview, if any
func (d *DetailWindow) loadMainPreview() {
	if !d.entry.HasPreview() {
		d.imageStatus.SetText(d.root.localization.GetText(KeyNoPreview))
		return
	}
	d.showImage(d.root.locator.Resolve(*d.entry.PreviewURL))
}

// showImage fetches rawURL into the image area. Fetches share one slot per
// entry so only the most recently clicked preview is shown.
func (d *DetailWindow) showImage(rawURL string) {
	d.imageStatus.SetText(d.root.localization.GetText(KeyLoading))
	d.root.session.Image(d.entry.Filename, rawURL, func(r orchestrator.Result[[]byte]) {
		if r.Err != nil {
			d.root.log.Debug().Err(r.Err).Str("url", rawURL).Msg("preview image unavailable")
			d.imageStatus.SetText(d.root.localization.GetText(KeyNoPreview))
			return
		}
		d.image.Resource = fyne.NewStaticResource(path.Base(rawURL), r.Value)
		d.image.Refresh()
		d.imageStatus.SetText(path.Base(rawURL))
	})
}

func (d *DetailWindow) loadPreviews() {
	d.root.session.Previews(d.entry, func(r orchestrator.Result[[]string]) {
		d.previewsBox.RemoveAll()
		if len(r.Value) == 0 {
			d.previewsBox.Add(widget.NewLabel(d.root.localization.GetText(KeyNoPreviews)))
			return
		}
		for _, u := range r.Value {
			btn := widget.NewButton(path.Base(u), func() { d.showImage(u) })
			btn.Alignment = widget.ButtonAlignLeading
			btn.Importance = widget.LowImportance
			d.previewsBox.Add(btn)
		}
	})
}

func (d *DetailWindow) loadMetadata() {
	d.root.session.Metadata(d.entry.Filename, func(r orchestrator.Result[model.Metadata]) {
		l := d.root.localization
		d.metadataBox.RemoveAll()

		meta := r.Value
		if meta.Failed() {
			d.metadataBox.Add(widget.NewLabel(l.GetText(KeyMetadataFailed) + ": " + meta.Err))
			return
		}
		lines := metadataLines(meta)
		if len(lines) == 0 {
			d.metadataBox.Add(widget.NewLabel(l.GetText(KeyNoMetadata)))
			return
		}
		for _, line := range lines {
			label := widget.NewLabel(line)
			label.Wrapping = fyne.TextWrapBreak
			d.metadataBox.Add(label)
		}
	})
}

// onDownload asks where to save the artifact. The save dialog creates the
// chosen file; it is replaced on success and removed again on failure.
func (d *DetailWindow) onDownload() {
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, d.window)
			return
		}
		if writer == nil {
			return
		}
		dest := writer.URI().Path()
		writer.Close()

		d.root.settings.SetDownloadDirectory(filepath.Dir(dest))
		d.downloadBtn.Disable()
		d.downloadState.SetText(d.root.localization.GetText(KeyDownloadStarted))

		d.root.StartDownload(d.entry, dest, func(err error) {
			d.downloadBtn.Enable()
			if err != nil {
				removeEmpty(dest)
				d.downloadState.SetText(d.root.localization.GetText(KeyDownloadFailed))
				dialog.ShowError(err, d.window)
				return
			}
			d.downloadState.SetText(d.root.localization.GetText(KeyDownloadCompleted))
		})
	}, d.window)

	save.SetFileName(platform.LocalFileName(d.entry.Filename))
	dir := d.root.settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(dir); err == nil {
		if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			save.SetLocation(lister)
		}
	}
	save.Show()
}

// removeEmpty deletes the placeholder left by the save dialog
func removeEmpty(p string) {
	if info, err := os.Stat(p); err == nil && info.Size() == 0 {
		os.Remove(p)
	}
}
