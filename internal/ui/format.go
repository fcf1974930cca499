package ui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/mylora/mylora-desktop/internal/model"
)

// cleanText flattens control characters that break single line labels
func cleanText(s string) string {
	s = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(s)
	return strings.TrimSpace(s)
}

// entryTitle is the list label of a catalog entry
func entryTitle(e model.CatalogEntry) string {
	name := cleanText(e.DisplayName())
	if e.Name != "" && e.Filename != "" && e.Name != e.Filename {
		return name + MiddleDotSeparator + cleanText(e.Filename)
	}
	return name
}

// categoryOptions returns the select options, "all" first
func categoryOptions(all string, categories []model.Category) []string {
	opts := make([]string, 0, len(categories)+1)
	opts = append(opts, all)
	for _, c := range categories {
		opts = append(opts, c.Name)
	}
	return opts
}

// categoryID maps a selected option back to a category id. nil means no
// filter.
func categoryID(selected string, categories []model.Category) *int {
	for _, c := range categories {
		if c.Name == selected {
			id := c.ID
			return &id
		}
	}
	return nil
}

// metadataLines renders metadata as sorted "key: value" lines
func metadataLines(m model.Metadata) []string {
	if m.Failed() {
		return nil
	}
	lines := make([]string, 0, len(m.Values))
	for _, k := range m.Keys() {
		lines = append(lines, fmt.Sprintf("%s: %s", k, m.Values[k]))
	}
	return lines
}

// progressText describes how far a download got
func progressText(t model.DownloadTask) string {
	switch t.Status {
	case model.TaskStatusDone:
		return humanize.Bytes(uint64(t.BytesWritten))
	case model.TaskStatusFailed:
		return cleanText(t.LastError)
	case model.TaskStatusPending:
		return DashPlaceholder
	}
	if p := t.Percent(); p >= 0 {
		return fmt.Sprintf("%s / %s"+MiddleDotSeparator+ProgressLabelFormat,
			humanize.Bytes(uint64(t.BytesWritten)), humanize.Bytes(uint64(t.TotalBytes)), p)
	}
	return humanize.Bytes(uint64(t.BytesWritten))
}

// progressValue returns the progress bar fraction
func progressValue(t model.DownloadTask) float64 {
	if p := t.Percent(); p >= 0 {
		return float64(p) / 100
	}
	return 0
}
