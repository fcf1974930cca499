package model

import (
	"path/filepath"
	"strings"
	"time"
)

// DownloadTask represents a single artifact download
type DownloadTask struct {
	ID           string
	Filename     string     // artifact filename on the catalog
	Source       string     // resolved URL the bytes are streamed from
	Destination  string     // local path chosen by the user
	Status       TaskStatus
	BytesWritten int64
	TotalBytes   int64     // -1 if the server did not announce a length
	LastError    string    // last error message if any
	StartedAt    time.Time // when the task was created
	FinishedAt   time.Time // when the task reached Done or Failed
}

// Percent returns completion in the 0-100 range, or -1 when the total is unknown
func (dt *DownloadTask) Percent() int {
	if dt.Status == TaskStatusDone {
		return 100
	}
	if dt.TotalBytes <= 0 {
		return -1
	}
	p := int(dt.BytesWritten * 100 / dt.TotalBytes)
	if p > 100 {
		p = 100
	}
	return p
}

// GetDisplayTitle returns the artifact filename, the destination base name, or
// the source URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Filename != "" {
		return dt.Filename
	}

	if dt.Destination != "" {
		// support both / and \ separators regardless of the host OS
		parts := strings.FieldsFunc(dt.Destination, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}

	return dt.Source
}

// Elapsed returns how long the task ran, or has been running so far
func (dt *DownloadTask) Elapsed() time.Duration {
	if dt.StartedAt.IsZero() {
		return 0
	}
	if dt.FinishedAt.IsZero() {
		return time.Since(dt.StartedAt)
	}
	return dt.FinishedAt.Sub(dt.StartedAt)
}

// DestinationDir returns the directory the file is written into
func (dt *DownloadTask) DestinationDir() string {
	return filepath.Dir(dt.Destination)
}
