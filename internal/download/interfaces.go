package download

import (
	"context"

	"github.com/mylora/mylora-desktop/internal/model"
)

// Downloader defines the interface for the download task service.
type Downloader interface {
	SetUpdateCallback(func(model.DownloadTask))
	Add(filename, destination string) (model.DownloadTask, error)
	Run(ctx context.Context, id string) (string, error)
	Get(id string) (model.DownloadTask, bool)
	All() []model.DownloadTask
	Remove(id string) error
}

// FileFetcher streams one artifact to a local path
type FileFetcher interface {
	DownloadFile(ctx context.Context, filename, destination string, progress ProgressFunc) (string, error)
}
