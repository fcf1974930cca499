package orchestrator

import (
	"context"

	"github.com/mylora/mylora-desktop/internal/catalog"
	"github.com/mylora/mylora-desktop/internal/download"
	"github.com/mylora/mylora-desktop/internal/model"
)

// Slots used by Session
const (
	SlotEntries    = "entries"
	SlotCategories = "categories"
)

// PreviewSlot returns the slot of preview discovery for filename
func PreviewSlot(filename string) string { return "previews:" + filename }

// MetadataSlot returns the slot of metadata extraction for filename
func MetadataSlot(filename string) string { return "metadata:" + filename }

// ImageSlot returns the slot of an image fetch for filename
func ImageSlot(filename string) string { return "image:" + filename }

// EntrySource lists catalog entries
type EntrySource interface {
	Search(ctx context.Context, query string, limit *int, offset int) ([]model.CatalogEntry, error)
	ListGrid(ctx context.Context, q catalog.GridQuery) ([]model.CatalogEntry, error)
}

// PreviewFinder discovers preview image URLs for an artifact stem
type PreviewFinder interface {
	Discover(ctx context.Context, stem string) []string
}

// MetadataReader extracts the embedded metadata of an artifact
type MetadataReader interface {
	Extract(ctx context.Context, filename string) model.Metadata
}

// ImageFetcher reads a small remote resource
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Deps are the components a Session drives
type Deps struct {
	Entries    EntrySource
	Categories CategoryLister
	Previews   PreviewFinder
	Metadata   MetadataReader
	Images     ImageFetcher
	Downloads  download.Downloader
}

// Session is the consumer-facing entry point. Every method returns at once;
// results arrive on the consumer thread through deliver.
type Session struct {
	orch       *Orchestrator
	deps       Deps
	categories *CategoryCache
}

// NewSession returns a Session running deps through o
func NewSession(o *Orchestrator, deps Deps) *Session {
	return &Session{
		orch:       o,
		deps:       deps,
		categories: NewCategoryCache(deps.Categories),
	}
}

// CategoryCache exposes the session's category cache
func (s *Session) CategoryCache() *CategoryCache {
	return s.categories
}

// Search runs a free-text search into the entries slot
func (s *Session) Search(query string, limit *int, offset int, deliver func(Result[[]model.CatalogEntry])) *Handle {
	return Submit(s.orch, SlotEntries, func(ctx context.Context) ([]model.CatalogEntry, error) {
		return s.deps.Entries.Search(ctx, query, limit, offset)
	}, deliver)
}

// ListGrid runs a grid listing into the entries slot, superseding any
// pending search and vice versa
func (s *Session) ListGrid(q catalog.GridQuery, deliver func(Result[[]model.CatalogEntry])) *Handle {
	return Submit(s.orch, SlotEntries, func(ctx context.Context) ([]model.CatalogEntry, error) {
		return s.deps.Entries.ListGrid(ctx, q)
	}, deliver)
}

// Categories delivers the cached categories, fetching them on first use
func (s *Session) Categories(deliver func(Result[[]model.Category])) *Handle {
	return Submit(s.orch, SlotCategories, s.categories.Get, deliver)
}

// RefreshCategories re-fetches the categories
func (s *Session) RefreshCategories(deliver func(Result[[]model.Category])) *Handle {
	return Submit(s.orch, SlotCategories, s.categories.Refresh, deliver)
}

// Previews discovers the preview images of entry
func (s *Session) Previews(entry model.CatalogEntry, deliver func(Result[[]string])) *Handle {
	stem := entry.Stem()
	return Submit(s.orch, PreviewSlot(entry.Filename), func(ctx context.Context) ([]string, error) {
		return s.deps.Previews.Discover(ctx, stem), nil
	}, deliver)
}

// Metadata extracts the metadata of filename. Extraction failures arrive as
// a failed model.Metadata, never as Result.Err.
func (s *Session) Metadata(filename string, deliver func(Result[model.Metadata])) *Handle {
	return Submit(s.orch, MetadataSlot(filename), func(ctx context.Context) (model.Metadata, error) {
		return s.deps.Metadata.Extract(ctx, filename), nil
	}, deliver)
}

// Image fetches an image for the detail view of filename
func (s *Session) Image(filename, rawURL string, deliver func(Result[[]byte])) *Handle {
	return Submit(s.orch, ImageSlot(filename), func(ctx context.Context) ([]byte, error) {
		return s.deps.Images.Fetch(ctx, rawURL)
	}, deliver)
}

// Download registers a download task and runs it. Downloads are never
// superseded. The error is returned at once when the task is rejected.
func (s *Session) Download(filename, destination string, deliver func(Result[string])) (*Handle, error) {
	task, err := s.deps.Downloads.Add(filename, destination)
	if err != nil {
		return nil, err
	}
	return Submit(s.orch, "", func(ctx context.Context) (string, error) {
		return s.deps.Downloads.Run(ctx, task.ID)
	}, deliver), nil
}

// OnDownloadUpdate forwards download task updates to fn on the consumer
// thread
func (s *Session) OnDownloadUpdate(fn func(model.DownloadTask)) {
	if fn == nil {
		s.deps.Downloads.SetUpdateCallback(nil)
		return
	}
	s.deps.Downloads.SetUpdateCallback(func(task model.DownloadTask) {
		s.orch.Dispatch(func() { fn(task) })
	})
}

// RemoveDownload forgets a finished download task
func (s *Session) RemoveDownload(id string) error {
	return s.deps.Downloads.Remove(id)
}

// Downloads returns all download tasks
func (s *Session) Downloads() []model.DownloadTask {
	return s.deps.Downloads.All()
}

// Wait blocks until all workers returned
func (s *Session) Wait() {
	s.orch.Wait()
}
