package metadata

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mylora/mylora-desktop/internal/catalog"
	"github.com/mylora/mylora-desktop/internal/model"
)

// Source is the part of the catalog client the extractor needs
type Source interface {
	Locator() catalog.Locator
	Stream(ctx context.Context, rawURL string, headers map[string]string) (*catalog.Stream, error)
}

// Extractor reads artifact metadata from catalog storage
type Extractor struct {
	src Source
	log zerolog.Logger
}

// NewExtractor returns an Extractor reading through src
func NewExtractor(src Source, log zerolog.Logger) *Extractor {
	return &Extractor{src: src, log: log.With().Str("component", "metadata").Logger()}
}

// Extract returns the metadata embedded in filename. It opens the stored
// artifact, reads only its header and closes the connection.
func (e *Extractor) Extract(ctx context.Context, filename string) model.Metadata {
	target := e.src.Locator().Upload(filename)

	s, err := e.src.Stream(ctx, target, map[string]string{"Accept-Encoding": "identity"})
	if err != nil {
		e.log.Warn().Err(err).Str("file", filename).Msg("metadata fetch failed")
		return model.MetadataFailed(err)
	}
	defer s.Close()

	values, err := Parse(s.Body, s.Size)
	if err != nil {
		e.log.Warn().Err(err).Str("file", filename).Msg("metadata decode failed")
		return model.MetadataFailed(err)
	}

	e.log.Debug().Str("file", filename).Int("keys", len(values)).Msg("metadata extracted")
	return model.MetadataOK(values)
}
