// Package app assembles the catalog components behind an orchestrator
// Session for the desktop and command line front ends.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mylora/mylora-desktop/internal/catalog"
	"github.com/mylora/mylora-desktop/internal/download"
	"github.com/mylora/mylora-desktop/internal/metadata"
	"github.com/mylora/mylora-desktop/internal/orchestrator"
	"github.com/mylora/mylora-desktop/internal/preview"
)

// Config selects the origin and tuning of the assembled services
type Config struct {
	Origin           string
	UserAgent        string
	PreviewMaxIndex  int
	ProbeConcurrency int
	Logger           zerolog.Logger
	// Dispatch delivers results on the consumer's thread
	Dispatch orchestrator.Dispatcher
	// Context bounds every worker; nil means context.Background
	Context context.Context
}

// Services are the assembled components
type Services struct {
	Client    *catalog.Client
	Downloads *download.Service
	Session   *orchestrator.Session
}

// New wires a catalog client, preview discovery, metadata extraction and
// downloads into a Session
func New(cfg Config) *Services {
	log := cfg.Logger
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	client := catalog.NewClient(cfg.Origin,
		catalog.WithLogger(log),
		catalog.WithUserAgent(cfg.UserAgent),
	)
	discoverer := preview.NewDiscoverer(client,
		preview.WithMaxIndex(cfg.PreviewMaxIndex),
		preview.WithConcurrency(cfg.ProbeConcurrency),
		preview.WithLogger(log),
	)
	extractor := metadata.NewExtractor(client, log)
	downloads := download.NewService(download.NewManager(client, log), log)

	orch := orchestrator.New(cfg.Dispatch,
		orchestrator.WithLogger(log),
		orchestrator.WithContext(ctx),
	)
	session := orchestrator.NewSession(orch, orchestrator.Deps{
		Entries:    client,
		Categories: client,
		Previews:   discoverer,
		Metadata:   extractor,
		Images:     client,
		Downloads:  downloads,
	})

	log.Debug().Str("origin", client.Locator().Origin()).Msg("services ready")
	return &Services{Client: client, Downloads: downloads, Session: session}
}
