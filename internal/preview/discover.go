package preview

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mylora/mylora-desktop/internal/catalog"
)

// Defaults for discovery
const (
	DefaultMaxIndex    = 10
	DefaultConcurrency = 8
)

// Extensions lists the image extensions probed, in probe order
var Extensions = []string{"png", "jpg", "jpeg", "gif"}

// Prober is the part of the catalog client used for existence checks
type Prober interface {
	Locator() catalog.Locator
	Head(ctx context.Context, rawURL string) (int, error)
	Open(ctx context.Context, rawURL string, headers map[string]string) (*catalog.Stream, error)
}

// Probe is the outcome of checking one candidate
type Probe struct {
	Index  int    // position in candidate order
	Name   string // candidate file name
	URL    string // absolute storage URL
	Exists bool
	// Err is the transport failure that made the candidate count as absent
	Err error
}

// Discoverer finds the preview images stored next to an artifact
type Discoverer struct {
	client      Prober
	maxIndex    int
	concurrency int
	onProbe     func(Probe)
	log         zerolog.Logger
}

// Option configures a Discoverer
type Option func(*Discoverer)

// WithMaxIndex sets the highest numbered suffix probed (default 10)
func WithMaxIndex(n int) Option {
	return func(d *Discoverer) {
		if n >= 0 {
			d.maxIndex = n
		}
	}
}

// WithConcurrency bounds the number of probes in flight (default 8)
func WithConcurrency(n int) Option {
	return func(d *Discoverer) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithProgress registers fn to be called from worker goroutines as each
// probe completes, in completion order
func WithProgress(fn func(Probe)) Option {
	return func(d *Discoverer) { d.onProbe = fn }
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(d *Discoverer) { d.log = l }
}

// NewDiscoverer returns a Discoverer probing through client
func NewDiscoverer(client Prober, opts ...Option) *Discoverer {
	d := &Discoverer{
		client:      client,
		maxIndex:    DefaultMaxIndex,
		concurrency: DefaultConcurrency,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.With().Str("component", "preview").Logger()
	return d
}

// Candidates returns the file names probed for stem, in order: the bare
// stem with each extension, then stem_1 through stem_maxIndex, all
// extensions of one index before the next index.
func Candidates(stem string, maxIndex int) []string {
	names := make([]string, 0, len(Extensions)*(maxIndex+1))
	for _, ext := range Extensions {
		names = append(names, fmt.Sprintf("%s.%s", stem, ext))
	}
	for i := 1; i <= maxIndex; i++ {
		for _, ext := range Extensions {
			names = append(names, fmt.Sprintf("%s_%d.%s", stem, i, ext))
		}
	}
	return names
}

// Discover returns the absolute URLs of the candidates that answered 200,
// in candidate order. Probe failures count as absence, so the result may
// miss files but never lists one that was not confirmed.
func (d *Discoverer) Discover(ctx context.Context, stem string) []string {
	if stem == "" {
		return nil
	}

	names := Candidates(stem, d.maxIndex)
	found := make([]string, len(names))

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for i, name := range names {
		g.Go(func() error {
			p := d.probe(ctx, i, name)
			if p.Exists {
				found[i] = p.URL
			}
			if d.onProbe != nil {
				d.onProbe(p)
			}
			return nil
		})
	}
	_ = g.Wait()

	urls := make([]string, 0, len(names))
	for _, u := range found {
		if u != "" {
			urls = append(urls, u)
		}
	}
	d.log.Debug().Str("stem", stem).Int("candidates", len(names)).Int("found", len(urls)).Msg("preview discovery finished")
	return urls
}

// probe checks one candidate with HEAD, falling back to a streamed GET
// when the HEAD is rejected. Every opened body is closed before returning.
func (d *Discoverer) probe(ctx context.Context, index int, name string) Probe {
	p := Probe{Index: index, Name: name, URL: d.client.Locator().Upload(name)}
	if ctx.Err() != nil {
		p.Err = ctx.Err()
		return p
	}

	status, err := d.client.Head(ctx, p.URL)
	if err == nil && !headRejected(status) {
		p.Exists = status == http.StatusOK
		return p
	}

	s, getErr := d.client.Open(ctx, p.URL, nil)
	if getErr != nil {
		p.Err = getErr
		d.log.Debug().Err(getErr).Str("url", p.URL).Msg("probe failed, treating as absent")
		return p
	}
	defer s.Close()

	p.Exists = s.StatusCode == http.StatusOK
	return p
}

// headRejected reports statuses with which servers and proxies refuse HEAD
// itself rather than answer for the resource
func headRejected(status int) bool {
	return status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented
}
