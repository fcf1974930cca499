package catalog

import (
	"net/url"
	"strings"
)

// UploadsPath is the storage prefix for artifacts and preview images
const UploadsPath = "uploads/"

// Locator turns server-relative paths into absolute URLs under one origin.
// Callers pass server-relative paths only; resolving an already resolved
// URL is not meaningful.
type Locator struct {
	raw    string
	origin *url.URL
}

// NewLocator returns a Locator for origin. An origin that does not parse
// still resolves by plain concatenation.
func NewLocator(origin string) Locator {
	raw := strings.TrimRight(strings.TrimSpace(origin), "/") + "/"
	l := Locator{raw: raw}
	if u, err := url.Parse(raw); err == nil {
		l.origin = u
	}
	return l
}

// Origin returns the origin with a single trailing slash
func (l Locator) Origin() string {
	return l.raw
}

// Resolve joins rel onto the origin. Leading slashes in rel are dropped so
// "/search" and "search" resolve to the same URL below the origin path.
func (l Locator) Resolve(rel string) string {
	rel = strings.TrimLeft(rel, "/")
	if l.origin == nil {
		return l.raw + rel
	}
	ref, err := url.Parse(rel)
	if err != nil {
		return l.raw + rel
	}
	return l.origin.ResolveReference(ref).String()
}

// Upload returns the storage URL of filename, escaping each path segment
func (l Locator) Upload(filename string) string {
	return l.Resolve(UploadPath(filename))
}

// UploadPath returns the server-relative storage path of filename
func UploadPath(filename string) string {
	segments := strings.Split(strings.TrimLeft(filename, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return UploadsPath + strings.Join(segments, "/")
}
