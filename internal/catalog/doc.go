package catalog

// Package catalog talks to the remote artifact catalog: it resolves
// server-relative paths against the configured origin, issues the search,
// grid and category queries, and opens raw streams on stored artifacts for
// the preview, metadata and download packages. A Client is safe for
// concurrent use by many workers.
