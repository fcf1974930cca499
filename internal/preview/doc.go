package preview

// Package preview discovers the preview images stored next to an artifact.
// The catalog cannot list them, so a fixed set of names derived from the
// artifact stem is probed and only confirmed URLs are returned.
