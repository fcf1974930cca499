package download

// Package download streams catalog artifacts to local files and tracks the
// lifecycle of each download task. A destination path only ever holds a
// complete file: bytes land in a temporary sibling that is renamed into
// place once the transfer finished.
