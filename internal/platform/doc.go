package platform

// Package platform contains OS integration helpers: the user's Downloads
// directory, directory creation, and revealing files in the system file manager.
