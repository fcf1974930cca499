package model

// Package model defines the data shared between the catalog client, the
// background workers and the consumers: catalog entries, categories,
// embedded metadata results, download tasks and their status enum.
