// Package metadata reads the string metadata embedded in safetensors
// artifacts. Only the header is transferred: the format stores an 8-byte
// little-endian header length followed by a JSON header, so the tensor data
// that follows is never downloaded.
//
// Extraction never fails with an error value. Every problem, whether
// transport, HTTP status or a corrupt header, is reported as a failed
// model.Metadata so the detail view can always render something.
package metadata
