package model

import "sort"

// MetadataErrorKey is the key under which AsMap reports a failed extraction
const MetadataErrorKey = "error"

// DefaultMetadataError is used when a failure carries no message
const DefaultMetadataError = "metadata could not be read"

// Metadata is the outcome of reading the metadata block embedded in an
// artifact: either the key/value pairs or the reason they are unavailable.
// Exactly one of Values and Err is meaningful.
type Metadata struct {
	Values map[string]string
	Err    string
}

// MetadataOK wraps successfully decoded values. A nil map becomes empty.
func MetadataOK(values map[string]string) Metadata {
	if values == nil {
		values = map[string]string{}
	}
	return Metadata{Values: values}
}

// MetadataFailed wraps an extraction failure
func MetadataFailed(err error) Metadata {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = DefaultMetadataError
	}
	return Metadata{Err: msg}
}

// Failed reports whether extraction failed
func (m Metadata) Failed() bool {
	return m.Err != ""
}

// AsMap returns the values, or {"error": message} when extraction failed
func (m Metadata) AsMap() map[string]string {
	if m.Failed() {
		return map[string]string{MetadataErrorKey: m.Err}
	}
	if m.Values == nil {
		return map[string]string{}
	}
	return m.Values
}

// Keys returns the metadata keys in sorted order
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m.Values))
	for k := range m.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
