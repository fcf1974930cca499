package model

import (
	"encoding/json"
	"path"
	"strconv"
	"strings"
)

// JSON field names the client interprets. Everything else is carried in Extra.
const (
	FieldName       = "name"
	FieldFilename   = "filename"
	FieldPreviewURL = "preview_url"
	FieldCategoryID = "category_id"
)

// CatalogEntry is one artifact record returned by the search and grid
// endpoints. Filename identifies the artifact within a catalog.
type CatalogEntry struct {
	Name       string
	Filename   string
	PreviewURL *string
	CategoryID *int

	// Extra holds fields the client does not know about, verbatim.
	Extra map[string]json.RawMessage
}

// Category is a catalog category as listed by the categories endpoint
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DisplayName returns Name, falling back to Filename
func (e CatalogEntry) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Filename
}

// Stem returns Filename without its final extension
func (e CatalogEntry) Stem() string {
	base := path.Base(e.Filename)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// HasPreview reports whether the server attached a preview path
func (e CatalogEntry) HasPreview() bool {
	return e.PreviewURL != nil && *e.PreviewURL != ""
}

// UnmarshalJSON decodes the known fields and keeps the rest in Extra.
// A category_id that is neither a number nor a numeric string is kept in
// Extra instead of failing the whole listing.
func (e *CatalogEntry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = CatalogEntry{}
	if v, ok := raw[FieldName]; ok {
		if err := decodeOptionalString(v, &e.Name); err != nil {
			return err
		}
		delete(raw, FieldName)
	}
	if v, ok := raw[FieldFilename]; ok {
		if err := decodeOptionalString(v, &e.Filename); err != nil {
			return err
		}
		delete(raw, FieldFilename)
	}
	if v, ok := raw[FieldPreviewURL]; ok {
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return err
		}
		e.PreviewURL = s
		delete(raw, FieldPreviewURL)
	}
	if v, ok := raw[FieldCategoryID]; ok {
		if id, ok := decodeLenientInt(v); ok {
			e.CategoryID = id
			delete(raw, FieldCategoryID)
		}
	}

	if len(raw) > 0 {
		e.Extra = raw
	}
	return nil
}

// MarshalJSON writes the known fields merged with Extra
func (e CatalogEntry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+4)
	for k, v := range e.Extra {
		out[k] = v
	}
	out[FieldName] = e.Name
	out[FieldFilename] = e.Filename
	if e.PreviewURL != nil {
		out[FieldPreviewURL] = *e.PreviewURL
	}
	if e.CategoryID != nil {
		out[FieldCategoryID] = *e.CategoryID
	}
	return json.Marshal(out)
}

func decodeOptionalString(v json.RawMessage, dst *string) error {
	var s *string
	if err := json.Unmarshal(v, &s); err != nil {
		return err
	}
	if s != nil {
		*dst = *s
	}
	return nil
}

func decodeLenientInt(v json.RawMessage) (*int, bool) {
	var n *int
	if err := json.Unmarshal(v, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return &i, true
		}
	}
	return nil, false
}
