package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadataOK(t *testing.T) {
	m := MetadataOK(nil)
	assert.False(t, m.Failed())
	assert.Equal(t, map[string]string{}, m.AsMap())

	m = MetadataOK(map[string]string{"ss_network_dim": "32", "format": "pt"})
	assert.Equal(t, []string{"format", "ss_network_dim"}, m.Keys())
	assert.Equal(t, "32", m.AsMap()["ss_network_dim"])
}

func TestMetadataFailed(t *testing.T) {
	m := MetadataFailed(errors.New("header too large"))
	assert.True(t, m.Failed())
	assert.Equal(t, map[string]string{"error": "header too large"}, m.AsMap())

	empty := MetadataFailed(nil)
	assert.True(t, empty.Failed())
	assert.Equal(t, DefaultMetadataError, empty.AsMap()[MetadataErrorKey])
}
