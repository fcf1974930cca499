package metadata

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tensor struct {
	name  string
	dtype string
	shape []int64
}

// container assembles a safetensors file with zeroed tensor data
func container(t *testing.T, meta map[string]string, tensors ...tensor) []byte {
	t.Helper()
	header := map[string]any{}
	if meta != nil {
		header["__metadata__"] = meta
	}
	var offset int64
	for _, tn := range tensors {
		n := dtypeSizes[tn.dtype]
		for _, d := range tn.shape {
			n *= d
		}
		header[tn.name] = map[string]any{
			"dtype":        tn.dtype,
			"shape":        tn.shape,
			"data_offsets": []int64{offset, offset + n},
		}
		offset += n
	}
	return rawContainer(t, header, int(offset))
}

func rawContainer(t *testing.T, header any, dataLen int) []byte {
	t.Helper()
	h, err := json.Marshal(header)
	require.NoError(t, err)
	return withHeaderBytes(h, dataLen)
}

func withHeaderBytes(h []byte, dataLen int) []byte {
	var buf bytes.Buffer
	var prefix [8]byte
	binary.LittleEndian.PutUint64(prefix[:], uint64(len(h)))
	buf.Write(prefix[:])
	buf.Write(h)
	buf.Write(make([]byte, dataLen))
	return buf.Bytes()
}

func TestParse_Metadata(t *testing.T) {
	meta := map[string]string{
		"ss_network_dim":   "32",
		"ss_tag_frequency": strings.Repeat(`{"dragon": 12}`, 200),
		"modelspec.title":  "Dragon Style",
	}
	data := container(t, meta,
		tensor{"lora_up.weight", "F16", []int64{32, 64}},
		tensor{"lora_down.weight", "F32", []int64{64, 32}},
		tensor{"alpha", "F32", []int64{}},
	)

	got := FromBytes(data)
	require.False(t, got.Failed(), got.Err)
	assert.Equal(t, meta, got.Values)
}

func TestParse_NoMetadataIsEmptyMap(t *testing.T) {
	got := FromBytes(container(t, nil, tensor{"w", "BF16", []int64{4}}))
	require.False(t, got.Failed())
	assert.NotNil(t, got.Values)
	assert.Empty(t, got.Values)
}

func TestParse_UnknownSizeSkipsLengthCheck(t *testing.T) {
	data := container(t, map[string]string{"k": "v"}, tensor{"w", "U8", []int64{10}})
	truncated := data[:len(data)-5]

	values, err := Parse(bytes.NewReader(truncated), -1)
	require.NoError(t, err)
	assert.Equal(t, "v", values["k"])

	_, err = Parse(bytes.NewReader(truncated), int64(len(truncated)))
	assert.Error(t, err)
}

func TestParse_Failures(t *testing.T) {
	huge := make([]byte, 8)
	binary.LittleEndian.PutUint64(huge, MaxHeaderSize+1)

	tests := []struct {
		name   string
		data   []byte
		reason string
	}{
		{"empty", nil, "file too small"},
		{"short prefix", []byte{1, 2, 3}, "file too small"},
		{"header too large", huge, "header too large"},
		{"header too small", withHeaderBytes([]byte("{"), 0), "header too small"},
		{"truncated header", withHeaderBytes([]byte(`{"__metadata__":{}}`), 0)[:15], "exceeds file size"},
		{"not an object", withHeaderBytes([]byte(`["a"]`), 0), "does not start with '{'"},
		{"invalid json", withHeaderBytes([]byte(`{"a":`), 0), "not valid JSON"},
		{"metadata not strings", rawContainer(t, map[string]any{"__metadata__": map[string]any{"epochs": 10}}, 0), "must map strings to strings"},
		{"unknown dtype", rawContainer(t, map[string]any{"w": map[string]any{"dtype": "Q4", "shape": []int{1}, "data_offsets": []int{0, 1}}}, 1), "unsupported dtype"},
		{"missing shape", rawContainer(t, map[string]any{"w": map[string]any{"dtype": "U8", "data_offsets": []int{0, 1}}}, 1), "no shape"},
		{"bad offsets", rawContainer(t, map[string]any{"w": map[string]any{"dtype": "U8", "shape": []int{1}, "data_offsets": []int{1}}}, 1), "two data offsets"},
		{"size mismatch", rawContainer(t, map[string]any{"w": map[string]any{"dtype": "F32", "shape": []int{2}, "data_offsets": []int{0, 4}}}, 4), "needs 8"},
		{"gap", rawContainer(t, map[string]any{"w": map[string]any{"dtype": "U8", "shape": []int{2}, "data_offsets": []int{2, 4}}}, 4), "not contiguous"},
		{"trailing data", append(container(t, nil, tensor{"w", "U8", []int64{2}}), 0, 0), "data section is 4 bytes"},
		{"plain text", []byte("this is definitely not a tensor container"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromBytes(tt.data)
			require.True(t, got.Failed())
			assert.NotEmpty(t, got.AsMap()["error"])
			assert.Contains(t, got.Err, tt.reason)
		})
	}
}

func TestParse_ErrorType(t *testing.T) {
	_, err := Parse(bytes.NewReader([]byte{0}), 1)
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.True(t, strings.HasPrefix(err.Error(), "safetensors: "))
}

func TestFromBytes_NeverPanicsOnRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	valid := container(t, map[string]string{"a": "b"}, tensor{"w", "F16", []int64{3, 3}})

	for i := 0; i < 500; i++ {
		var data []byte
		switch i % 3 {
		case 0:
			data = make([]byte, rng.Intn(64))
			rng.Read(data)
		case 1:
			data = append([]byte(nil), valid...)
			data[rng.Intn(len(data))] ^= byte(rng.Intn(255) + 1)
		default:
			data = valid[:rng.Intn(len(valid))]
		}

		got := FromBytes(data)
		if got.Failed() {
			assert.NotEmpty(t, got.Err)
		} else {
			assert.NotNil(t, got.Values)
		}
	}
}
