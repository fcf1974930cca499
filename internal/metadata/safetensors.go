package metadata

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/mylora/mylora-desktop/internal/model"
)

const (
	// headerLenSize is the size of the little-endian header length prefix
	headerLenSize = 8

	// MaxHeaderSize mirrors the limit enforced by the reference reader
	MaxHeaderSize = 100 << 20

	metadataKey = "__metadata__"
)

// dtypeSizes maps every supported element type to its width in bytes
var dtypeSizes = map[string]int64{
	"BOOL": 1, "U8": 1, "I8": 1, "F8_E4M3": 1, "F8_E5M2": 1,
	"U16": 2, "I16": 2, "F16": 2, "BF16": 2,
	"U32": 4, "I32": 4, "F32": 4,
	"U64": 8, "I64": 8, "F64": 8,
}

// DecodeError describes why a container header could not be read
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("safetensors: %s: %v", e.Reason, e.Err)
	}
	return "safetensors: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(err error, format string, args ...any) *DecodeError {
	return &DecodeError{Reason: fmt.Sprintf(format, args...), Err: err}
}

type tensorInfo struct {
	Dtype       string   `json:"dtype"`
	Shape       *[]int64 `json:"shape"`
	DataOffsets []int64  `json:"data_offsets"`
}

type span struct {
	name       string
	begin, end int64
}

// Parse reads a container header from r and returns its metadata. size is
// the total container size if known, or -1; when known the tensor data
// section must account for it exactly. Parse reads no further than the end
// of the header.
func Parse(r io.Reader, size int64) (map[string]string, error) {
	var prefix [headerLenSize]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return nil, decodeErr(err, "file too small to hold a header")
	}

	n := binary.LittleEndian.Uint64(prefix[:])
	if n > MaxHeaderSize {
		return nil, decodeErr(nil, "header too large (%d bytes)", n)
	}
	if n < 2 {
		return nil, decodeErr(nil, "header too small (%d bytes)", n)
	}
	if size >= 0 && int64(headerLenSize)+int64(n) > size {
		return nil, decodeErr(nil, "header length %d exceeds file size %d", n, size)
	}

	header := make([]byte, n)
	if _, err := io.ReadFull(r, header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, decodeErr(err, "truncated header")
		}
		return nil, decodeErr(err, "reading header")
	}

	return decodeHeader(header, size)
}

// FromBytes parses a complete container held in memory
func FromBytes(data []byte) model.Metadata {
	values, err := Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return model.MetadataFailed(err)
	}
	return model.MetadataOK(values)
}

func decodeHeader(header []byte, size int64) (map[string]string, error) {
	if header[0] != '{' {
		return nil, decodeErr(nil, "header does not start with '{'")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(header, &raw); err != nil {
		return nil, decodeErr(err, "header is not valid JSON")
	}

	metadata := map[string]string{}
	if m, ok := raw[metadataKey]; ok {
		var values map[string]string
		if err := json.Unmarshal(m, &values); err != nil {
			return nil, decodeErr(err, "%s must map strings to strings", metadataKey)
		}
		for k, v := range values {
			metadata[k] = v
		}
		delete(raw, metadataKey)
	}

	spans := make([]span, 0, len(raw))
	for name, v := range raw {
		s, err := checkTensor(name, v)
		if err != nil {
			return nil, err
		}
		spans = append(spans, s)
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].begin != spans[j].begin {
			return spans[i].begin < spans[j].begin
		}
		return spans[i].end < spans[j].end
	})

	var end int64
	for _, s := range spans {
		if s.begin != end {
			return nil, decodeErr(nil, "tensor %q data is not contiguous (starts at %d, expected %d)", s.name, s.begin, end)
		}
		end = s.end
	}

	if size >= 0 {
		data := size - headerLenSize - int64(len(header))
		if data != end {
			return nil, decodeErr(nil, "data section is %d bytes but header describes %d", data, end)
		}
	}

	return metadata, nil
}

func checkTensor(name string, v json.RawMessage) (span, error) {
	var ti tensorInfo
	if err := json.Unmarshal(v, &ti); err != nil {
		return span{}, decodeErr(err, "tensor %q has an invalid entry", name)
	}

	width, ok := dtypeSizes[ti.Dtype]
	if !ok {
		return span{}, decodeErr(nil, "tensor %q has unsupported dtype %q", name, ti.Dtype)
	}
	if ti.Shape == nil {
		return span{}, decodeErr(nil, "tensor %q has no shape", name)
	}
	if len(ti.DataOffsets) != 2 {
		return span{}, decodeErr(nil, "tensor %q must have two data offsets", name)
	}

	begin, end := ti.DataOffsets[0], ti.DataOffsets[1]
	if begin < 0 || end < begin {
		return span{}, decodeErr(nil, "tensor %q has invalid offsets [%d, %d]", name, begin, end)
	}

	elements := int64(1)
	for _, d := range *ti.Shape {
		if d < 0 {
			return span{}, decodeErr(nil, "tensor %q has negative dimension %d", name, d)
		}
		if d != 0 && elements > (1<<55)/d {
			return span{}, decodeErr(nil, "tensor %q shape overflows", name)
		}
		elements *= d
	}
	if elements*width != end-begin {
		return span{}, decodeErr(nil, "tensor %q occupies %d bytes but %s%v needs %d", name, end-begin, ti.Dtype, *ti.Shape, elements*width)
	}

	return span{name: name, begin: begin, end: end}, nil
}
