package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mylora/mylora-desktop/internal/catalog"
)

// ChunkSize is the size of each read from the response body
const ChunkSize = 8 << 10

// FilePermissions applied to completed downloads
const FilePermissions = 0644

// ProgressFunc receives the bytes written so far and the announced total
// (-1 when unknown). It runs on the downloading goroutine.
type ProgressFunc func(written, total int64)

// LocalIOError reports a failure to create, write or finalize the
// destination file
type LocalIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *LocalIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LocalIOError) Unwrap() error { return e.Err }

// IsLocalIO reports whether err is or wraps a *LocalIOError
func IsLocalIO(err error) bool {
	var le *LocalIOError
	return errors.As(err, &le)
}

// Streamer is the part of the catalog client the manager needs
type Streamer interface {
	Locator() catalog.Locator
	Stream(ctx context.Context, rawURL string, headers map[string]string) (*catalog.Stream, error)
}

// Manager streams artifacts from catalog storage to local files
type Manager struct {
	src Streamer
	log zerolog.Logger
}

// NewManager returns a Manager reading through src
func NewManager(src Streamer, log zerolog.Logger) *Manager {
	return &Manager{src: src, log: log.With().Str("component", "download").Logger()}
}

// DownloadFile streams filename to destination and returns destination.
// The body is copied in ChunkSize reads into a temporary file next to
// destination, which is renamed over destination only after the whole body
// arrived. On any error the temporary file is removed and destination is
// left untouched.
func (m *Manager) DownloadFile(ctx context.Context, filename, destination string, progress ProgressFunc) (string, error) {
	source := m.src.Locator().Upload(filename)

	s, err := m.src.Stream(ctx, source, map[string]string{"Accept-Encoding": "identity"})
	if err != nil {
		return "", err
	}
	defer s.Close()

	tmp, err := os.CreateTemp(filepath.Dir(destination), "."+filepath.Base(destination)+".*.part")
	if err != nil {
		return "", &LocalIOError{Op: "create", Path: destination, Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	written, err := copyChunks(tmp, s, progress)
	if err != nil {
		var le *LocalIOError
		if errors.As(err, &le) {
			le.Path = destination
			return "", le
		}
		return "", &catalog.TransportError{Op: "get", URL: source, Err: err}
	}
	if s.Size >= 0 && written != s.Size {
		return "", &catalog.TransportError{Op: "get", URL: source,
			Err: fmt.Errorf("body ended after %d of %d bytes", written, s.Size)}
	}

	if err := tmp.Chmod(FilePermissions); err != nil {
		return "", &LocalIOError{Op: "chmod", Path: destination, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &LocalIOError{Op: "close", Path: destination, Err: err}
	}
	if err := os.Rename(tmp.Name(), destination); err != nil {
		return "", &LocalIOError{Op: "rename", Path: destination, Err: err}
	}
	committed = true

	m.log.Info().Str("file", filename).Str("dest", destination).Int64("bytes", written).Msg("download complete")
	return destination, nil
}

// copyChunks copies s.Body to w, skipping empty reads. Write failures come
// back as *LocalIOError, read failures unwrapped.
func copyChunks(w io.Writer, s *catalog.Stream, progress ProgressFunc) (int64, error) {
	buf := make([]byte, ChunkSize)
	var written int64
	for {
		n, rerr := s.Body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return written, &LocalIOError{Op: "write", Err: werr}
			}
			written += int64(n)
			if progress != nil {
				progress(written, s.Size)
			}
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
