package catalog

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu      sync.Mutex
	queries []url.Values
	paths   []string
}

func (r *recorder) record(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, req.URL.Query())
	r.paths = append(r.paths, req.URL.Path)
}

func (r *recorder) last() (string, url.Values) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paths[len(r.paths)-1], r.queries[len(r.queries)-1]
}

func newCatalogServer(t *testing.T, rec *recorder, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearch_ReturnsAllMatches(t *testing.T) {
	rec := &recorder{}
	srv := newCatalogServer(t, rec, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"name":"Red Dragon","filename":"red_dragon.safetensors"},
			{"name":"Dragon Scales","filename":"scales.safetensors","preview_url":"/uploads/scales.png"},
			{"name":"Dragonfly","filename":"dragonfly.safetensors","category_id":3,"likes":9}
		]`)
	})

	limit := 10
	entries, err := NewClient(srv.URL).Search(context.Background(), "dragon", &limit, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "red_dragon.safetensors", entries[0].Filename)
	assert.Equal(t, "scales.safetensors", entries[1].Filename)
	assert.Equal(t, "dragonfly.safetensors", entries[2].Filename)
	assert.JSONEq(t, "9", string(entries[2].Extra["likes"]))

	path, q := rec.last()
	assert.Equal(t, "/search", path)
	assert.Equal(t, "dragon", q.Get("query"))
	assert.Equal(t, "10", q.Get("limit"))
	assert.Equal(t, "0", q.Get("offset"))
}

func TestSearch_NilLimitOmitted(t *testing.T) {
	rec := &recorder{}
	srv := newCatalogServer(t, rec, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	entries, err := NewClient(srv.URL).Search(context.Background(), "x", nil, 20)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, q := rec.last()
	assert.False(t, q.Has("limit"))
	assert.Equal(t, "20", q.Get("offset"))
}

func TestListGrid_CategoryParameter(t *testing.T) {
	rec := &recorder{}
	srv := newCatalogServer(t, rec, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"filename":"a.safetensors"}]`)
	})
	client := NewClient(srv.URL)

	_, err := client.ListGrid(context.Background(), GridQuery{})
	require.NoError(t, err)
	path, q := rec.last()
	assert.Equal(t, "/grid_data", path)
	assert.False(t, q.Has("category"))
	assert.Equal(t, "*", q.Get("q"))
	assert.Equal(t, "0", q.Get("offset"))
	assert.Equal(t, "50", q.Get("limit"))

	five := 5
	_, err = client.ListGrid(context.Background(), GridQuery{Q: "elf", Category: &five, Offset: 100, Limit: 25})
	require.NoError(t, err)
	_, q = rec.last()
	assert.Equal(t, "5", q.Get("category"))
	assert.Equal(t, "elf", q.Get("q"))
	assert.Equal(t, "100", q.Get("offset"))
	assert.Equal(t, "25", q.Get("limit"))
}

func TestListCategories(t *testing.T) {
	rec := &recorder{}
	srv := newCatalogServer(t, rec, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id":1,"name":"Characters"},{"id":2,"name":"Styles"}]`)
	})

	cats, err := NewClient(srv.URL + "/").ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, 2, cats[1].ID)
	assert.Equal(t, "Styles", cats[1].Name)

	path, q := rec.last()
	assert.Equal(t, "/categories", path)
	assert.Empty(t, q)
}

func TestQueries_NonSuccessStatusIsRemoteError(t *testing.T) {
	rec := &recorder{}
	srv := newCatalogServer(t, rec, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := NewClient(srv.URL).Search(context.Background(), "x", nil, 0)
	require.Error(t, err)
	assert.True(t, IsRemote(err))
	assert.False(t, IsTransport(err))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(err))
	assert.Contains(t, err.Error(), "500")
}

func TestQueries_MalformedJSONIsRemoteError(t *testing.T) {
	rec := &recorder{}
	srv := newCatalogServer(t, rec, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"filename":`)
	})

	_, err := NewClient(srv.URL).ListCategories(context.Background())
	require.Error(t, err)

	var re *RemoteError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, http.StatusOK, re.StatusCode)
	assert.Contains(t, err.Error(), "malformed JSON")
}

func TestQueries_WrongShapeIsRemoteError(t *testing.T) {
	rec := &recorder{}
	srv := newCatalogServer(t, rec, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results": []}`)
	})

	_, err := NewClient(srv.URL).ListGrid(context.Background(), GridQuery{})
	require.Error(t, err)
	assert.True(t, IsRemote(err))
	assert.Contains(t, err.Error(), "unexpected JSON shape")
}

func TestQueries_ConnectionRefusedIsTransportError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	_, err = NewClient("http://" + addr).Search(context.Background(), "x", nil, 0)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.False(t, IsRemote(err))
}

func TestQueries_CancelledContextIsTransportError(t *testing.T) {
	rec := &recorder{}
	srv := newCatalogServer(t, rec, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL).ListCategories(ctx)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStream_StatusHandling(t *testing.T) {
	rec := &recorder{}
	srv := newCatalogServer(t, rec, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/uploads/missing.bin" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, "payload")
	})
	client := NewClient(srv.URL)

	s, err := client.Stream(context.Background(), client.Locator().Upload("ok.bin"), nil)
	require.NoError(t, err)
	body, err := io.ReadAll(s.Body)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Equal(t, "payload", string(body))
	assert.Equal(t, int64(len("payload")), s.Size)

	_, err = client.Stream(context.Background(), client.Locator().Upload("missing.bin"), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestHeadAndFetch(t *testing.T) {
	rec := &recorder{}
	srv := newCatalogServer(t, rec, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/uploads/a.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		io.WriteString(w, "PNGDATA")
	})
	client := NewClient(srv.URL)

	code, err := client.Head(context.Background(), client.Locator().Upload("a.png"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)

	code, err = client.Head(context.Background(), client.Locator().Upload("b.png"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, code)

	data, err := client.Fetch(context.Background(), client.Locator().Upload("a.png"))
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(data))
}

func TestClient_SendsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, WithUserAgent("tester/2")).ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tester/2", got)
}
