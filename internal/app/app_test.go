package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mylora/mylora-desktop/internal/model"
	"github.com/mylora/mylora-desktop/internal/orchestrator"
)

func TestNew_ServesCategoriesThroughSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categories" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode([]model.Category{{ID: 7, Name: "Styles"}})
	}))
	defer srv.Close()

	loop := orchestrator.NewLoop()
	svc := New(Config{
		Origin:   srv.URL,
		Logger:   zerolog.Nop(),
		Dispatch: loop.Dispatch,
		Context:  context.Background(),
	})
	assert.Equal(t, srv.URL+"/", svc.Client.Locator().Origin())

	var got orchestrator.Result[[]model.Category]
	svc.Session.Categories(func(r orchestrator.Result[[]model.Category]) { got = r })
	svc.Session.Wait()
	loop.Drain()

	require.NoError(t, got.Err)
	assert.Equal(t, []model.Category{{ID: 7, Name: "Styles"}}, got.Value)
	assert.Empty(t, svc.Downloads.All())
}
