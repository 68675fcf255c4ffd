package flightdesk

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightdeskhq/flightdesk/agent"
	"github.com/flightdeskhq/flightdesk/config"
	"github.com/flightdeskhq/flightdesk/engine"
	"github.com/flightdeskhq/flightdesk/model"
)

func TestNew_WithMockGenerator(t *testing.T) {
	gen := model.NewMockGenerator()
	gen.Enqueue("Welcome to the flight desk!")

	fd, err := New(nil, func(o *Options) {
		o.Generator = gen
	})
	require.NoError(t, err)
	defer fd.Close()

	resp, err := fd.HandleTurn(context.Background(), engine.TurnRequest{Message: "hello flight desk"})
	require.NoError(t, err)
	assert.Equal(t, agent.TriageName, resp.CurrentAgent)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "Welcome to the flight desk!", resp.Messages[0].Content)
}

func TestNew_MissingAPIKeyFailsFast(t *testing.T) {
	cfg := config.Default()
	cfg.Model.APIKey = ""

	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestHandler_ServesHealth(t *testing.T) {
	fd, err := New(nil, func(o *Options) {
		o.Generator = model.NewMockGenerator()
	})
	require.NoError(t, err)
	defer fd.Close()

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	fd.Handler().ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)
}
