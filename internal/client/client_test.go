package client_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/lazypower/widgetry/internal/calc"
	"github.com/lazypower/widgetry/internal/client"
	"github.com/lazypower/widgetry/internal/kv"
	"github.com/lazypower/widgetry/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *client.Client {
	t.Helper()
	ts := httptest.NewServer(server.New(kv.NewMemory(), "test"))
	t.Cleanup(ts.Close)
	return client.NewWithHTTP(ts.URL, ts.Client())
}

func TestHealthy(t *testing.T) {
	c := newClient(t)
	assert.True(t, c.Healthy(context.Background()))

	down := client.New("http://127.0.0.1:1")
	assert.False(t, down.Healthy(context.Background()))
}

func TestNewFallsBackToEnv(t *testing.T) {
	t.Setenv("WIDGETRY_URL", "http://example.test:9/")
	assert.Equal(t, "http://example.test:9", client.New("").URL())

	t.Setenv("WIDGETRY_URL", "")
	assert.Equal(t, client.DefaultServerURL, client.New("").URL())
}

func TestPressAndClear(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	s, err := c.Press(ctx, server.DefaultSession, []calc.Token{"2", "*", "2", "1", "="})
	require.NoError(t, err)
	assert.Equal(t, "42", s.Display)
	assert.Equal(t, []string{"2 * 21 = 42"}, s.History)

	s, err = c.ClearHistory(ctx, server.DefaultSession)
	require.NoError(t, err)
	assert.Empty(t, s.History)
	assert.Equal(t, "42", s.Display)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	s, err := c.NewSession(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)

	_, err = c.Press(ctx, s.ID, []calc.Token{"7", "/", "0", "="})
	require.NoError(t, err)
	got, err := c.Calc(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, calc.ErrorDisplay, got.Display)
}

func TestStatusError(t *testing.T) {
	c := newClient(t)

	_, err := c.Calc(context.Background(), "nope")
	var se *client.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 404, se.Code)
	assert.Equal(t, "unknown session nope", se.Message)
}

func TestGalleryAndPlayer(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	fav, err := c.ToggleFavorite(ctx, "img/natr.jpg")
	require.NoError(t, err)
	assert.True(t, fav)

	v, err := c.Gallery(ctx)
	require.NoError(t, err)
	require.Len(t, v.Images, 6)
	assert.True(t, v.Images[0].Favorite)

	p, err := c.PlayerAction(ctx, "select", map[string]int{"index": 2})
	require.NoError(t, err)
	assert.Equal(t, 2, p.Index)

	p, err = c.Player(ctx)
	require.NoError(t, err)
	require.NotNil(t, p.Track)
	assert.Equal(t, "Song 3", p.Track.Title)
}
