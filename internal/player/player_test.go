package player_test

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/lazypower/widgetry/internal/kv"
	"github.com/lazypower/widgetry/internal/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPlaylist(t *testing.T) {
	tracks := player.DefaultPlaylist()
	require.Len(t, tracks, 6)
	assert.Equal(t, "Song 1", tracks[0].Title)
	assert.Equal(t, "Artist 6", tracks[5].Artist)
	assert.Equal(t, tracks[0].Src, tracks[3].Src)
}

func TestNextPrevWrap(t *testing.T) {
	ctx := context.Background()
	p := player.New(kv.NewMemory(), nil)

	p.Prev(ctx)
	assert.Equal(t, 5, p.Index())
	p.Next(ctx)
	assert.Equal(t, 0, p.Index())

	require.True(t, p.Select(ctx, 5))
	p.Next(ctx)
	assert.Equal(t, 0, p.Index())
}

func TestNavigationKeepsPlayState(t *testing.T) {
	ctx := context.Background()
	p := player.New(kv.NewMemory(), nil)

	assert.True(t, p.TogglePlay())
	p.Next(ctx)
	assert.True(t, p.Playing())

	assert.False(t, p.TogglePlay())
	p.Prev(ctx)
	assert.False(t, p.Playing())
}

func TestSelectResetsTimes(t *testing.T) {
	ctx := context.Background()
	p := player.New(kv.NewMemory(), nil)
	p.SetDuration(200)
	p.Tick(50)

	require.True(t, p.Select(ctx, 2))
	assert.Zero(t, p.Position())
	assert.Zero(t, p.Duration())
	assert.False(t, p.Select(ctx, 6))
	assert.False(t, p.Select(ctx, -1))
	assert.Equal(t, 2, p.Index())
}

func TestEndedWithAutoplayAdvances(t *testing.T) {
	ctx := context.Background()
	p := player.New(kv.NewMemory(), nil)
	require.True(t, p.Autoplay())

	p.Select(ctx, 5)
	p.Ended(ctx)
	assert.Equal(t, 0, p.Index())
	assert.True(t, p.Playing())
}

func TestEndedWithoutAutoplayStops(t *testing.T) {
	ctx := context.Background()
	p := player.New(kv.NewMemory(), nil)
	p.TogglePlay()
	assert.False(t, p.ToggleAutoplay(ctx))

	p.SetDuration(120)
	p.Ended(ctx)
	assert.Equal(t, 0, p.Index())
	assert.False(t, p.Playing())
	assert.Equal(t, 100.0, p.Progress())
}

func TestSeekAndProgress(t *testing.T) {
	p := player.New(kv.NewMemory(), nil)

	p.Seek(50)
	assert.Zero(t, p.Position(), "seek ignored before duration is known")
	assert.Zero(t, p.Progress())

	p.SetDuration(240)
	p.Seek(25)
	assert.Equal(t, 60.0, p.Position())
	assert.Equal(t, 25.0, p.Progress())

	p.Seek(150)
	assert.Equal(t, 240.0, p.Position())
}

func TestExtremeTimesStayEncodable(t *testing.T) {
	p := player.New(kv.NewMemory(), nil)
	p.SetDuration(1e-300)
	p.Tick(1e308)
	assert.Equal(t, 100.0, p.Progress())

	_, err := json.Marshal(p.View())
	require.NoError(t, err)

	p.SetDuration(math.Inf(1))
	p.Tick(math.Inf(1))
	assert.Zero(t, p.Duration())
	assert.Zero(t, p.Position())
	assert.Zero(t, p.Progress())
}

func TestVolumeClamped(t *testing.T) {
	ctx := context.Background()
	p := player.New(kv.NewMemory(), nil)
	assert.Equal(t, 1.0, p.Volume())
	assert.Equal(t, 0.0, p.SetVolume(ctx, -3))
	assert.Equal(t, 1.0, p.SetVolume(ctx, 7))
	assert.Equal(t, 0.4, p.SetVolume(ctx, 0.4))
	assert.Equal(t, 0.0, p.SetVolume(ctx, math.NaN()))
}

func TestSettingsPersist(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	p := player.New(store, nil)
	p.SetVolume(ctx, 0.25)
	p.ToggleAutoplay(ctx)
	p.Select(ctx, 3)

	reloaded := player.New(store, nil)
	reloaded.Load(ctx)
	assert.Equal(t, 0.25, reloaded.Volume())
	assert.False(t, reloaded.Autoplay())
	assert.Equal(t, 3, reloaded.Index())
	assert.False(t, reloaded.Playing(), "playback never resumes on load")
}

func TestSettingsCorruptKeepsDefaults(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, player.KeySettings, "nope"))

	p := player.New(store, nil)
	p.Load(ctx)
	assert.Equal(t, 1.0, p.Volume())
	assert.True(t, p.Autoplay())
}

func TestSettingsIndexOutOfRangeIgnored(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, player.KeySettings, `{"volume":0.5,"autoplay":true,"index":42}`))

	p := player.New(store, nil)
	p.Load(ctx)
	assert.Equal(t, 0, p.Index())
	assert.Equal(t, 0.5, p.Volume())
}

func TestEmptyPlaylist(t *testing.T) {
	ctx := context.Background()
	p := player.New(kv.NewMemory(), []player.Track{})

	assert.NotPanics(t, func() {
		p.Next(ctx)
		p.Prev(ctx)
		p.Ended(ctx)
	})
	assert.False(t, p.TogglePlay())
	_, ok := p.Current()
	assert.False(t, ok)
	assert.Nil(t, p.View().Track)
}

func TestFormatTime(t *testing.T) {
	tests := map[float64]string{
		0:           "0:00",
		9.99:        "0:09",
		61:          "1:01",
		600:         "10:00",
		3725.4:      "62:05",
		-5:          "0:00",
		math.NaN():  "0:00",
		math.Inf(1): "0:00",
	}
	for in, want := range tests {
		assert.Equal(t, want, player.FormatTime(in), "FormatTime(%v)", in)
	}

	huge := player.FormatTime(1e19)
	assert.True(t, strings.HasSuffix(huge, ":40"), "FormatTime(1e19) = %q", huge)
	assert.NotContains(t, huge, "-")
}

func TestView(t *testing.T) {
	p := player.New(kv.NewMemory(), nil)
	p.SetDuration(185)
	p.Tick(65)

	v := p.View()
	require.NotNil(t, v.Track)
	assert.Equal(t, "Song 1", v.Track.Title)
	assert.Equal(t, "1:05", v.Position)
	assert.Equal(t, "3:05", v.Duration)
	assert.True(t, v.Autoplay)
}
