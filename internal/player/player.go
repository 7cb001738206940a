// Package player implements a playlist-driven audio player controller. It
// models playback state only; decoding and output belong to the host.
package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/lazypower/widgetry/internal/kv"
	"github.com/lazypower/widgetry/internal/logging"
)

// KeySettings is the persistence key for volume, autoplay and last track.
const KeySettings = "player-settings"

// Track is one playlist entry.
type Track struct {
	Title  string `json:"title" yaml:"title"`
	Artist string `json:"artist" yaml:"artist"`
	Src    string `json:"src" yaml:"src"`
	Img    string `json:"img" yaml:"img"`
}

// DefaultPlaylist is the built-in playlist.
func DefaultPlaylist() []Track {
	songs := []string{
		"https://www.soundhelix.com/examples/mp3/SoundHelix-Song-1.mp3",
		"https://www.soundhelix.com/examples/mp3/SoundHelix-Song-2.mp3",
		"https://www.soundhelix.com/examples/mp3/SoundHelix-Song-3.mp3",
	}
	covers := []string{
		"https://images.unsplash.com/photo-1511671782779-c97d3d27a1d4?fit=crop&w=200&h=200",
		"https://images.unsplash.com/photo-1503023345310-bd7c1de61c7d?fit=crop&w=200&h=200",
	}
	tracks := make([]Track, 6)
	for i := range tracks {
		tracks[i] = Track{
			Title:  fmt.Sprintf("Song %d", i+1),
			Artist: fmt.Sprintf("Artist %d", i+1),
			Src:    songs[i%len(songs)],
			Img:    covers[(i%len(songs))%2],
		}
	}
	return tracks
}

// Settings are the persisted preferences.
type Settings struct {
	Volume   float64 `json:"volume"`
	Autoplay bool    `json:"autoplay"`
	Index    int     `json:"index"`
}

// Player tracks the playlist position and playback state.
// Not safe for concurrent use.
type Player struct {
	store    kv.Store
	log      *slog.Logger
	playlist []Track

	index    int
	playing  bool
	autoplay bool
	volume   float64
	position float64
	duration float64
}

type Option func(*Player)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(p *Player) {
		p.log = l
	}
}

// New creates a player over tracks. A nil slice uses DefaultPlaylist.
func New(store kv.Store, tracks []Track, opts ...Option) *Player {
	if tracks == nil {
		tracks = DefaultPlaylist()
	}
	p := &Player{
		store:    store,
		log:      logging.NewNop(),
		playlist: slices.Clone(tracks),
		autoplay: true,
		volume:   1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load restores persisted settings. Corrupt data keeps the defaults.
func (p *Player) Load(ctx context.Context) {
	raw, err := p.store.Get(ctx, KeySettings)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			p.log.Warn("read player settings failed", "error", err)
		}
		return
	}
	var s Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		p.log.Warn("ignoring unparsable player settings", "error", err)
		return
	}
	p.volume = clamp(s.Volume)
	p.autoplay = s.Autoplay
	if s.Index >= 0 && s.Index < len(p.playlist) {
		p.index = s.Index
	}
}

func (p *Player) save(ctx context.Context) {
	data, _ := json.Marshal(Settings{Volume: p.volume, Autoplay: p.autoplay, Index: p.index})
	if err := p.store.Set(ctx, KeySettings, string(data)); err != nil {
		p.log.Warn("write player settings failed", "error", err)
	}
}

// Playlist returns the tracks.
func (p *Player) Playlist() []Track {
	return slices.Clone(p.playlist)
}

// Current returns the loaded track.
func (p *Player) Current() (Track, bool) {
	if len(p.playlist) == 0 {
		return Track{}, false
	}
	return p.playlist[p.index], true
}

// Index returns the loaded track position.
func (p *Player) Index() int {
	return p.index
}

// Playing reports whether playback is running.
func (p *Player) Playing() bool {
	return p.playing
}

// Autoplay reports whether the next track starts when one ends.
func (p *Player) Autoplay() bool {
	return p.autoplay
}

// Volume returns the output volume in [0, 1].
func (p *Player) Volume() float64 {
	return p.volume
}

// Select loads track i. Playback state is kept. Out-of-range indexes are
// ignored.
func (p *Player) Select(ctx context.Context, i int) bool {
	if i < 0 || i >= len(p.playlist) {
		return false
	}
	p.load(i)
	p.save(ctx)
	return true
}

func (p *Player) load(i int) {
	p.index = i
	p.position = 0
	p.duration = 0
}

// TogglePlay starts or pauses playback and returns the new state.
func (p *Player) TogglePlay() bool {
	if len(p.playlist) == 0 {
		return false
	}
	p.playing = !p.playing
	return p.playing
}

// Next loads the following track, wrapping to the first.
func (p *Player) Next(ctx context.Context) {
	if len(p.playlist) == 0 {
		return
	}
	p.load((p.index + 1) % len(p.playlist))
	p.save(ctx)
}

// Prev loads the preceding track, wrapping to the last.
func (p *Player) Prev(ctx context.Context) {
	if len(p.playlist) == 0 {
		return
	}
	p.load((p.index - 1 + len(p.playlist)) % len(p.playlist))
	p.save(ctx)
}

// Ended handles the end of the current track: with autoplay the next track
// starts, otherwise playback stops.
func (p *Player) Ended(ctx context.Context) {
	if !p.autoplay {
		p.playing = false
		p.position = p.duration
		return
	}
	p.Next(ctx)
	p.playing = true
}

// ToggleAutoplay flips autoplay, persists it and returns the new state.
func (p *Player) ToggleAutoplay(ctx context.Context) bool {
	p.autoplay = !p.autoplay
	p.save(ctx)
	return p.autoplay
}

// SetVolume sets the volume, clamped to [0, 1].
func (p *Player) SetVolume(ctx context.Context, v float64) float64 {
	p.volume = clamp(v)
	p.save(ctx)
	return p.volume
}

// SetDuration records the loaded track length once metadata is known.
func (p *Player) SetDuration(seconds float64) {
	if !finite(seconds) || seconds < 0 {
		seconds = 0
	}
	p.duration = seconds
}

// Tick records the playback position reported by the host.
func (p *Player) Tick(position float64) {
	if !finite(position) || position < 0 {
		position = 0
	}
	p.position = position
}

// Position returns the playback position in seconds.
func (p *Player) Position() float64 {
	return p.position
}

// Duration returns the loaded track length in seconds, 0 if unknown.
func (p *Player) Duration() float64 {
	return p.duration
}

// Seek moves to percent (0-100) of the track. Ignored until the duration
// is known.
func (p *Player) Seek(percent float64) {
	if p.duration <= 0 {
		return
	}
	p.position = clamp(percent/100) * p.duration
}

// Progress returns the position as a percentage of the duration, within
// [0, 100].
func (p *Player) Progress() float64 {
	if p.duration <= 0 {
		return 0
	}
	return clamp(p.position/p.duration) * 100
}

// FormatTime renders seconds as m:ss. Non-finite or negative input is 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	whole := math.Floor(seconds)
	return fmt.Sprintf("%.0f:%02.0f", math.Floor(whole/60), math.Mod(whole, 60))
}

// View is a serialisable snapshot of the player.
type View struct {
	Index    int     `json:"index"`
	Track    *Track  `json:"track,omitempty"`
	Playing  bool    `json:"playing"`
	Autoplay bool    `json:"autoplay"`
	Volume   float64 `json:"volume"`
	Position string  `json:"position"`
	Duration string  `json:"duration"`
	Progress float64 `json:"progress"`
}

// View returns the current snapshot.
func (p *Player) View() View {
	v := View{
		Index:    p.index,
		Playing:  p.playing,
		Autoplay: p.autoplay,
		Volume:   p.volume,
		Position: FormatTime(p.position),
		Duration: FormatTime(p.duration),
		Progress: p.Progress(),
	}
	if t, ok := p.Current(); ok {
		v.Track = &t
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
