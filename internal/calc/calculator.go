package calc

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/lazypower/widgetry/internal/kv"
	"github.com/lazypower/widgetry/internal/logging"
)

// Persistence keys.
const (
	KeyMemory  = "calc-memory"
	KeyHistory = "calc-history"
	KeyCompact = "calc-compact"
)

// Observer is notified after every pressed token. Used for metrics.
type Observer func(t Token, r Result)

// Calculator owns the engine state and mirrors memory, history and layout
// preference to a kv.Store. Persistence is best effort: failures are logged
// and the in-memory state stays authoritative. Not safe for concurrent use.
type Calculator struct {
	store    kv.Store
	log      *slog.Logger
	state    State
	history  *History
	compact  bool
	observer Observer
}

type Option func(*Calculator)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) {
		c.log = l
	}
}

// WithHistoryCap overrides the number of retained history entries.
func WithHistoryCap(n int) Option {
	return func(c *Calculator) {
		c.history = NewHistory(n)
	}
}

// WithObserver registers fn to be called after each token.
func WithObserver(fn Observer) Option {
	return func(c *Calculator) {
		c.observer = fn
	}
}

// New creates a calculator backed by store. Call Load to rehydrate
// persisted memory and history.
func New(store kv.Store, opts ...Option) *Calculator {
	c := &Calculator{
		store:   store,
		log:     logging.NewNop(),
		state:   NewState(Memory{}),
		history: NewHistory(DefaultHistoryCap),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load restores memory, history and the compact preference. Absent or
// unparsable values fall back to defaults.
func (c *Calculator) Load(ctx context.Context) {
	c.state.Memory = Memory{}
	if raw, ok := c.get(ctx, KeyMemory); ok {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			c.state.Memory = Memory{Value: v, Set: true}
		} else {
			c.log.Warn("ignoring unparsable memory", "key", KeyMemory, "value", raw)
		}
	}

	c.history.Clear()
	if raw, ok := c.get(ctx, KeyHistory); ok {
		if !c.history.Decode(raw) {
			c.log.Warn("resetting unparsable history", "key", KeyHistory)
		}
	}

	if raw, ok := c.get(ctx, KeyCompact); ok {
		c.compact = raw == "1"
	}
}

// Press applies one token and persists whatever it changed.
func (c *Calculator) Press(ctx context.Context, t Token) Result {
	r := Apply(c.state, t)
	c.state = r.State

	if r.MemoryChanged {
		c.saveMemory(ctx)
	}
	if r.History != "" {
		c.history.Add(r.History)
		c.set(ctx, KeyHistory, c.history.Encode())
	}
	if c.observer != nil {
		c.observer(t, r)
	}
	return r
}

// PressAll applies tokens in order and returns the last result.
func (c *Calculator) PressAll(ctx context.Context, tokens []Token) Result {
	r := Result{State: c.state, Display: c.state.Display}
	for _, t := range tokens {
		r = c.Press(ctx, t)
	}
	return r
}

// PressKey maps a key event and applies it. Unmapped keys return false.
func (c *Calculator) PressKey(ctx context.Context, e KeyEvent) (Result, bool) {
	t, ok := MapKey(e)
	if !ok {
		return Result{State: c.state, Display: c.state.Display}, false
	}
	return c.Press(ctx, t), true
}

// ClearHistory empties the log and removes the persisted copy.
func (c *Calculator) ClearHistory(ctx context.Context) {
	c.history.Clear()
	if err := c.store.Delete(ctx, KeyHistory); err != nil {
		c.log.Warn("delete history failed", "error", err)
	}
}

// Compact reports the persisted compact-layout preference.
func (c *Calculator) Compact() bool {
	return c.compact
}

// SetCompact records the compact-layout preference.
func (c *Calculator) SetCompact(ctx context.Context, on bool) {
	c.compact = on
	v := "0"
	if on {
		v = "1"
	}
	c.set(ctx, KeyCompact, v)
}

// State returns the current engine state.
func (c *Calculator) State() State {
	return c.state
}

// History returns the retained entries, most recent first.
func (c *Calculator) History() []string {
	return c.history.Entries()
}

// Snapshot is a serialisable view of the calculator.
type Snapshot struct {
	Display   string   `json:"display"`
	Pending   string   `json:"pending,omitempty"`
	Memory    float64  `json:"memory"`
	MemorySet bool     `json:"memory_set"`
	History   []string `json:"history"`
	Compact   bool     `json:"compact"`
}

// Snapshot returns the current view.
func (c *Calculator) Snapshot() Snapshot {
	return Snapshot{
		Display:   c.state.Display,
		Pending:   c.state.Pending(),
		Memory:    c.state.Memory.Value,
		MemorySet: c.state.Memory.Set,
		History:   c.history.Entries(),
		Compact:   c.compact,
	}
}

func (c *Calculator) saveMemory(ctx context.Context) {
	if !c.state.Memory.Set {
		if err := c.store.Delete(ctx, KeyMemory); err != nil {
			c.log.Warn("delete memory failed", "error", err)
		}
		return
	}
	c.set(ctx, KeyMemory, strconv.FormatFloat(c.state.Memory.Value, 'g', -1, 64))
}

func (c *Calculator) get(ctx context.Context, key string) (string, bool) {
	v, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			c.log.Warn("read failed", "key", key, "error", err)
		}
		return "", false
	}
	return v, true
}

func (c *Calculator) set(ctx context.Context, key, value string) {
	if err := c.store.Set(ctx, key, value); err != nil {
		c.log.Warn("write failed", "key", key, "error", err)
	}
}
