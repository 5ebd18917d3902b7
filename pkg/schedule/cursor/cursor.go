package cursor

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	gferrors "github.com/vnykmshr/cronik/pkg/common/errors"
	"github.com/vnykmshr/cronik/pkg/common/validation"
	"github.com/vnykmshr/cronik/pkg/metrics"
	"github.com/vnykmshr/cronik/pkg/schedule/cron"
)

// Config holds cursor configuration.
type Config struct {
	Store    Store         // Checkpoint store (required)
	Key      string        // Checkpoint key (required)
	Schedule cron.Schedule // Schedule to iterate (required)
	From     time.Time     // Start when no checkpoint is stored
	Limit    int           // Elements to emit, negative for unbounded

	Metrics *metrics.Registry // Checkpoint metrics (default: none)
	Logger  *slog.Logger      // Debug logging (default: discarded)
}

// Cursor is a sequence of occurrences that checkpoints every emitted instant,
// so a restarted process continues where the previous one stopped.
type Cursor struct {
	cfg     Config
	store   string
	seq     *cron.Sequence
	resumed bool

	mu      sync.Mutex
	unsaved *time.Time // emitted by the sequence, not yet checkpointed
}

// Open loads the checkpoint for key and returns a cursor over s. With a
// stored instant the cursor continues strictly after it, otherwise it starts
// at s.Snap(from).
func Open(ctx context.Context, store Store, key string, s cron.Schedule, from time.Time, limit int) (*Cursor, error) {
	return OpenWithConfig(ctx, Config{
		Store:    store,
		Key:      key,
		Schedule: s,
		From:     from,
		Limit:    limit,
	})
}

// OpenWithConfig opens a cursor with custom configuration.
func OpenWithConfig(ctx context.Context, cfg Config) (*Cursor, error) {
	if cfg.Store == nil {
		return nil, validation.ValidateNotNil("cursor", "Store", nil)
	}
	if cfg.Schedule == nil {
		return nil, validation.ValidateNotNil("cursor", "Schedule", nil)
	}
	if err := validation.ValidateNotEmpty("cursor", "Key", cfg.Key); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Cursor{cfg: cfg, store: storeName(cfg.Store)}

	last, ok, err := cfg.Store.Load(ctx, cfg.Key)
	c.observe("load", err)
	if err != nil {
		return nil, gferrors.NewOperationError("cursor", "load", err).WithContext("key " + cfg.Key)
	}

	if ok {
		c.seq = cron.Resume(cfg.Schedule, last, cfg.Limit)
		c.resumed = true
		cfg.Logger.Debug("cursor resumed", "key", cfg.Key, "after", last)
	} else {
		c.seq = cron.After(cfg.Schedule, cfg.From, cfg.Limit)
		cfg.Logger.Debug("cursor started", "key", cfg.Key, "from", cfg.From)
	}
	return c, nil
}

// Next returns the next occurrence after checkpointing it. When the
// checkpoint fails the occurrence is kept and offered again by the next call.
func (c *Cursor) Next(ctx context.Context) (time.Time, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unsaved == nil {
		t, ok, err := c.seq.Next(ctx)
		if err != nil || !ok {
			return time.Time{}, ok, err
		}
		c.unsaved = &t
	}

	t := *c.unsaved
	err := c.cfg.Store.Save(ctx, c.cfg.Key, t)
	c.observe("save", err)
	if err != nil {
		return time.Time{}, false, gferrors.NewOperationError("cursor", "save", err).WithContext("key " + c.cfg.Key)
	}
	c.unsaved = nil

	c.cfg.Logger.Debug("checkpoint saved", "key", c.cfg.Key, "at", t)
	return t, true, nil
}

// Collect drains the cursor.
func (c *Cursor) Collect(ctx context.Context) ([]time.Time, error) {
	defer func() { _ = c.Close() }()

	var out []time.Time
	for {
		t, ok, err := c.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, t)
	}
}

// Resumed reports whether the cursor continued from a stored checkpoint.
func (c *Cursor) Resumed() bool { return c.resumed }

// Key returns the checkpoint key.
func (c *Cursor) Key() string { return c.cfg.Key }

// Close releases the cursor. The store is left open.
func (c *Cursor) Close() error {
	return c.seq.Close()
}

func (c *Cursor) observe(op string, err error) {
	c.cfg.Metrics.ObserveCheckpoint(c.store, op, metrics.Result(err, false))
}

func storeName(s Store) string {
	switch s.(type) {
	case *MemoryStore:
		return "memory"
	case *RedisStore:
		return "redis"
	}
	return "custom"
}
