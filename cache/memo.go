package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mitchellh/hashstructure/v2"

	"raggedbench/backend"
)

// ErrCacheCorrupt is returned when a stored entry cannot be decoded. The
// entry is left in place; clear the cache to recover.
var ErrCacheCorrupt = errors.New("cache entry corrupt")

const keyPrefix = "memo/"

// call identifies one memoized invocation.
type call struct {
	Function string
	Args     []string
	Trials   int
	Rows     int
	Seed     uint64
}

// Key returns the store key for running a with p.
func Key(a backend.Adapter, p backend.Params) ([]byte, error) {
	c := call{
		Function: a.Name(),
		Args:     a.Args(),
		Trials:   p.Trials,
		Rows:     p.Rows,
		Seed:     p.Seed,
	}
	h, err := hashstructure.Hash(c, hashstructure.FormatV2, nil)
	if err != nil {
		return nil, fmt.Errorf("hash call %s: %w", c.Function, err)
	}
	return []byte(fmt.Sprintf("%s%s/%016x", keyPrefix, c.Function, h)), nil
}

// Memo runs adapters through the store.
type Memo struct {
	store *Store
}

// NewMemo returns a memoizing runner over store.
func NewMemo(store *Store) *Memo {
	return &Memo{store: store}
}

// Run returns the stored outcome for (a, p) if present; otherwise it runs a,
// stores the outcome and returns it. hit reports whether a was skipped.
func (m *Memo) Run(ctx context.Context, a backend.Adapter, p backend.Params) (out backend.Outcome, hit bool, err error) {
	key, err := Key(a, p)
	if err != nil {
		return backend.Outcome{}, false, err
	}

	raw, ok, err := m.store.Get(key)
	if err != nil {
		return backend.Outcome{}, false, err
	}
	if ok {
		if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&out); err != nil {
			return backend.Outcome{}, false, fmt.Errorf("%w: %s: %v", ErrCacheCorrupt, key, err)
		}
		slog.Debug("cache hit", "key", string(key))
		return out, true, nil
	}

	slog.Debug("cache miss", "key", string(key))
	out, err = a.Run(ctx, p)
	if err != nil {
		return backend.Outcome{}, false, err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(out); err != nil {
		return backend.Outcome{}, false, fmt.Errorf("encode outcome for %s: %w", key, err)
	}
	if err := m.store.Put(key, buf.Bytes()); err != nil {
		return backend.Outcome{}, false, err
	}
	return out, false, nil
}
