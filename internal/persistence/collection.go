package persistence

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
)

var ErrCorrupt = errors.New("stored collection is corrupt")

// Collection stores a list of records of type T under a single key.
type Collection[T any] struct {
	kv  KV
	key string
}

func NewCollection[T any](kv KV, key string) *Collection[T] {
	return &Collection[T]{kv: kv, key: key}
}

func (c *Collection[T]) Key() string { return c.key }

// Load returns the stored records. A missing key yields ErrKeyNotFound and
// undecodable data yields ErrCorrupt; callers choose their own fallback.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.kv.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, err
		}
		return nil, errors.Wrapf(err, "load %s", c.key)
	}

	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "decode %s: %v", c.key, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// Save replaces the stored collection with records.
func (c *Collection[T]) Save(ctx context.Context, records []T) error {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return errors.Wrapf(err, "encode %s", c.key)
	}
	if err := c.kv.Put(ctx, c.key, string(raw)); err != nil {
		return errors.Wrapf(err, "save %s", c.key)
	}
	return nil
}
