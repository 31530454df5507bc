package store

import (
	"encoding/json"
	"fmt"
)

// Record is anything stored in a collection. Records are matched by ID.
type Record interface {
	RecordID() string
}

// Collection is the ordered set of records of one kind. Every Save rewrites
// the whole collection inside a single transaction.
type Collection[T Record] struct {
	s  *Store
	ns string
}

// Namespace returns the key the collection is stored under.
func (c *Collection[T]) Namespace() string {
	return c.ns
}

// GetAll returns every record in insertion order. A namespace that was never
// written yields an empty slice, not an error. A payload that does not decode
// yields an error wrapping ErrCorrupt.
func (c *Collection[T]) GetAll() ([]T, error) {
	payload, ok, err := readPayload(c.s.db, c.ns)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []T{}, nil
	}
	return decode[T](c.ns, payload)
}

// Save replaces the record with the same ID in place, or appends it.
func (c *Collection[T]) Save(rec T) error {
	tx, err := c.s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	records := []T{}
	payload, ok, err := readPayload(tx, c.ns)
	if err != nil {
		return err
	}
	if ok {
		if records, err = decode[T](c.ns, payload); err != nil {
			return err
		}
	}

	records = upsert(records, rec)

	out, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", c.ns, err)
	}
	if err := writePayload(tx, c.ns, out); err != nil {
		return err
	}
	return tx.Commit()
}

// Find returns the record with the given ID.
func (c *Collection[T]) Find(id string) (T, bool, error) {
	var zero T
	records, err := c.GetAll()
	if err != nil {
		return zero, false, err
	}
	for _, r := range records {
		if r.RecordID() == id {
			return r, true, nil
		}
	}
	return zero, false, nil
}

// Count returns the number of records in the collection.
func (c *Collection[T]) Count() (int, error) {
	records, err := c.GetAll()
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func upsert[T Record](records []T, rec T) []T {
	for i := range records {
		if records[i].RecordID() == rec.RecordID() {
			records[i] = rec
			return records
		}
	}
	return append(records, rec)
}

func decode[T Record](ns string, payload []byte) ([]T, error) {
	records := []T{}
	if len(payload) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrCorrupt, ns, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}
