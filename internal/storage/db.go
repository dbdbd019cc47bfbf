// Package storage provides the key/value stores behind the run journal.
package storage

import "errors"

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("key not found")

// DB is an ordered key/value store.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach visits keys with the given prefix in ascending order.
	// fn receives copies; a non-nil error from fn stops iteration and is returned.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

// Batch groups writes that become visible together on Commit.
type Batch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error
}

// Batcher is implemented by stores that support atomic batches.
type Batcher interface {
	NewBatch() Batch
}

// NewBatch returns an atomic batch when db supports one, otherwise a
// batch that applies its writes one by one on Commit.
func NewBatch(db DB) Batch {
	if b, ok := db.(Batcher); ok {
		return b.NewBatch()
	}
	return &sequentialBatch{db: db}
}

type batchOp struct {
	key    []byte
	value  []byte
	delete bool
}

type sequentialBatch struct {
	db  DB
	ops []batchOp
}

func (s *sequentialBatch) Put(key, value []byte) error {
	s.ops = append(s.ops, batchOp{key: clone(key), value: clone(value)})
	return nil
}

func (s *sequentialBatch) Delete(key []byte) error {
	s.ops = append(s.ops, batchOp{key: clone(key), delete: true})
	return nil
}

func (s *sequentialBatch) Commit() error {
	for _, op := range s.ops {
		var err error
		if op.delete {
			err = s.db.Delete(op.key)
		} else {
			err = s.db.Put(op.key, op.value)
		}
		if err != nil {
			return err
		}
	}
	s.ops = nil
	return nil
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
