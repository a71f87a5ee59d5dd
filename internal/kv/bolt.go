package kv

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Bolt is the default embedded backend. bbolt gives exactly the transaction
// model the engine needs: one writer at a time, full rollback on error.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the database file and pre-creates all buckets.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db at %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range Buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Update(fn func(Tx) error) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx})
	})
}

func (b *Bolt) View(fn func(Tx) error) error {
	return b.db.View(func(tx *bolt.Tx) error {
		return fn(&boltTx{tx})
	})
}

func (b *Bolt) Close() error {
	return b.db.Close()
}

type boltTx struct {
	tx *bolt.Tx
}

func (t *boltTx) bucket(name string) (*bolt.Bucket, error) {
	buc := t.tx.Bucket([]byte(name))
	if buc == nil {
		return nil, fmt.Errorf("unknown bucket %s", name)
	}
	return buc, nil
}

func (t *boltTx) Get(bucket string, key []byte) ([]byte, error) {
	buc, err := t.bucket(bucket)
	if err != nil {
		return nil, err
	}
	raw := buc.Get(key)
	if raw == nil {
		return nil, nil
	}
	// bbolt values are only valid for the life of the transaction
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (t *boltTx) Put(bucket string, key, value []byte) error {
	buc, err := t.bucket(bucket)
	if err != nil {
		return err
	}
	return buc.Put(key, value)
}

func (t *boltTx) Delete(bucket string, key []byte) error {
	buc, err := t.bucket(bucket)
	if err != nil {
		return err
	}
	return buc.Delete(key)
}

func (t *boltTx) Has(bucket string, key []byte) (bool, error) {
	buc, err := t.bucket(bucket)
	if err != nil {
		return false, err
	}
	return buc.Get(key) != nil, nil
}
