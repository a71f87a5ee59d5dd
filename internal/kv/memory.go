package kv

import (
	"fmt"
	"sync"
)

// Memory is an in-memory backend for tests. It keeps the same rollback
// guarantee as the durable backends: a failed Update leaves nothing behind.
type Memory struct {
	mu      sync.Mutex
	buckets map[string]map[string][]byte
}

func NewMemory() *Memory {
	m := &Memory{buckets: make(map[string]map[string][]byte, len(Buckets))}
	for _, name := range Buckets {
		m.buckets[name] = make(map[string][]byte)
	}
	return m
}

func (m *Memory) Update(fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{db: m, writes: make(map[string]map[string]*[]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

func (m *Memory) View(fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&memTx{db: m, readonly: true})
}

func (m *Memory) Close() error { return nil }

// memTx buffers writes until commit so an error mid-transaction discards
// them all. A nil pointer in writes marks a pending delete.
type memTx struct {
	db       *Memory
	readonly bool
	writes   map[string]map[string]*[]byte
}

func (t *memTx) bucket(name string) (map[string][]byte, error) {
	buc, ok := t.db.buckets[name]
	if !ok {
		return nil, fmt.Errorf("unknown bucket %s", name)
	}
	return buc, nil
}

func (t *memTx) Get(bucket string, key []byte) ([]byte, error) {
	buc, err := t.bucket(bucket)
	if err != nil {
		return nil, err
	}
	if pending, ok := t.writes[bucket][string(key)]; ok {
		if pending == nil {
			return nil, nil
		}
		return append([]byte(nil), (*pending)...), nil
	}
	raw, ok := buc[string(key)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), raw...), nil
}

func (t *memTx) Put(bucket string, key, value []byte) error {
	if t.readonly {
		return fmt.Errorf("put in read-only transaction")
	}
	if _, err := t.bucket(bucket); err != nil {
		return err
	}
	cp := append([]byte(nil), value...)
	t.stage(bucket, key, &cp)
	return nil
}

func (t *memTx) Delete(bucket string, key []byte) error {
	if t.readonly {
		return fmt.Errorf("delete in read-only transaction")
	}
	if _, err := t.bucket(bucket); err != nil {
		return err
	}
	t.stage(bucket, key, nil)
	return nil
}

func (t *memTx) Has(bucket string, key []byte) (bool, error) {
	raw, err := t.Get(bucket, key)
	if err != nil {
		return false, err
	}
	return raw != nil, nil
}

func (t *memTx) stage(bucket string, key []byte, value *[]byte) {
	if t.writes[bucket] == nil {
		t.writes[bucket] = make(map[string]*[]byte)
	}
	t.writes[bucket][string(key)] = value
}

func (t *memTx) commit() {
	for bucket, pending := range t.writes {
		for key, value := range pending {
			if value == nil {
				delete(t.db.buckets[bucket], key)
			} else {
				t.db.buckets[bucket][key] = *value
			}
		}
	}
}
