package kv

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// U64 encodes an id big-endian so keys sort in numeric order.
func U64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

// U32 encodes a chunk index.
func U32(v uint32) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return buf
}

// Key concatenates fixed-width id segments and an optional trailing
// variable-width segment (principal ids) into one composite key.
func Key(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	key := make([]byte, 0, n)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

// PutJSON stores v JSON-encoded.
func PutJSON(tx Tx, bucket string, key []byte, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s value: %w", bucket, err)
	}
	return tx.Put(bucket, key, raw)
}

// GetJSON loads a JSON value into out. The second return is false when the
// key is absent, leaving out untouched.
func GetJSON(tx Tx, bucket string, key []byte, out any) (bool, error) {
	raw, err := tx.Get(bucket, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("failed to decode %s value: %w", bucket, err)
	}
	return true, nil
}

// GetU64 reads a counter, returning fallback when absent.
func GetU64(tx Tx, bucket string, key []byte, fallback uint64) (uint64, error) {
	raw, err := tx.Get(bucket, key)
	if err != nil {
		return 0, err
	}
	if len(raw) != 8 {
		return fallback, nil
	}
	return binary.BigEndian.Uint64(raw), nil
}

// PutU64 writes a counter.
func PutU64(tx Tx, bucket string, key []byte, v uint64) error {
	return tx.Put(bucket, key, U64(v))
}
