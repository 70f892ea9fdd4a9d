package repository

import (
	"encoding/json"
	"fmt"
)

// Store is the key/value persistence boundary. Values are JSON documents;
// SetBatch commits every entry in one write so paired records (a transaction
// and its owner's balance) are never observable half-applied.
type Store interface {
	Get(key string, out any) (bool, error)
	Set(key string, value any) error
	SetBatch(entries map[string]any) error
	List(prefix string, fn func(key string, value []byte) error) error
	Close() error
}

func encode(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return data, nil
}

func decode(key string, data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("corrupted record at %q: %w", key, err)
	}
	return nil
}
