// Package storage provides the durable per-profile key-value store backing
// identity-scoped client state. Each component writes only inside its own
// namespace, so concurrent writers never touch the same key space.
package storage

import "errors"

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("storage: key not found")

type KV interface {
	Get(namespace, key string) ([]byte, error)
	Set(namespace, key string, value []byte) error
	Delete(namespace, key string) error
}
