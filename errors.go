package lazycache

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrKeyNotFound is matched by every *KeyNotFoundError.
	ErrKeyNotFound = errors.New("key not found")

	// ErrNotConfigured is returned by GetKey when the cache has no key
	// extractor.
	ErrNotConfigured = errors.New("key extractor not configured")
)

// KeyNotFoundError is returned by Get when a key is absent and no miss
// handler is configured.
type KeyNotFoundError[K comparable] struct {
	Key K
}

func (e *KeyNotFoundError[K]) Error() string {
	return fmt.Sprintf("Key '%v' could not be found", e.Key)
}

// Is makes errors.Is(err, ErrKeyNotFound) true.
func (e *KeyNotFoundError[K]) Is(target error) bool {
	return target == ErrKeyNotFound
}
