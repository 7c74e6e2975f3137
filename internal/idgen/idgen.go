// Package idgen provides the identifier sources entities are created with.
package idgen

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Source returns a new unique identifier on every call.
type Source func() string

const (
	StrategyUUID = "uuid"
	StrategyULID = "ulid"
)

// UUID returns random version 4 UUIDs.
func UUID() Source {
	return uuid.NewString
}

// ULID returns lexicographically sortable ULIDs. Ids minted within the same
// millisecond still sort in creation order.
func ULID() Source {
	var mu sync.Mutex
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		return ulid.MustNew(ulid.Now(), entropy).String()
	}
}

// FromName resolves a strategy name.
func FromName(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyUUID:
		return UUID(), nil
	case StrategyULID:
		return ULID(), nil
	}
	return nil, fmt.Errorf("unknown id strategy %q", name)
}

// WithPrefix prepends prefix to every id of src.
func WithPrefix(prefix string, src Source) Source {
	return func() string { return prefix + src() }
}

// Sequence returns prefix-1, prefix-2, ... Useful where ids must be
// predictable.
func Sequence(prefix string) Source {
	var n atomic.Int64
	return func() string { return fmt.Sprintf("%s-%d", prefix, n.Add(1)) }
}
