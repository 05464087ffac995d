package position

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// KeyGenerator produces fresh keys for list identity and bead IDs.
type KeyGenerator interface {
	NewKey() string
}

// UUIDKeys generates random UUIDs.
type UUIDKeys struct{}

func (UUIDKeys) NewKey() string { return uuid.NewString() }

// CounterKeys generates prefix1, prefix2, ... and is safe for concurrent use.
type CounterKeys struct {
	Prefix string
	n      atomic.Int64
}

func (c *CounterKeys) NewKey() string {
	return fmt.Sprintf("%s%d", c.Prefix, c.n.Add(1))
}
