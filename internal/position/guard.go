package position

import (
	"context"
	"fmt"
	"strings"
)

// BusyPolicy decides what happens to a mutating call that arrives while
// another one is in flight.
type BusyPolicy int

const (
	// BusyReject drops the call and returns ErrBusy.
	BusyReject BusyPolicy = iota
	// BusyQueue waits for the in-flight call, honoring ctx.
	BusyQueue
)

// ParseBusyPolicy accepts "reject" and "queue".
func ParseBusyPolicy(s string) (BusyPolicy, error) {
	switch strings.ToLower(s) {
	case "", "reject":
		return BusyReject, nil
	case "queue":
		return BusyQueue, nil
	}
	return BusyReject, fmt.Errorf("position: unknown busy policy %q", s)
}

func (p BusyPolicy) String() string {
	if p == BusyQueue {
		return "queue"
	}
	return "reject"
}

// guard admits one mutating operation at a time.
type guard struct {
	slot   chan struct{}
	policy BusyPolicy
}

func newGuard(policy BusyPolicy) *guard {
	return &guard{slot: make(chan struct{}, 1), policy: policy}
}

func (g *guard) acquire(ctx context.Context) error {
	if g.policy == BusyQueue {
		select {
		case g.slot <- struct{}{}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	select {
	case g.slot <- struct{}{}:
		return nil
	default:
		return ErrBusy
	}
}

func (g *guard) release() {
	<-g.slot
}
