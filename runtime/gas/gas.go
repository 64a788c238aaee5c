// Package gas implements the execution allowance: a finite budget prepaid by
// the caller and consumed by an operation and the calls it schedules.
package gas

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Gas is a unit of execution allowance.
type Gas uint64

const (
	// Tera is 10^12 gas.
	Tera Gas = 1_000_000_000_000

	// BaseGas is the fixed cost of executing a method.
	BaseGas = 5 * Tera
	// PromiseCallGas is the fixed cost of dispatching one deferred call.
	PromiseCallGas = 5 * Tera
)

var (
	// ErrExceeded aborts the call chain when a meter is exhausted.
	ErrExceeded = errors.New("gas exceeded")
	// ErrInsufficient is returned when a reservation cannot be covered.
	ErrInsufficient = errors.New("insufficient gas")
)

func (g Gas) String() string {
	if g%Tera == 0 {
		return fmt.Sprintf("%dTgas", g/Tera)
	}
	return fmt.Sprintf("%dgas", uint64(g))
}

// Reserve subtracts reserved costs from available and returns the remainder.
func Reserve(available Gas, reserved ...Gas) (Gas, error) {
	var total Gas
	for _, r := range reserved {
		total += r
	}
	if total > available {
		return 0, fmt.Errorf("%w: available %v, reserved %v", ErrInsufficient, available, total)
	}
	return available - total, nil
}

// Meter tracks the allowance of a single call.
type Meter struct {
	mu      sync.Mutex
	prepaid Gas
	used    Gas
}

// NewMeter creates a meter with prepaid allowance.
func NewMeter(prepaid Gas) *Meter {
	return &Meter{prepaid: prepaid}
}

func (m *Meter) Prepaid() Gas { return m.prepaid }

func (m *Meter) Used() Gas {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.used
}

// Remaining returns the unspent allowance.
func (m *Meter) Remaining() Gas {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prepaid - m.used
}

// Burn consumes g; the meter is left unchanged when g exceeds the remainder.
func (m *Meter) Burn(g Gas) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g > m.prepaid-m.used {
		return fmt.Errorf("%w: burn %v, remaining %v", ErrExceeded, g, m.prepaid-m.used)
	}
	m.used += g
	return nil
}

// Refund returns g to the allowance, up to what was used.
func (m *Meter) Refund(g Gas) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g > m.used {
		g = m.used
	}
	m.used -= g
}

type contextKey string

const meterKey contextKey = "gas-meter"

// WithMeter attaches a meter to ctx.
func WithMeter(ctx context.Context, m *Meter) context.Context {
	return context.WithValue(ctx, meterKey, m)
}

// FromContext returns the meter attached to ctx or nil.
func FromContext(ctx context.Context) *Meter {
	m, _ := ctx.Value(meterKey).(*Meter)
	return m
}

// Remaining returns the remaining allowance of the ctx meter, zero without one.
func Remaining(ctx context.Context) Gas {
	if m := FromContext(ctx); m != nil {
		return m.Remaining()
	}
	return 0
}
