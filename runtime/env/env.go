// Package env carries the execution environment of a call in its context:
// who invoked it and which account is executing it.
package env

import (
	"context"

	"github.com/viant/nftstub/model/account"
)

type contextKey string

const (
	predecessorKey contextKey = "env-predecessor"
	currentKey     contextKey = "env-current"
)

// WithPredecessor sets the immediate caller identity.
func WithPredecessor(ctx context.Context, id account.ID) context.Context {
	return context.WithValue(ctx, predecessorKey, id)
}

// Predecessor returns the immediate caller identity, empty when unknown.
func Predecessor(ctx context.Context) account.ID {
	id, _ := ctx.Value(predecessorKey).(account.ID)
	return id
}

// WithCurrent sets the identity of the executing service.
func WithCurrent(ctx context.Context, id account.ID) context.Context {
	return context.WithValue(ctx, currentKey, id)
}

// Current returns the identity of the executing service.
func Current(ctx context.Context) account.ID {
	id, _ := ctx.Value(currentKey).(account.ID)
	return id
}
