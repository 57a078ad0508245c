package app

import (
	"context"
	"fmt"
)

// Pinger is the minimal interface for a store capable of Ping.
type Pinger interface{ Ping(ctx context.Context) error }

// BuildReadinessCheck returns the session-store readiness check.
func BuildReadinessCheck(store Pinger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if store == nil {
			return fmt.Errorf("store not configured")
		}
		return store.Ping(ctx)
	}
}
