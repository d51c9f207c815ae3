package core

import "context"

// Context keys for orchestration options
type contextKey string

const skipSnapshotKey contextKey = "skipSnapshot"

// WithoutSnapshots marks the context so computed scores are not recorded.
// Derived views such as the hero card and coach context use it.
func WithoutSnapshots(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipSnapshotKey, true)
}

// shouldSkipSnapshot returns whether snapshot recording is disabled in the context
func shouldSkipSnapshot(ctx context.Context) bool {
	val := ctx.Value(skipSnapshotKey)
	if val == nil {
		return false // default: record snapshots
	}
	skip, ok := val.(bool)
	return ok && skip
}
