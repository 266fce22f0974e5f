package common

import (
	"context"

	"github.com/google/uuid"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRunID contextKey = "run_id"
	ContextKeyShard contextKey = "shard"
)

// WithRunID adds a parse run ID to the context
func WithRunID(ctx context.Context, runID uuid.UUID) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// RunIDFromContext extracts the parse run ID from context
func RunIDFromContext(ctx context.Context) uuid.UUID {
	if runID, ok := ctx.Value(ContextKeyRunID).(uuid.UUID); ok {
		return runID
	}
	return uuid.Nil
}

// WithShard adds the shard index to the context
func WithShard(ctx context.Context, shard int) context.Context {
	return context.WithValue(ctx, ContextKeyShard, shard)
}

// ShardFromContext extracts the shard index from context, -1 when unset
func ShardFromContext(ctx context.Context) int {
	if shard, ok := ctx.Value(ContextKeyShard).(int); ok {
		return shard
	}
	return -1
}
