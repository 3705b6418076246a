package persistence

import (
	"context"
	"time"
)

const (
	CheckpointQuoteRefresh = "checkpoint-quote-refresh"
)

func ReadPropertyAsTime(ctx context.Context, persist Persist, key string) (time.Time, error) {
	var offset time.Time
	timestamp, err := persist.ReadProperty(ctx, key)
	if err != nil || timestamp == "" {
		return offset, err
	}
	return time.Parse(time.RFC3339Nano, timestamp)
}

func WriteTimeProperty(ctx context.Context, persist Persist, key string, value time.Time) error {
	return persist.WriteProperty(ctx, key, value.UTC().Format(time.RFC3339Nano))
}
