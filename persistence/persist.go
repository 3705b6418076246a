package persistence

import (
	"context"
	"errors"
	"time"
)

var ErrStalePool = errors.New("pool modified by another writer")

// Persist stores pools together with the log of actions applied to them.
// ReadPool returns nil without error for unknown pools.
type Persist interface {
	CreatePool(ctx context.Context, pool *Pool, action *PoolAction) error
	ReadPool(ctx context.Context, poolId string) (*Pool, error)
	ListPools(ctx context.Context, limit int) ([]*Pool, error)
	UpdatePool(ctx context.Context, pool *Pool, action *PoolAction) error
	ListPoolActions(ctx context.Context, poolId string, offset time.Time, limit int) ([]*PoolAction, error)

	ReadProperty(ctx context.Context, key string) (string, error)
	WriteProperty(ctx context.Context, key, value string) error
}
