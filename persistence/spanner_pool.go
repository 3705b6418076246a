package persistence

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
)

func (persist *Spanner) CreatePool(ctx context.Context, pool *Pool, action *PoolAction) error {
	_, err := persist.spanner.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		poolMutation, err := spanner.InsertStruct("pools", pool)
		if err != nil {
			return err
		}
		actionMutation, err := spanner.InsertStruct("pool_actions", action)
		if err != nil {
			return err
		}
		return txn.BufferWrite([]*spanner.Mutation{poolMutation, actionMutation})
	})
	return err
}

func (persist *Spanner) ReadPool(ctx context.Context, poolId string) (*Pool, error) {
	it := persist.spanner.Single().Query(ctx, spanner.Statement{
		SQL:    "SELECT * FROM pools WHERE pool_id=@pool_id",
		Params: map[string]interface{}{"pool_id": poolId},
	})
	defer it.Stop()

	row, err := it.Next()
	if err == iterator.Done {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var pool Pool
	err = row.ToStruct(&pool)
	return &pool, err
}

func (persist *Spanner) ListPools(ctx context.Context, limit int) ([]*Pool, error) {
	it := persist.spanner.Single().Query(ctx, spanner.Statement{
		SQL: fmt.Sprintf("SELECT * FROM pools ORDER BY created_at DESC LIMIT %d", limit),
	})
	defer it.Stop()

	pools := make([]*Pool, 0)
	for {
		row, err := it.Next()
		if err == iterator.Done {
			return pools, nil
		} else if err != nil {
			return pools, err
		}
		var p Pool
		err = row.ToStruct(&p)
		if err != nil {
			return pools, err
		}
		pools = append(pools, &p)
	}
}

// UpdatePool commits the row only if nobody else committed since it was
// read, and bumps its version.
func (persist *Spanner) UpdatePool(ctx context.Context, pool *Pool, action *PoolAction) error {
	next := *pool
	next.Version = pool.Version + 1
	next.UpdatedAt = time.Now()
	_, err := persist.spanner.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		row, err := txn.ReadRow(ctx, "pools", spanner.Key{pool.PoolId}, []string{"version"})
		if spanner.ErrCode(err) == codes.NotFound {
			return fmt.Errorf("pool %s not found", pool.PoolId)
		} else if err != nil {
			return err
		}
		var version int64
		err = row.Column(0, &version)
		if err != nil {
			return err
		}
		if version != pool.Version {
			return ErrStalePool
		}
		poolMutation, err := spanner.UpdateStruct("pools", &next)
		if err != nil {
			return err
		}
		actionMutation, err := spanner.InsertStruct("pool_actions", action)
		if err != nil {
			return err
		}
		return txn.BufferWrite([]*spanner.Mutation{poolMutation, actionMutation})
	})
	if err != nil {
		return err
	}
	pool.Version, pool.UpdatedAt = next.Version, next.UpdatedAt
	return nil
}

func (persist *Spanner) ListPoolActions(ctx context.Context, poolId string, offset time.Time, limit int) ([]*PoolAction, error) {
	txn := persist.spanner.Single()
	defer txn.Close()

	it := txn.Query(ctx, spanner.Statement{
		SQL:    fmt.Sprintf("SELECT * FROM pool_actions@{FORCE_INDEX=pool_actions_by_pool_created} WHERE pool_id=@pool_id AND created_at<@offset ORDER BY created_at DESC LIMIT %d", limit),
		Params: map[string]interface{}{"pool_id": poolId, "offset": offset.UTC()},
	})
	defer it.Stop()

	actions := make([]*PoolAction, 0)
	for {
		row, err := it.Next()
		if err == iterator.Done {
			return actions, nil
		} else if err != nil {
			return actions, err
		}
		var action PoolAction
		err = row.ToStruct(&action)
		if err != nil {
			return actions, err
		}
		actions = append(actions, &action)
	}
}
