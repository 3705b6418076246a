package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/MixinNetwork/amm.one/swap"
	"github.com/stretchr/testify/assert"
)

func TestMemoryPersist(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	store := CreateMemory()

	p, _ := swap.Initialize(swap.CPMM, 10, 2000, swap.Prices{}, swap.Config{})
	row := BuildPool("pool", "ethereum", "cardano", p)
	err := store.CreatePool(ctx, row, BuildLiquidityAction("a1", "pool", PoolActionCreate, 10, 2000))
	assert.Nil(err)
	err = store.CreatePool(ctx, row, BuildLiquidityAction("a2", "pool", PoolActionCreate, 10, 2000))
	assert.NotNil(err)

	missing, err := store.ReadPool(ctx, "missing")
	assert.Nil(err)
	assert.Nil(missing)

	first, err := store.ReadPool(ctx, "pool")
	assert.Nil(err)
	second, _ := store.ReadPool(ctx, "pool")

	next, _ := swap.Execute(swap.CPMM, 1, swap.AtoB, p, swap.Prices{})
	first.Apply(next)
	r, _ := swap.Quote(swap.CPMM, 1, swap.AtoB, p, swap.Prices{})
	err = store.UpdatePool(ctx, first, BuildSwapAction("a3", "pool", swap.AtoB, r))
	assert.Nil(err)
	assert.Equal(int64(1), first.Version)

	second.Apply(next)
	err = store.UpdatePool(ctx, second, BuildSwapAction("a4", "pool", swap.AtoB, r))
	assert.Equal(ErrStalePool, err)

	stored, _ := store.ReadPool(ctx, "pool")
	assert.Equal(int64(1), stored.Version)
	assert.Equal("11", stored.ReserveA)

	actions, err := store.ListPoolActions(ctx, "pool", time.Now().Add(time.Second), 10)
	assert.Nil(err)
	assert.Len(actions, 2)
	assert.Equal("a3", actions[0].ActionId)
	assert.Equal("a1", actions[1].ActionId)
	actions, _ = store.ListPoolActions(ctx, "pool", time.Now().Add(time.Second), 1)
	assert.Len(actions, 1)

	pools, err := store.ListPools(ctx, 10)
	assert.Nil(err)
	assert.Len(pools, 1)

	checkpoint, err := ReadPropertyAsTime(ctx, store, CheckpointQuoteRefresh)
	assert.Nil(err)
	assert.True(checkpoint.IsZero())
	now := time.Now()
	assert.Nil(WriteTimeProperty(ctx, store, CheckpointQuoteRefresh, now))
	checkpoint, err = ReadPropertyAsTime(ctx, store, CheckpointQuoteRefresh)
	assert.Nil(err)
	assert.True(now.Equal(checkpoint))
}
