package persistence

import (
	"time"

	"github.com/MixinNetwork/amm.one/swap"
)

const (
	PoolActionCreate = "POOL_CREATE"
	PoolActionAdd    = "POOL_ADD"
	PoolActionSwap   = "POOL_SWAP"
)

type PoolAction struct {
	ActionId    string    `spanner:"action_id"`
	PoolId      string    `spanner:"pool_id"`
	Action      string    `spanner:"action"`
	Direction   string    `spanner:"direction"`
	AmountA     string    `spanner:"amount_a"`
	AmountB     string    `spanner:"amount_b"`
	Output      string    `spanner:"output"`
	Impact      string    `spanner:"impact"`
	PartialFill bool      `spanner:"partial_fill"`
	CreatedAt   time.Time `spanner:"created_at"`
}

func BuildLiquidityAction(actionId, poolId, action string, amountA, amountB float64) *PoolAction {
	return &PoolAction{
		ActionId:  actionId,
		PoolId:    poolId,
		Action:    action,
		AmountA:   persistFloat(amountA),
		AmountB:   persistFloat(amountB),
		Output:    "0",
		Impact:    "0",
		CreatedAt: time.Now(),
	}
}

// BuildSwapAction records the amount actually taken from the trader, which
// is smaller than the requested input on a partial fill.
func BuildSwapAction(actionId, poolId string, dir swap.Direction, r *swap.Result) *PoolAction {
	a := &PoolAction{
		ActionId:    actionId,
		PoolId:      poolId,
		Action:      PoolActionSwap,
		Direction:   string(dir),
		AmountA:     "0",
		AmountB:     "0",
		Output:      persistFloat(r.Output),
		Impact:      persistFloat(r.Impact),
		PartialFill: r.PartialFill,
		CreatedAt:   time.Now(),
	}
	if dir == swap.AtoB {
		a.AmountA = persistFloat(r.Applied)
	} else {
		a.AmountB = persistFloat(r.Applied)
	}
	return a
}
