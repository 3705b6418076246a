package persistence

import (
	"time"

	"github.com/MixinNetwork/amm.one/swap"
	"github.com/MixinNetwork/go-number"
)

type Pool struct {
	PoolId        string    `spanner:"pool_id"`
	BaseAssetId   string    `spanner:"base_asset_id"`
	QuoteAssetId  string    `spanner:"quote_asset_id"`
	Formula       string    `spanner:"formula"`
	ReserveA      string    `spanner:"reserve_a"`
	ReserveB      string    `spanner:"reserve_b"`
	Constant      string    `spanner:"constant"`
	WeightA       string    `spanner:"weight_a"`
	WeightB       string    `spanner:"weight_b"`
	PriceA        string    `spanner:"price_a"`
	PriceB        string    `spanner:"price_b"`
	MinPrice      string    `spanner:"min_price"`
	MaxPrice      string    `spanner:"max_price"`
	CurrentPrice  string    `spanner:"current_price"`
	IsActive      bool      `spanner:"is_active"`
	Amplification string    `spanner:"amplification"`
	Version       int64     `spanner:"version"`
	CreatedAt     time.Time `spanner:"created_at"`
	UpdatedAt     time.Time `spanner:"updated_at"`
}

func BuildPool(poolId, base, quote string, p swap.Pool) *Pool {
	now := time.Now()
	pool := &Pool{
		PoolId:       poolId,
		BaseAssetId:  base,
		QuoteAssetId: quote,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	pool.Apply(p)
	return pool
}

// Apply copies the reserves and invariant of p into the row, leaving
// identity and version untouched.
func (pool *Pool) Apply(p swap.Pool) {
	pool.Formula = string(p.Formula)
	pool.ReserveA = persistFloat(p.ReserveA)
	pool.ReserveB = persistFloat(p.ReserveB)
	pool.Constant, pool.WeightA, pool.WeightB = "0", "0", "0"
	pool.PriceA, pool.PriceB = "0", "0"
	pool.MinPrice, pool.MaxPrice, pool.CurrentPrice = "0", "0", "0"
	pool.Amplification = "0"
	pool.IsActive = true

	switch inv := p.Invariant.(type) {
	case swap.Product:
		pool.Constant = persistFloat(inv.K)
	case swap.Sum:
		pool.Constant = persistFloat(inv.Sum)
		pool.PriceA, pool.PriceB = persistFloat(inv.PriceA), persistFloat(inv.PriceB)
	case swap.Mean:
		pool.Constant = persistFloat(inv.Mean)
		pool.WeightA, pool.WeightB = persistFloat(inv.WeightA), persistFloat(inv.WeightB)
	case swap.Stable:
		pool.Amplification = persistFloat(inv.Amplification)
		pool.PriceA, pool.PriceB = persistFloat(inv.PriceA), persistFloat(inv.PriceB)
	case swap.Range:
		pool.Constant = persistFloat(inv.K)
		pool.MinPrice, pool.MaxPrice = persistFloat(inv.MinPrice), persistFloat(inv.MaxPrice)
		pool.CurrentPrice = persistFloat(inv.CurrentPrice)
		pool.IsActive = inv.Active
	}
}

func (pool *Pool) Swap() (swap.Pool, error) {
	p := swap.Pool{
		Formula:  swap.Kind(pool.Formula),
		ReserveA: loadFloat(pool.ReserveA),
		ReserveB: loadFloat(pool.ReserveB),
	}
	switch p.Formula {
	case swap.CPMM:
		p.Invariant = swap.Product{K: loadFloat(pool.Constant)}
	case swap.ConstantSum:
		p.Invariant = swap.Sum{
			Sum:    loadFloat(pool.Constant),
			PriceA: loadFloat(pool.PriceA),
			PriceB: loadFloat(pool.PriceB),
		}
	case swap.ConstantMean:
		p.Invariant = swap.Mean{
			WeightA: loadFloat(pool.WeightA),
			WeightB: loadFloat(pool.WeightB),
			Mean:    loadFloat(pool.Constant),
		}
	case swap.CurveStable:
		p.Invariant = swap.Stable{
			Amplification: loadFloat(pool.Amplification),
			PriceA:        loadFloat(pool.PriceA),
			PriceB:        loadFloat(pool.PriceB),
		}
	case swap.Concentrated:
		p.Invariant = swap.Range{
			K:            loadFloat(pool.Constant),
			MinPrice:     loadFloat(pool.MinPrice),
			MaxPrice:     loadFloat(pool.MaxPrice),
			CurrentPrice: loadFloat(pool.CurrentPrice),
			Active:       pool.IsActive,
		}
	default:
		return swap.Pool{}, swap.ErrUnsupportedFormula
	}
	return p, nil
}

func persistFloat(f float64) string {
	return number.FromFloat(f).Persist()
}

func loadFloat(s string) float64 {
	return number.FromString(s).Float64()
}
