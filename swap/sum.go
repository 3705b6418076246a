package swap

import "math"

const insufficientLiquidity = "Insufficient liquidity"

// ConstantSumFormula trades at the fixed rate of the prices observed when
// the pool was created, until the output side runs dry.
type ConstantSumFormula struct{}

func (csf *ConstantSumFormula) Init(amountA, amountB float64, prices Prices, cfg Config) (Invariant, error) {
	if !positive(prices.A) || !positive(prices.B) {
		return nil, ErrNumericDomain
	}
	return Sum{
		Sum:    amountA*prices.A + amountB*prices.B,
		PriceA: prices.A,
		PriceB: prices.B,
	}, nil
}

func (csf *ConstantSumFormula) Swap(pool Pool, in float64, dir Direction) *Result {
	inv := pool.Invariant.(Sum)
	x, y := pool.reserves(dir)

	rate := inv.PriceA / inv.PriceB
	if dir == BtoA {
		rate = inv.PriceB / inv.PriceA
	}
	out := in * rate
	if out > y {
		r := result(dir, 0, x, y, 0, math.Inf(1))
		r.Error = insufficientLiquidity
		return r
	}
	return result(dir, in, x+in, y-out, out, 0)
}

func (csf *ConstantSumFormula) Settle(pool Pool, reserveA, reserveB float64) Invariant {
	inv := pool.Invariant.(Sum)
	inv.Sum = reserveA*inv.PriceA + reserveB*inv.PriceB
	return inv
}

func (csf *ConstantSumFormula) Price(pool Pool, prices Prices) Prices {
	return prices
}
