package swap

const (
	amplification = 100

	// blend between the constant sum and constant product terms, kept tiny
	// so balanced stable pools trade almost one to one
	stableAlpha = 0.0001
)

// StableSwapFormula is a simplified StableSwap hybrid, not the Curve
// invariant solved with Newton iterations.
type StableSwapFormula struct{}

func (ssf *StableSwapFormula) Init(amountA, amountB float64, prices Prices, cfg Config) (Invariant, error) {
	if !positive(prices.A) || !positive(prices.B) {
		return nil, ErrNumericDomain
	}
	return Stable{
		Amplification: amplification,
		PriceA:        prices.A,
		PriceB:        prices.B,
	}, nil
}

func (ssf *StableSwapFormula) Swap(pool Pool, in float64, dir Direction) *Result {
	x, y := pool.reserves(dir)
	sum := x + y
	product := x * y

	pX := x + in
	pY := (1-stableAlpha)*(sum-pX) + stableAlpha*(product/pX)
	out := maxFloat(0, y-pY)
	impact := maxFloat(0, in/sum*0.1)
	return result(dir, in, pX, pY, out, impact)
}

func (ssf *StableSwapFormula) Settle(pool Pool, reserveA, reserveB float64) Invariant {
	return pool.Invariant
}

func (ssf *StableSwapFormula) Price(pool Pool, prices Prices) Prices {
	a, b := pool.ReserveA, pool.ReserveB
	return Prices{
		A: prices.A * (1 + (b-a)/(a+b)*0.001),
		B: prices.B * (1 + (a-b)/(a+b)*0.001),
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
