package swap

import "math"

const (
	defaultMinPrice = 0.5
	defaultMaxPrice = 2.0

	// impact relative to a full range pool holding the same reserves
	concentrationFactor = 0.5

	priceRangeExhausted = "Price range exhausted"
)

// ConcentratedFormula is a constant product curve restricted to a band of
// A/B prices. Swaps pushing the price past a bound are filled only up to it.
type ConcentratedFormula struct{}

func (cf *ConcentratedFormula) Init(amountA, amountB float64, prices Prices, cfg Config) (Invariant, error) {
	lower, upper := cfg.MinPrice, cfg.MaxPrice
	if lower == 0 {
		lower = defaultMinPrice
	}
	if upper == 0 {
		upper = defaultMaxPrice
	}
	if !positive(lower) || !positive(upper) || lower >= upper {
		return nil, ErrNumericDomain
	}
	current := amountA / amountB
	return Range{
		K:            amountA * amountB,
		MinPrice:     lower,
		MaxPrice:     upper,
		CurrentPrice: current,
		Active:       inRange(current, lower, upper),
	}, nil
}

func (cf *ConcentratedFormula) Swap(pool Pool, in float64, dir Direction) *Result {
	inv := pool.Invariant.(Range)
	x, y := pool.reserves(dir)

	// bound is the input side reserve at which the price A/B touches the
	// bound this direction moves towards
	var bound float64
	pX := x + in
	pY := inv.K / pX
	if dir == AtoB {
		bound = math.Sqrt(inv.K * inv.MaxPrice)
	} else {
		bound = math.Sqrt(inv.K / inv.MinPrice)
	}
	if pX <= bound {
		return result(dir, in, pX, pY, y-pY, in/x*100*concentrationFactor)
	}

	applied := bound - x
	if applied <= x*epsilon {
		r := result(dir, 0, x, y, 0, 0)
		r.PartialFill = true
		r.Error = priceRangeExhausted
		return r
	}
	pX = bound
	pY = inv.K / pX
	r := result(dir, applied, pX, pY, y-pY, applied/x*100*concentrationFactor)
	r.PartialFill = true
	return r
}

func (cf *ConcentratedFormula) Settle(pool Pool, reserveA, reserveB float64) Invariant {
	inv := pool.Invariant.(Range)
	inv.K = reserveA * reserveB
	inv.CurrentPrice = reserveA / reserveB
	inv.Active = inRange(inv.CurrentPrice, inv.MinPrice, inv.MaxPrice)
	return inv
}

func (cf *ConcentratedFormula) Price(pool Pool, prices Prices) Prices {
	current := pool.Invariant.(Range).CurrentPrice
	return Prices{
		A: prices.B / current,
		B: current * prices.A,
	}
}
