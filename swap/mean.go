package swap

import "math"

const (
	defaultWeight = 0.5
)

// ConstantMeanFormula is the two asset weighted geometric mean curve
// A^wA × B^wB = k.
type ConstantMeanFormula struct{}

func (cmf *ConstantMeanFormula) Init(amountA, amountB float64, prices Prices, cfg Config) (Invariant, error) {
	wA, wB := cfg.WeightA, cfg.WeightB
	switch {
	case wA == 0 && wB == 0:
		wA, wB = defaultWeight, defaultWeight
	case wB == 0:
		wB = 1 - wA
	case wA == 0:
		wA = 1 - wB
	}
	if !positive(wA) || !positive(wB) || wA >= 1 || wB >= 1 {
		return nil, ErrNumericDomain
	}
	if math.Abs(wA+wB-1) > epsilon {
		return nil, ErrNumericDomain
	}
	return Mean{
		WeightA: wA,
		WeightB: wB,
		Mean:    math.Pow(amountA, wA) * math.Pow(amountB, wB),
	}, nil
}

func (cmf *ConstantMeanFormula) Swap(pool Pool, in float64, dir Direction) *Result {
	inv := pool.Invariant.(Mean)
	x, y := pool.reserves(dir)
	wX, wY := inv.WeightA, inv.WeightB
	if dir == BtoA {
		wX, wY = wY, wX
	}

	pX := x + in
	pY := math.Pow(inv.Mean/math.Pow(pX, wX), 1/wY)
	out := y - pY

	spotInitial := x / y * (wY / wX)
	spotFinal := pX / pY * (wY / wX)
	impact := (spotFinal - spotInitial) / spotInitial * 100
	return result(dir, in, pX, pY, out, impact)
}

func (cmf *ConstantMeanFormula) Settle(pool Pool, reserveA, reserveB float64) Invariant {
	inv := pool.Invariant.(Mean)
	inv.Mean = math.Pow(reserveA, inv.WeightA) * math.Pow(reserveB, inv.WeightB)
	return inv
}

func (cmf *ConstantMeanFormula) Price(pool Pool, prices Prices) Prices {
	inv := pool.Invariant.(Mean)
	return Prices{
		A: pool.ReserveB / pool.ReserveA * (inv.WeightA / inv.WeightB) * prices.B,
		B: pool.ReserveA / pool.ReserveB * (inv.WeightB / inv.WeightA) * prices.A,
	}
}
