package swap

type ConstantProductFormula struct{}

func (cpf *ConstantProductFormula) Init(amountA, amountB float64, prices Prices, cfg Config) (Invariant, error) {
	return Product{K: amountA * amountB}, nil
}

func (cpf *ConstantProductFormula) Swap(pool Pool, in float64, dir Direction) *Result {
	k := pool.Invariant.(Product).K
	x, y := pool.reserves(dir)

	pX := x + in
	pY := k / pX
	out := y - pY

	priceInitial := x / y
	priceFinal := pX / pY
	slip := (priceFinal - priceInitial) / priceInitial * 100
	return result(dir, in, pX, pY, out, slip)
}

func (cpf *ConstantProductFormula) Settle(pool Pool, reserveA, reserveB float64) Invariant {
	return Product{K: reserveA * reserveB}
}

func (cpf *ConstantProductFormula) Price(pool Pool, prices Prices) Prices {
	return Prices{
		A: pool.ReserveB * prices.B / pool.ReserveA,
		B: pool.ReserveA * prices.A / pool.ReserveB,
	}
}

// MaxInput leaves exactly 1% of the output reserve in the pool.
func (cpf *ConstantProductFormula) MaxInput(pool Pool, dir Direction) float64 {
	k := pool.Invariant.(Product).K
	x, y := pool.reserves(dir)
	target := y - y*depletionLimit
	return maxFloat(0, k/target-x)
}
