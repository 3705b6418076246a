package swap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStableSwapFormula(t *testing.T) {
	assert := assert.New(t)
	prices := Prices{A: 1, B: 1}

	pool, err := Initialize(CurveStable, 1000, 1000, prices, Config{})
	assert.Nil(err)
	assert.Equal(Stable{Amplification: 100, PriceA: 1, PriceB: 1}, pool.Invariant)

	out, err := Quote(CurveStable, 100, AtoB, pool, prices)
	assert.Nil(err)
	assert.Equal(1100.0, out.NewReserveA)
	assert.InDelta(900.0009090909, out.NewReserveB, 1e-9)
	assert.InDelta(99.9990909091, out.Output, 1e-9)
	assert.InDelta(0.005, out.Impact, 1e-12)

	product, _ := Initialize(CPMM, 1000, 1000, prices, Config{})
	cpmm, _ := Quote(CPMM, 100, AtoB, product, prices)
	assert.Greater(out.Output, cpmm.Output)

	next, err := Execute(CurveStable, 100, BtoA, pool, prices)
	assert.Nil(err)
	assert.InDelta(900.0009090909, next.ReserveA, 1e-9)
	assert.Equal(1100.0, next.ReserveB)
	assert.Equal(pool.Invariant, next.Invariant)

	implied, err := Pricing(CurveStable, pool, prices)
	assert.Nil(err)
	assert.Equal(prices, implied)
	implied, err = Pricing(CurveStable, next, prices)
	assert.Nil(err)
	assert.Greater(implied.A, 1.0)
	assert.Less(implied.B, 1.0)

	v := Validate(CurveStable, 5000, AtoB, pool, prices)
	assert.False(v.Valid)
	assert.Greater(v.MaxInput, 900.0)
	assert.Less(v.MaxInput, 1000.0)
	r, err := Quote(CurveStable, v.MaxInput, AtoB, pool, prices)
	assert.Nil(err)
	assert.Greater(r.NewReserveB, 0.0)

	_, err = Initialize(CurveStable, 10, 10, Prices{A: 1}, Config{})
	assert.Equal(ErrNumericDomain, err)
}
