package swap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantProductFormula(t *testing.T) {
	assert := assert.New(t)
	prices := Prices{A: 3000, B: 15}

	pool, err := Initialize(CPMM, 10, 2000, prices, Config{})
	assert.Nil(err)
	assert.Equal(Product{K: 20000}, pool.Invariant)

	out, err := Quote(CPMM, 1, AtoB, pool, prices)
	assert.Nil(err)
	assert.Equal(11.0, out.NewReserveA)
	assert.InDelta(1818.1818181818, out.NewReserveB, 1e-9)
	assert.InDelta(181.8181818181, out.Output, 1e-9)
	assert.InDelta(21.0, out.Impact, 1e-9)
	assert.Equal(1.0, out.Applied)
	assert.False(out.PartialFill)
	assert.Equal(10.0, pool.ReserveA)
	assert.Equal(2000.0, pool.ReserveB)

	out, err = Quote(CPMM, 200, BtoA, pool, prices)
	assert.Nil(err)
	assert.InDelta(9.0909090909, out.NewReserveA, 1e-9)
	assert.Equal(2200.0, out.NewReserveB)
	assert.InDelta(0.9090909090, out.Output, 1e-9)
	assert.InDelta(21.0, out.Impact, 1e-9)

	next, err := Execute(CPMM, 1, AtoB, pool, prices)
	assert.Nil(err)
	assert.Equal(11.0, next.ReserveA)
	assert.InDelta(1818.1818181818, next.ReserveB, 1e-9)
	assert.InEpsilon(20000, next.Invariant.(Product).K, 1e-6)
	assert.True(next.Invariant.Holds(next.ReserveA, next.ReserveB))
	assert.Equal(10.0, pool.ReserveA)

	next, err = AddLiquidity(CPMM, 5, 1000, pool, prices)
	assert.Nil(err)
	assert.Equal(15.0, next.ReserveA)
	assert.Equal(3000.0, next.ReserveB)
	assert.Equal(Product{K: 45000}, next.Invariant)

	implied, err := Pricing(CPMM, pool, prices)
	assert.Nil(err)
	assert.InDelta(3000, implied.A, 1e-9)
	assert.InDelta(15, implied.B, 1e-9)
	deviation, err := Deviation(CPMM, pool, prices)
	assert.Nil(err)
	assert.InDelta(0, deviation.A, 1e-9)
	assert.InDelta(0, deviation.B, 1e-9)

	values := USDValues(pool, prices)
	assert.Equal(30000.0, values.ReserveAUSD)
	assert.Equal(30000.0, values.ReserveBUSD)
	assert.Equal(60000.0, values.TotalLiquidityUSD)
}

func TestConstantProductValidation(t *testing.T) {
	assert := assert.New(t)

	pool := Pool{Formula: CPMM, ReserveA: 10, ReserveB: 2000, Invariant: Product{K: 20000}}
	v := Validate(CPMM, 2000, AtoB, pool, Prices{})
	assert.False(v.Valid)
	assert.Equal(depletedReserves, v.Error)
	assert.InDelta(990, v.MaxInput, 1e-6)

	v = Validate(CPMM, 500, AtoB, pool, Prices{})
	assert.True(v.Valid)
	assert.NotNil(v.Result)
	assert.InDelta(2000-20000.0/510, v.Result.Output, 1e-9)

	v = Validate(CPMM, 1e6, BtoA, pool, Prices{})
	assert.False(v.Valid)
	assert.InDelta(20000.0/0.1-2000, v.MaxInput, 1e-6)

	r, err := Quote(CPMM, v.MaxInput, BtoA, pool, Prices{})
	assert.Nil(err)
	assert.InDelta(0.1, r.NewReserveA, 1e-9)
}

func TestConstantProductConvexity(t *testing.T) {
	assert := assert.New(t)

	pool, _ := Initialize(CPMM, 100, 100, Prices{}, Config{})
	var lastOutput, lastImpact, lastGain float64
	for i := 1; i <= 50; i++ {
		r, err := Quote(CPMM, float64(i), AtoB, pool, Prices{})
		assert.Nil(err)
		assert.Greater(r.Output, lastOutput)
		assert.Greater(r.Impact, lastImpact)
		gain := r.Output - lastOutput
		if i > 1 {
			assert.Less(gain, lastGain)
		}
		lastOutput, lastImpact, lastGain = r.Output, r.Impact, gain
	}
}
