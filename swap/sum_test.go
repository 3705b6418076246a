package swap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantSumFormula(t *testing.T) {
	assert := assert.New(t)
	prices := Prices{A: 1, B: 1}

	pool, err := Initialize(ConstantSum, 1000, 1000, prices, Config{})
	assert.Nil(err)
	assert.Equal(Sum{Sum: 2000, PriceA: 1, PriceB: 1}, pool.Invariant)

	out, err := Quote(ConstantSum, 100, AtoB, pool, prices)
	assert.Nil(err)
	assert.Equal(100.0, out.Output)
	assert.Equal(0.0, out.Impact)
	assert.Equal(1100.0, out.NewReserveA)
	assert.Equal(900.0, out.NewReserveB)
	assert.Equal("", out.Error)

	out, err = Quote(ConstantSum, 1001, BtoA, pool, prices)
	assert.Nil(err)
	assert.Equal(0.0, out.Output)
	assert.True(math.IsInf(out.Impact, 1))
	assert.Equal(insufficientLiquidity, out.Error)
	assert.Equal(1000.0, out.NewReserveA)
	assert.Equal(1000.0, out.NewReserveB)

	_, err = Execute(ConstantSum, 1001, BtoA, pool, prices)
	assert.Equal(ErrInsufficientLiquidity, err)

	v := Validate(ConstantSum, 1001, BtoA, pool, prices)
	assert.False(v.Valid)
	assert.Equal(insufficientLiquidity, v.Error)
	assert.InDelta(990*0.95, v.MaxInput, 1e-6)

	next, err := Execute(ConstantSum, 100, AtoB, pool, prices)
	assert.Nil(err)
	assert.Equal(1100.0, next.ReserveA)
	assert.Equal(900.0, next.ReserveB)
	assert.Equal(2000.0, next.Invariant.(Sum).Sum)

	implied, err := Pricing(ConstantSum, next, Prices{A: 1.01, B: 0.99})
	assert.Nil(err)
	assert.Equal(Prices{A: 1.01, B: 0.99}, implied)
}

func TestConstantSumSnapshotPrices(t *testing.T) {
	assert := assert.New(t)

	pool, err := Initialize(ConstantSum, 10, 20000, Prices{A: 2000, B: 1}, Config{})
	assert.Nil(err)
	assert.Equal(40000.0, pool.Invariant.(Sum).Sum)

	out, err := Quote(ConstantSum, 2, AtoB, pool, Prices{A: 1, B: 1})
	assert.Nil(err)
	assert.Equal(4000.0, out.Output)
	assert.Equal(0.0, out.Impact)

	out, err = Quote(ConstantSum, 4000, BtoA, pool, Prices{A: 1, B: 1})
	assert.Nil(err)
	assert.Equal(2.0, out.Output)

	next, err := AddLiquidity(ConstantSum, 1, 0, pool, Prices{A: 3000, B: 1})
	assert.Nil(err)
	assert.Equal(42000.0, next.Invariant.(Sum).Sum)
	assert.True(next.Invariant.Holds(next.ReserveA, next.ReserveB))

	_, err = Initialize(ConstantSum, 10, 10, Prices{A: 0, B: 1}, Config{})
	assert.Equal(ErrNumericDomain, err)
}
