package swap

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormulaRegistry(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([]Kind{CPMM, ConstantSum, ConstantMean, CurveStable, Concentrated}, Kinds())
	kinds := Kinds()
	kinds[0] = "mutated"
	assert.Equal(CPMM, Kinds()[0])

	info, err := Describe(CPMM)
	assert.Nil(err)
	assert.Equal("Constant Product (CPMM)", info.Name)
	assert.Equal("x × y = k", info.Formula)
	info.Name = "mutated"
	info, _ = Describe(CPMM)
	assert.Equal("Constant Product (CPMM)", info.Name)

	info, err = Describe(Concentrated)
	assert.Nil(err)
	assert.Equal("Capital efficient trading", info.BestFor)

	info, err = Describe("uniswap_v3")
	assert.Nil(info)
	assert.Equal(ErrUnsupportedFormula, err)
}

func TestFormulaErrors(t *testing.T) {
	assert := assert.New(t)

	pool, err := Initialize(CPMM, 10, 2000, Prices{}, Config{})
	assert.Nil(err)

	_, err = Initialize("bogus", 10, 10, Prices{}, Config{})
	assert.Equal(ErrUnsupportedFormula, err)
	_, err = Initialize(CPMM, 0, 10, Prices{}, Config{})
	assert.Equal(ErrInvalidParams, err)
	_, err = Initialize(CPMM, 10, -1, Prices{}, Config{})
	assert.Equal(ErrInvalidParams, err)

	_, err = Quote("bogus", 1, AtoB, pool, Prices{})
	assert.Equal(ErrUnsupportedFormula, err)
	_, err = Quote(ConstantSum, 1, AtoB, pool, Prices{})
	assert.Equal(ErrFormulaMismatch, err)
	_, err = Quote(CPMM, 0, AtoB, pool, Prices{})
	assert.Equal(ErrInvalidParams, err)
	_, err = Quote(CPMM, -5, AtoB, pool, Prices{})
	assert.Equal(ErrInvalidParams, err)
	_, err = Quote(CPMM, 1, "AtoC", pool, Prices{})
	assert.Equal(ErrInvalidParams, err)
	_, err = Quote(CPMM, 1, AtoB, Pool{Formula: CPMM, ReserveA: 0, ReserveB: 10, Invariant: Product{}}, Prices{})
	assert.Equal(ErrNumericDomain, err)
	_, err = Quote(CPMM, 1, AtoB, Pool{Formula: CPMM, ReserveA: 1, ReserveB: 1, Invariant: Sum{}}, Prices{})
	assert.Equal(ErrFormulaMismatch, err)

	_, err = Execute(ConstantMean, 1, AtoB, pool, Prices{})
	assert.Equal(ErrFormulaMismatch, err)
	_, err = Pricing("bogus", pool, Prices{A: 1, B: 1})
	assert.Equal(ErrUnsupportedFormula, err)
	_, err = Deviation(CPMM, pool, Prices{A: 0, B: 1})
	assert.Equal(ErrNumericDomain, err)

	_, err = AddLiquidity(CPMM, 0, 0, pool, Prices{})
	assert.Equal(ErrLiquidityEmpty, err)
	_, err = AddLiquidity(CPMM, -1, 10, pool, Prices{})
	assert.Equal(ErrInvalidParams, err)

	v := Validate("bogus", 1, AtoB, pool, Prices{})
	assert.False(v.Valid)
	assert.Equal(0.0, v.MaxInput)
	assert.Equal(ErrUnsupportedFormula.Error(), v.Error)

	assert.Equal(`{"code":20003,"description":"insufficient liquidity"}`, ErrInsufficientLiquidity.Error())
	e, ok := AsError(ErrFormulaMismatch)
	assert.True(ok)
	assert.Equal(10004, e.Code)
	_, ok = AsError(errors.New("plain"))
	assert.False(ok)
}

func TestSearch(t *testing.T) {
	assert := assert.New(t)

	best := Search(100, 50, func(v float64) bool { return v <= 42 })
	assert.InDelta(42, best, 1e-9)
	assert.LessOrEqual(best, 42.0)

	assert.Equal(0.0, Search(100, 50, func(v float64) bool { return false }))
	assert.InDelta(100, Search(100, 50, func(v float64) bool { return true }), 1e-9)
	assert.Equal(0.0, Search(100, 0, func(v float64) bool { return true }))
}

func TestNumericRange(t *testing.T) {
	assert := assert.New(t)

	_, err := Initialize(CPMM, 1e200, 1e200, Prices{}, Config{})
	assert.Equal(ErrNumericDomain, err)
	_, err = Initialize(CPMM, 1e-200, 1e-200, Prices{}, Config{})
	assert.Equal(ErrNumericDomain, err)
	_, err = Initialize(Concentrated, 1e200, 1e200, Prices{}, Config{})
	assert.Equal(ErrNumericDomain, err)
	_, err = Initialize(CurveStable, 1e308, 1e308, Prices{A: 1, B: 1}, Config{})
	assert.Equal(ErrNumericDomain, err)

	pool, err := Initialize(CPMM, 1e150, 1e150, Prices{}, Config{})
	assert.Nil(err)
	_, err = AddLiquidity(CPMM, 1e160, 0, pool, Prices{})
	assert.Equal(ErrNumericDomain, err)

	stable, err := Initialize(CurveStable, 1e300, 1e300, Prices{A: 1, B: 1}, Config{})
	assert.Nil(err)
	v := Validate(CurveStable, 1, AtoB, stable, Prices{})
	assert.False(v.Valid)
	assert.Equal(outOfRange, v.Error)
	assert.Equal(0.0, v.MaxInput)
	_, err = Execute(CurveStable, 1, AtoB, stable, Prices{})
	assert.Equal(ErrNumericDomain, err)

	_, err = Quote(CPMM, 1, AtoB, Pool{Formula: CPMM, ReserveA: 10, ReserveB: 10, Invariant: Product{K: math.Inf(1)}}, Prices{})
	assert.Equal(ErrNumericDomain, err)
}
