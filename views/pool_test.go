package views

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/MixinNetwork/amm.one/feed"
	"github.com/MixinNetwork/amm.one/persistence"
	"github.com/MixinNetwork/amm.one/swap"
	"github.com/stretchr/testify/assert"
)

func TestResultView(t *testing.T) {
	assert := assert.New(t)

	view := BuildResultView(&swap.Result{Output: 0, Impact: math.Inf(1), NewReserveA: 1000, NewReserveB: 1000, Error: "Insufficient liquidity"})
	data, err := json.Marshal(view)
	assert.Nil(err)
	assert.Contains(string(data), `"impact":null`)
	assert.Contains(string(data), `"new_reserve_a":"1000"`)
	assert.Contains(string(data), `"error":"Insufficient liquidity"`)

	view = BuildResultView(&swap.Result{Output: 181.5, Impact: 21, Applied: 1})
	assert.Equal(21.0, *view.Impact)
	assert.Equal("181.5", view.Output)
	assert.Nil(BuildResultView(nil))

	v := BuildValidationView(&swap.Validation{MaxInput: 990, Error: "Swap amount too large - insufficient liquidity"})
	assert.False(v.Valid)
	assert.Equal("990", v.MaxInput)
	assert.Nil(v.Result)
}

func TestPoolView(t *testing.T) {
	assert := assert.New(t)

	p, _ := swap.Initialize(swap.ConstantMean, 80, 20, swap.Prices{}, swap.Config{WeightA: 0.8})
	row := persistence.BuildPool("pool", "bitcoin", "ethereum", p)
	view := BuildPoolView(row, &swap.Valuation{ReserveAUSD: 80, ReserveBUSD: 20, TotalLiquidityUSD: 100})
	assert.Equal("pool", view.Type)
	assert.Equal("0.8", view.WeightA)
	assert.Equal("", view.MinPrice)
	assert.Equal(100.0, view.Valuation.TotalLiquidityUSD)
}

func TestPairQuoteView(t *testing.T) {
	assert := assert.New(t)

	base := &feed.Quote{Id: "bitcoin", Name: "Bitcoin", USD: 60000, Change24h: 3.5}
	quote := &feed.Quote{Id: "ethereum", Name: "Ethereum", USD: 3000, Change24h: math.NaN()}
	view := BuildPairQuoteView(base, quote)
	assert.Equal("20", view.Ratio)
	assert.Equal("Bitcoin", view.Base.Name)
	assert.Equal(3.5, *view.Base.Change24h)
	assert.Nil(view.Quote.Change24h)

	view = BuildPairQuoteView(base, &feed.Quote{Id: "dead"})
	assert.Equal("0", view.Ratio)
}
