package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/MixinNetwork/amm.one/feed"
	"github.com/MixinNetwork/amm.one/swap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testResponse struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Status      int    `json:"status"`
		Code        int    `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
	Next string `json:"next"`
}

func testMarket(ctx context.Context, base, quote string) (*feed.Quote, *feed.Quote, error) {
	if base == "ethereum" && quote == "cardano" {
		return &feed.Quote{Id: base, Name: "Ethereum", USD: 3000, Change24h: 2.5},
			&feed.Quote{Id: quote, Name: "Cardano", USD: 15, Change24h: -1.25}, nil
	}
	return nil, nil, feed.ErrTokenNotFound
}

func setupRouter(t *testing.T) http.Handler {
	_, sim, persist, _ := setupSimulator(t)
	return NewRouter(sim, persist, testMarket)
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) (int, *testResponse) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var resp testResponse
	require.Nil(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return rec.Code, &resp
}

func decimal(t *testing.T, s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	require.Nil(t, err)
	return f
}

func TestRoutesCatalogue(t *testing.T) {
	assert := assert.New(t)
	router := setupRouter(t)

	code, resp := doRequest(t, router, "GET", "/formulas", "")
	assert.Equal(http.StatusOK, code)
	var infos []swap.Info
	assert.Nil(json.Unmarshal(resp.Data, &infos))
	assert.Len(infos, 5)
	assert.Equal(swap.CPMM, infos[0].Kind)

	code, resp = doRequest(t, router, "GET", "/pairs", "")
	assert.Equal(http.StatusOK, code)
	var pairs []map[string]interface{}
	assert.Nil(json.Unmarshal(resp.Data, &pairs))
	assert.NotEmpty(pairs)

	code, resp = doRequest(t, router, "GET", "/quotes/ethereum/cardano", "")
	assert.Equal(http.StatusOK, code)
	var quote struct {
		Ratio string `json:"ratio"`
		Base  struct {
			Name      string  `json:"name"`
			Change24h float64 `json:"change_24h"`
		} `json:"base"`
		Quote struct {
			Name      string  `json:"name"`
			Change24h float64 `json:"change_24h"`
		} `json:"quote"`
	}
	assert.Nil(json.Unmarshal(resp.Data, &quote))
	assert.InDelta(200, decimal(t, quote.Ratio), 1e-9)
	assert.Equal("Ethereum", quote.Base.Name)
	assert.Equal(2.5, quote.Base.Change24h)
	assert.Equal("Cardano", quote.Quote.Name)
	assert.Equal(-1.25, quote.Quote.Change24h)

	code, resp = doRequest(t, router, "GET", "/quotes/bitcoin/solana", "")
	assert.Equal(http.StatusAccepted, code)
	assert.Equal(20005, resp.Error.Code)

	code, resp = doRequest(t, router, "GET", "/unknown", "")
	assert.Equal(http.StatusAccepted, code)
	assert.Equal(404, resp.Error.Code)
}

func TestRoutesPoolLifecycle(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	router := setupRouter(t)

	code, resp := doRequest(t, router, "POST", "/pools", `{"base_asset_id":"ethereum","quote_asset_id":"cardano","formula":"cpmm","amount_a":"10","amount_b":"2000"}`)
	require.Equal(http.StatusOK, code)
	var pool map[string]interface{}
	require.Nil(json.Unmarshal(resp.Data, &pool))
	poolId := pool["pool_id"].(string)
	valuation := pool["valuation"].(map[string]interface{})
	assert.InDelta(60000, valuation["total_liquidity_usd"].(float64), 1e-6)

	code, resp = doRequest(t, router, "POST", "/pools/"+poolId+"/quote", `{"direction":"AtoB","amount":"1"}`)
	require.Equal(http.StatusOK, code)
	var result map[string]interface{}
	require.Nil(json.Unmarshal(resp.Data, &result))
	assert.InDelta(181.8181818, decimal(t, result["output"].(string)), 1e-6)

	code, resp = doRequest(t, router, "POST", "/pools/"+poolId+"/validate", `{"direction":"AtoB","amount":"2000"}`)
	require.Equal(http.StatusOK, code)
	var validation map[string]interface{}
	require.Nil(json.Unmarshal(resp.Data, &validation))
	assert.Equal(false, validation["valid"])
	assert.InDelta(990, decimal(t, validation["max_input"].(string)), 1e-6)

	code, resp = doRequest(t, router, "POST", "/pools/"+poolId+"/swap", `{"direction":"AtoB","amount":"2000"}`)
	assert.Equal(http.StatusAccepted, code)
	assert.Equal(20004, resp.Error.Code)

	code, _ = doRequest(t, router, "POST", "/pools/"+poolId+"/swap", `{"direction":"AtoB","amount":"1"}`)
	assert.Equal(http.StatusOK, code)

	code, _ = doRequest(t, router, "POST", "/pools/"+poolId+"/liquidity", `{"amount_a":"1","amount_b":"100"}`)
	assert.Equal(http.StatusOK, code)

	code, resp = doRequest(t, router, "GET", "/pools/"+poolId+"/actions?limit=2", "")
	assert.Equal(http.StatusOK, code)
	var actions []map[string]interface{}
	require.Nil(json.Unmarshal(resp.Data, &actions))
	assert.Len(actions, 2)
	assert.Equal("POOL_ADD", actions[0]["action"])
	assert.NotEmpty(resp.Next)

	code, resp = doRequest(t, router, "GET", "/pools/"+poolId+"/pricing", "")
	assert.Equal(http.StatusOK, code)

	code, resp = doRequest(t, router, "GET", "/pools", "")
	assert.Equal(http.StatusOK, code)
	var pools []map[string]interface{}
	require.Nil(json.Unmarshal(resp.Data, &pools))
	assert.Len(pools, 1)
	assert.Equal(float64(2), pools[0]["version"])
}

func TestRoutesErrors(t *testing.T) {
	assert := assert.New(t)
	router := setupRouter(t)

	code, resp := doRequest(t, router, "GET", "/pools/00000000-0000-4000-8000-000000000000", "")
	assert.Equal(http.StatusAccepted, code)
	assert.Equal(20001, resp.Error.Code)

	code, resp = doRequest(t, router, "POST", "/pools", `{"base_asset_id":"ethereum","quote_asset_id":"cardano","formula":"unknown","amount_a":"10","amount_b":"2000"}`)
	assert.Equal(http.StatusAccepted, code)
	assert.Equal(swap.ErrUnsupportedFormula.Code, resp.Error.Code)

	code, resp = doRequest(t, router, "POST", "/pools", `{"base_asset_id":"bitcoin","quote_asset_id":"solana","formula":"cpmm","amount_a":"10","amount_b":"2000"}`)
	assert.Equal(http.StatusAccepted, code)
	assert.Equal(20005, resp.Error.Code)

	code, resp = doRequest(t, router, "POST", "/pools", `{"base_asset_id":"bitcoin","quote_asset_id":"solana","formula":"cpmm","amount_a":"0","amount_b":"2000","price_a":"60000","price_b":"150"}`)
	assert.Equal(http.StatusAccepted, code)
	assert.Equal(swap.ErrInvalidParams.Code, resp.Error.Code)

	code, resp = doRequest(t, router, "POST", "/pools", `not json`)
	assert.Equal(http.StatusAccepted, code)
	assert.Equal(400, resp.Error.Code)
}

func TestRoutesCompare(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	router := setupRouter(t)

	code, resp := doRequest(t, router, "POST", "/compare", `{"amount_a":"1000","amount_b":"1000","price_a":"1","price_b":"1","direction":"AtoB","amount":"100"}`)
	require.Equal(http.StatusOK, code)
	var items []map[string]interface{}
	require.Nil(json.Unmarshal(resp.Data, &items))
	require.Len(items, 5)
	assert.Equal("constant_sum", items[0]["formula"])
}
