package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/MixinNetwork/amm.one/config"
	"github.com/MixinNetwork/amm.one/feed"
	"github.com/MixinNetwork/amm.one/persistence"
	"github.com/MixinNetwork/amm.one/session"
	"github.com/MixinNetwork/amm.one/swap"
	"github.com/MixinNetwork/amm.one/views"
	"github.com/MixinNetwork/go-number"
	"github.com/bugsnag/bugsnag-go/errors"
	"github.com/dimfeld/httptreemux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	listPoolsLimit   = 100
	listActionsLimit = 100
)

type MarketFunc func(ctx context.Context, base, quote string) (*feed.Quote, *feed.Quote, error)

type R struct {
	sim     *Simulator
	persist persistence.Persist
	market  MarketFunc
}

func NewRouter(sim *Simulator, persist persistence.Persist, market MarketFunc) *httptreemux.TreeMux {
	router, impl := httptreemux.New(), &R{sim: sim, persist: persist, market: market}
	router.GET("/formulas", impl.formulas)
	router.GET("/pairs", impl.pairs)
	router.GET("/quotes/:base/:quote", impl.quotes)
	router.POST("/pools", impl.createPool)
	router.GET("/pools", impl.listPools)
	router.GET("/pools/:id", impl.readPool)
	router.GET("/pools/:id/actions", impl.poolActions)
	router.POST("/pools/:id/quote", impl.quote)
	router.POST("/pools/:id/validate", impl.validate)
	router.POST("/pools/:id/swap", impl.swap)
	router.POST("/pools/:id/liquidity", impl.addLiquidity)
	router.GET("/pools/:id/pricing", impl.pricing)
	router.POST("/compare", impl.compare)
	router.GET("/metrics", func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	registerHanders(router)
	return router
}

type pricesRequest struct {
	PriceA string `json:"price_a"`
	PriceB string `json:"price_b"`
}

type poolRequestBody struct {
	pricesRequest
	BaseAssetId  string `json:"base_asset_id"`
	QuoteAssetId string `json:"quote_asset_id"`
	Formula      string `json:"formula"`
	AmountA      string `json:"amount_a"`
	AmountB      string `json:"amount_b"`
	WeightA      string `json:"weight_a"`
	WeightB      string `json:"weight_b"`
	MinPrice     string `json:"min_price"`
	MaxPrice     string `json:"max_price"`
}

func (body *poolRequestBody) config() swap.Config {
	return swap.Config{
		WeightA:  parseDecimal(body.WeightA),
		WeightB:  parseDecimal(body.WeightB),
		MinPrice: parseDecimal(body.MinPrice),
		MaxPrice: parseDecimal(body.MaxPrice),
	}
}

type swapRequestBody struct {
	pricesRequest
	Direction string `json:"direction"`
	Amount    string `json:"amount"`
}

type compareRequestBody struct {
	poolRequestBody
	Direction string `json:"direction"`
	Amount    string `json:"amount"`
}

func (impl *R) formulas(w http.ResponseWriter, r *http.Request, params map[string]string) {
	infos := make([]*swap.Info, 0)
	for _, kind := range swap.Kinds() {
		info, err := swap.Describe(kind)
		if err != nil {
			views.RenderErrorResponse(w, r, session.ServerError(r.Context(), err))
			return
		}
		infos = append(infos, info)
	}
	views.RenderDataResponse(w, r, infos)
}

func (impl *R) pairs(w http.ResponseWriter, r *http.Request, params map[string]string) {
	views.RenderDataResponse(w, r, config.PopularPairs)
}

func (impl *R) quotes(w http.ResponseWriter, r *http.Request, params map[string]string) {
	base, quote := params["base"], params["quote"]
	if !config.VerifyPair(base, quote) {
		views.RenderErrorResponse(w, r, session.BadRequestError(r.Context()))
		return
	}
	qa, qb, err := impl.market(r.Context(), base, quote)
	if err != nil {
		views.RenderErrorResponse(w, r, marketError(r.Context(), base, quote, err))
		return
	}
	views.RenderDataResponse(w, r, views.BuildPairQuoteView(qa, qb))
}

func (impl *R) createPool(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var body poolRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		views.RenderErrorResponse(w, r, session.BadRequestError(r.Context()))
		return
	}
	if !config.VerifyPair(body.BaseAssetId, body.QuoteAssetId) {
		views.RenderErrorResponse(w, r, session.BadRequestError(r.Context()))
		return
	}
	prices, err := impl.requirePrices(r.Context(), body.BaseAssetId, body.QuoteAssetId, body.pricesRequest)
	if err != nil {
		views.RenderErrorResponse(w, r, err)
		return
	}
	pool, err := impl.sim.CreatePool(r.Context(), body.BaseAssetId, body.QuoteAssetId, swap.Kind(body.Formula), parseDecimal(body.AmountA), parseDecimal(body.AmountB), prices, body.config())
	if err != nil {
		views.RenderErrorResponse(w, r, session.EngineError(r.Context(), err))
		return
	}
	impl.renderPool(w, r, pool, prices)
}

func (impl *R) listPools(w http.ResponseWriter, r *http.Request, params map[string]string) {
	pools, err := impl.persist.ListPools(r.Context(), listPoolsLimit)
	if err != nil {
		views.RenderErrorResponse(w, r, session.ServerError(r.Context(), err))
		return
	}
	data := make([]*views.PoolView, 0, len(pools))
	for _, p := range pools {
		data = append(data, views.BuildPoolView(p, nil))
	}
	views.RenderDataResponse(w, r, data)
}

func (impl *R) readPool(w http.ResponseWriter, r *http.Request, params map[string]string) {
	pool, _, err := impl.sim.ReadPool(r.Context(), params["id"])
	if err != nil {
		views.RenderErrorResponse(w, r, impl.poolError(r.Context(), params["id"], err))
		return
	}
	prices, err := impl.marketPrices(r.Context(), pool.BaseAssetId, pool.QuoteAssetId)
	if err != nil {
		views.RenderDataResponse(w, r, views.BuildPoolView(pool, nil))
		return
	}
	impl.renderPool(w, r, pool, prices)
}

func (impl *R) poolActions(w http.ResponseWriter, r *http.Request, params map[string]string) {
	offset := time.Now()
	if o := r.URL.Query().Get("offset"); o != "" {
		t, err := time.Parse(time.RFC3339Nano, o)
		if err != nil {
			views.RenderErrorResponse(w, r, session.BadRequestError(r.Context()))
			return
		}
		offset = t
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > listActionsLimit {
		limit = listActionsLimit
	}
	if _, _, err := impl.sim.ReadPool(r.Context(), params["id"]); err != nil {
		views.RenderErrorResponse(w, r, impl.poolError(r.Context(), params["id"], err))
		return
	}
	actions, err := impl.persist.ListPoolActions(r.Context(), params["id"], offset, limit)
	if err != nil {
		views.RenderErrorResponse(w, r, session.ServerError(r.Context(), err))
		return
	}
	data := make([]*views.ActionView, 0, len(actions))
	for _, a := range actions {
		data = append(data, views.BuildActionView(a))
	}
	var next string
	if len(actions) == limit {
		next = actions[len(actions)-1].CreatedAt.UTC().Format(time.RFC3339Nano)
	}
	views.RenderPaginatedResponse(w, r, data, next)
}

func (impl *R) quote(w http.ResponseWriter, r *http.Request, params map[string]string) {
	body, prices, err := impl.parseSwap(r, params["id"])
	if err != nil {
		views.RenderErrorResponse(w, r, err)
		return
	}
	result, err := impl.sim.Quote(r.Context(), params["id"], parseDecimal(body.Amount), swap.Direction(body.Direction), prices)
	if err != nil {
		views.RenderErrorResponse(w, r, impl.poolError(r.Context(), params["id"], err))
		return
	}
	views.RenderDataResponse(w, r, views.BuildResultView(result))
}

func (impl *R) validate(w http.ResponseWriter, r *http.Request, params map[string]string) {
	body, prices, err := impl.parseSwap(r, params["id"])
	if err != nil {
		views.RenderErrorResponse(w, r, err)
		return
	}
	v, err := impl.sim.Validate(r.Context(), params["id"], parseDecimal(body.Amount), swap.Direction(body.Direction), prices)
	if err != nil {
		views.RenderErrorResponse(w, r, impl.poolError(r.Context(), params["id"], err))
		return
	}
	views.RenderDataResponse(w, r, views.BuildValidationView(v))
}

func (impl *R) swap(w http.ResponseWriter, r *http.Request, params map[string]string) {
	body, prices, err := impl.parseSwap(r, params["id"])
	if err != nil {
		views.RenderErrorResponse(w, r, err)
		return
	}
	pool, v, err := impl.sim.Swap(r.Context(), params["id"], parseDecimal(body.Amount), swap.Direction(body.Direction), prices)
	if err == ErrSwapRejected {
		views.RenderErrorResponse(w, r, session.SwapRejectedError(r.Context(), v.Error, v.MaxInput))
		return
	} else if err != nil {
		views.RenderErrorResponse(w, r, impl.poolError(r.Context(), params["id"], err))
		return
	}
	views.RenderDataResponse(w, r, map[string]interface{}{
		"pool":   views.BuildPoolView(pool, nil),
		"result": views.BuildResultView(v.Result),
	})
}

func (impl *R) addLiquidity(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var body poolRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		views.RenderErrorResponse(w, r, session.BadRequestError(r.Context()))
		return
	}
	prices, err := impl.optionalPrices(r.Context(), params["id"], body.pricesRequest)
	if err != nil {
		views.RenderErrorResponse(w, r, err)
		return
	}
	pool, err := impl.sim.AddLiquidity(r.Context(), params["id"], parseDecimal(body.AmountA), parseDecimal(body.AmountB), prices)
	if err != nil {
		views.RenderErrorResponse(w, r, impl.poolError(r.Context(), params["id"], err))
		return
	}
	views.RenderDataResponse(w, r, views.BuildPoolView(pool, nil))
}

func (impl *R) pricing(w http.ResponseWriter, r *http.Request, params map[string]string) {
	pool, _, err := impl.sim.ReadPool(r.Context(), params["id"])
	if err != nil {
		views.RenderErrorResponse(w, r, impl.poolError(r.Context(), params["id"], err))
		return
	}
	query := pricesRequest{PriceA: r.URL.Query().Get("price_a"), PriceB: r.URL.Query().Get("price_b")}
	prices, err := impl.requirePrices(r.Context(), pool.BaseAssetId, pool.QuoteAssetId, query)
	if err != nil {
		views.RenderErrorResponse(w, r, err)
		return
	}
	pricing, err := impl.sim.Pricing(r.Context(), params["id"], prices)
	if err != nil {
		views.RenderErrorResponse(w, r, impl.poolError(r.Context(), params["id"], err))
		return
	}
	views.RenderDataResponse(w, r, pricing)
}

func (impl *R) compare(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var body compareRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		views.RenderErrorResponse(w, r, session.BadRequestError(r.Context()))
		return
	}
	prices, err := impl.requirePrices(r.Context(), body.BaseAssetId, body.QuoteAssetId, body.pricesRequest)
	if err != nil {
		views.RenderErrorResponse(w, r, err)
		return
	}
	comparisons, err := impl.sim.Compare(r.Context(), parseDecimal(body.AmountA), parseDecimal(body.AmountB), prices, body.config(), parseDecimal(body.Amount), swap.Direction(body.Direction))
	if err != nil {
		views.RenderErrorResponse(w, r, session.EngineError(r.Context(), err))
		return
	}
	data := make([]map[string]interface{}, 0, len(comparisons))
	for _, c := range comparisons {
		item := map[string]interface{}{"formula": c.Formula}
		if c.Error != nil {
			item["error"] = session.EngineError(r.Context(), c.Error)
		} else {
			item["validation"] = views.BuildValidationView(c.Validation)
			valuation := swap.USDValues(c.Pool, prices)
			item["valuation"] = valuation
		}
		data = append(data, item)
	}
	views.RenderDataResponse(w, r, data)
}

func (impl *R) renderPool(w http.ResponseWriter, r *http.Request, pool *persistence.Pool, prices swap.Prices) {
	p, err := pool.Swap()
	if err != nil {
		views.RenderErrorResponse(w, r, session.ServerError(r.Context(), err))
		return
	}
	valuation := swap.USDValues(p, prices)
	views.RenderDataResponse(w, r, views.BuildPoolView(pool, &valuation))
}

func (impl *R) parseSwap(r *http.Request, poolId string) (*swapRequestBody, swap.Prices, error) {
	var body swapRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, swap.Prices{}, session.BadRequestError(r.Context())
	}
	prices, err := impl.optionalPrices(r.Context(), poolId, body.pricesRequest)
	return &body, prices, err
}

// optionalPrices serves the operations where the curves quote from their own
// state, zero prices are used when neither the request nor the cache has them.
func (impl *R) optionalPrices(ctx context.Context, poolId string, req pricesRequest) (swap.Prices, error) {
	if prices, ok := req.parse(); ok {
		return prices, nil
	}
	pool, _, err := impl.sim.ReadPool(ctx, poolId)
	if err != nil {
		return swap.Prices{}, impl.poolError(ctx, poolId, err)
	}
	prices, err := impl.marketPrices(ctx, pool.BaseAssetId, pool.QuoteAssetId)
	if err != nil {
		return swap.Prices{}, nil
	}
	return prices, nil
}

func (impl *R) requirePrices(ctx context.Context, base, quote string, req pricesRequest) (swap.Prices, error) {
	if prices, ok := req.parse(); ok {
		return prices, nil
	}
	prices, err := impl.marketPrices(ctx, base, quote)
	if err != nil {
		return swap.Prices{}, marketError(ctx, base, quote, err)
	}
	return prices, nil
}

func (impl *R) marketPrices(ctx context.Context, base, quote string) (swap.Prices, error) {
	qa, qb, err := impl.market(ctx, base, quote)
	if err != nil {
		return swap.Prices{}, err
	}
	return swap.Prices{A: qa.USD, B: qb.USD}, nil
}

func (impl *R) poolError(ctx context.Context, poolId string, err error) error {
	if err == ErrPoolNotFound {
		return session.PoolNotFoundError(ctx, poolId)
	}
	return session.EngineError(ctx, err)
}

func (req pricesRequest) parse() (swap.Prices, bool) {
	if req.PriceA == "" || req.PriceB == "" {
		return swap.Prices{}, false
	}
	return swap.Prices{A: parseDecimal(req.PriceA), B: parseDecimal(req.PriceB)}, true
}

func marketError(ctx context.Context, base, quote string, err error) error {
	if err == feed.ErrTokenNotFound {
		return session.TokenNotFoundError(ctx, base, quote)
	}
	return session.ServerError(ctx, err)
}

// parseDecimal reads a decimal string, malformed input reads as zero and is
// refused by the engine wherever zero is not a valid amount.
func parseDecimal(s string) float64 {
	if s == "" {
		return 0
	}
	return number.FromString(s).Float64()
}

func registerHanders(router *httptreemux.TreeMux) {
	router.MethodNotAllowedHandler = func(w http.ResponseWriter, r *http.Request, _ map[string]httptreemux.HandlerFunc) {
		views.RenderErrorResponse(w, r, session.NotFoundError(r.Context()))
	}
	router.NotFoundHandler = func(w http.ResponseWriter, r *http.Request) {
		views.RenderErrorResponse(w, r, session.NotFoundError(r.Context()))
	}
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, rcv interface{}) {
		err := fmt.Errorf("%s", errors.New(rcv, 2).Stack())
		views.RenderErrorResponse(w, r, session.ServerError(r.Context(), err))
	}
}
