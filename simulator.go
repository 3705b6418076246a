package main

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/MixinNetwork/amm.one/cache"
	"github.com/MixinNetwork/amm.one/config"
	"github.com/MixinNetwork/amm.one/persistence"
	"github.com/MixinNetwork/amm.one/swap"
	"github.com/gofrs/uuid/v5"
)

const staleRetryLimit = 3

var (
	ErrPoolNotFound = errors.New("pool not found")
	ErrSwapRejected = errors.New("swap rejected")
)

type EventQueue interface {
	AttachEvent(ctx context.Context, e *cache.Event)
}

// PoolQueue serializes every state changing request of one pool.
type PoolQueue struct {
	poolId  string
	actions chan *poolRequest
}

type poolRequest struct {
	action  string
	input   float64
	dir     swap.Direction
	amountA float64
	amountB float64
	prices  swap.Prices
	reply   chan *poolReply
}

type poolReply struct {
	pool       *persistence.Pool
	validation *swap.Validation
	err        error
}

type Simulator struct {
	persist persistence.Persist
	events  EventQueue
	ctx     context.Context
	mutex   sync.Mutex
	pools   map[string]*PoolQueue
}

func NewSimulator(ctx context.Context, persist persistence.Persist, events EventQueue) *Simulator {
	return &Simulator{
		persist: persist,
		events:  events,
		ctx:     ctx,
		pools:   make(map[string]*PoolQueue),
	}
}

func (s *Simulator) CreatePool(ctx context.Context, base, quote string, kind swap.Kind, amountA, amountB float64, prices swap.Prices, cfg swap.Config) (*persistence.Pool, error) {
	if !config.VerifyPair(base, quote) {
		return nil, swap.ErrInvalidParams
	}
	p, err := swap.Initialize(kind, amountA, amountB, prices, cfg)
	if err != nil {
		return nil, err
	}
	pool := persistence.BuildPool(uuid.Must(uuid.NewV4()).String(), base, quote, p)
	action := persistence.BuildLiquidityAction(uuid.Must(uuid.NewV4()).String(), pool.PoolId, persistence.PoolActionCreate, amountA, amountB)
	err = s.persist.CreatePool(ctx, pool, action)
	if err != nil {
		return nil, err
	}
	poolsCreated.WithLabelValues(string(kind)).Inc()
	s.events.AttachEvent(ctx, &cache.Event{
		Type:     cache.EventPoolCreate,
		PoolId:   pool.PoolId,
		Formula:  pool.Formula,
		AmountA:  amountA,
		AmountB:  amountB,
		ReserveA: p.ReserveA,
		ReserveB: p.ReserveB,
	})
	return pool, nil
}

func (s *Simulator) ReadPool(ctx context.Context, poolId string) (*persistence.Pool, swap.Pool, error) {
	if _, err := uuid.FromString(poolId); err != nil {
		return nil, swap.Pool{}, ErrPoolNotFound
	}
	pool, err := s.persist.ReadPool(ctx, poolId)
	if err != nil {
		return nil, swap.Pool{}, err
	}
	if pool == nil {
		return nil, swap.Pool{}, ErrPoolNotFound
	}
	p, err := pool.Swap()
	return pool, p, err
}

func (s *Simulator) Quote(ctx context.Context, poolId string, in float64, dir swap.Direction, prices swap.Prices) (*swap.Result, error) {
	_, p, err := s.ReadPool(ctx, poolId)
	if err != nil {
		return nil, err
	}
	return swap.Quote(p.Formula, in, dir, p, prices)
}

func (s *Simulator) Validate(ctx context.Context, poolId string, in float64, dir swap.Direction, prices swap.Prices) (*swap.Validation, error) {
	_, p, err := s.ReadPool(ctx, poolId)
	if err != nil {
		return nil, err
	}
	if _, err := swap.Quote(p.Formula, in, dir, p, prices); err != nil {
		return nil, err
	}
	return swap.Validate(p.Formula, in, dir, p, prices), nil
}

type PoolPricing struct {
	Implied   swap.Prices    `json:"implied"`
	Deviation *swap.Prices   `json:"deviation,omitempty"`
	Valuation swap.Valuation `json:"valuation"`
}

func (s *Simulator) Pricing(ctx context.Context, poolId string, prices swap.Prices) (*PoolPricing, error) {
	_, p, err := s.ReadPool(ctx, poolId)
	if err != nil {
		return nil, err
	}
	implied, err := swap.Pricing(p.Formula, p, prices)
	if err != nil {
		return nil, err
	}
	pricing := &PoolPricing{Implied: implied, Valuation: swap.USDValues(p, prices)}
	if deviation, err := swap.Deviation(p.Formula, p, prices); err == nil {
		pricing.Deviation = &deviation
	}
	return pricing, nil
}

// Swap validates and executes a swap through the pool queue. A rejected
// swap returns ErrSwapRejected along with the validation explaining it.
func (s *Simulator) Swap(ctx context.Context, poolId string, in float64, dir swap.Direction, prices swap.Prices) (*persistence.Pool, *swap.Validation, error) {
	reply, err := s.enqueue(ctx, poolId, &poolRequest{
		action: persistence.PoolActionSwap,
		input:  in,
		dir:    dir,
		prices: prices,
	})
	if err != nil {
		return nil, nil, err
	}
	return reply.pool, reply.validation, reply.err
}

func (s *Simulator) AddLiquidity(ctx context.Context, poolId string, amountA, amountB float64, prices swap.Prices) (*persistence.Pool, error) {
	reply, err := s.enqueue(ctx, poolId, &poolRequest{
		action:  persistence.PoolActionAdd,
		amountA: amountA,
		amountB: amountB,
		prices:  prices,
	})
	if err != nil {
		return nil, err
	}
	return reply.pool, reply.err
}

func (s *Simulator) enqueue(ctx context.Context, poolId string, req *poolRequest) (*poolReply, error) {
	if _, _, err := s.ReadPool(ctx, poolId); err != nil {
		return nil, err
	}
	req.reply = make(chan *poolReply, 1)
	pq := s.attachPool(poolId)
	select {
	case pq.actions <- req:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case reply := <-req.reply:
		return reply, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Simulator) attachPool(poolId string) *PoolQueue {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if pq, found := s.pools[poolId]; found {
		return pq
	}
	pq := &PoolQueue{
		poolId:  poolId,
		actions: make(chan *poolRequest, 1024),
	}
	s.pools[poolId] = pq
	go s.LoopPoolQueue(s.ctx, pq)
	return pq
}

func (s *Simulator) LoopPoolQueue(ctx context.Context, pq *PoolQueue) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-pq.actions:
			req.reply <- s.processPoolRequest(ctx, pq.poolId, req)
		}
	}
}

// processPoolRequest recomputes from a fresh read whenever another process
// committed to the pool in between.
func (s *Simulator) processPoolRequest(ctx context.Context, poolId string, req *poolRequest) *poolReply {
	for i := 0; ; i++ {
		reply := s.applyPoolRequest(ctx, poolId, req)
		if reply.err != persistence.ErrStalePool || i >= staleRetryLimit {
			return reply
		}
		staleRetries.Inc()
		log.Println("processPoolRequest stale", poolId, i)
	}
}

func (s *Simulator) applyPoolRequest(ctx context.Context, poolId string, req *poolRequest) *poolReply {
	pool, p, err := s.ReadPool(ctx, poolId)
	if err != nil {
		return &poolReply{err: err}
	}
	kind := p.Formula

	var next swap.Pool
	var action *persistence.PoolAction
	var result *swap.Result
	event := &cache.Event{PoolId: poolId, Formula: pool.Formula}
	switch req.action {
	case persistence.PoolActionSwap:
		if _, err := swap.Quote(kind, req.input, req.dir, p, req.prices); err != nil {
			return &poolReply{err: err}
		}
		v := swap.Validate(kind, req.input, req.dir, p, req.prices)
		if !v.Valid {
			swapsTotal.WithLabelValues(string(kind), "rejected").Inc()
			return &poolReply{pool: pool, validation: v, err: ErrSwapRejected}
		}
		next, err = swap.Execute(kind, req.input, req.dir, p, req.prices)
		if err != nil {
			return &poolReply{err: err}
		}
		result = v.Result
		action = persistence.BuildSwapAction(uuid.Must(uuid.NewV4()).String(), poolId, req.dir, result)
		event.Type, event.Direction = cache.EventPoolSwap, string(req.dir)
		event.Output, event.Impact, event.PartialFill = result.Output, result.Impact, result.PartialFill
		if req.dir == swap.AtoB {
			event.AmountA = result.Applied
		} else {
			event.AmountB = result.Applied
		}
	case persistence.PoolActionAdd:
		next, err = swap.AddLiquidity(kind, req.amountA, req.amountB, p, req.prices)
		if err != nil {
			return &poolReply{err: err}
		}
		action = persistence.BuildLiquidityAction(uuid.Must(uuid.NewV4()).String(), poolId, persistence.PoolActionAdd, req.amountA, req.amountB)
		event.Type, event.AmountA, event.AmountB = cache.EventPoolAdd, req.amountA, req.amountB
	default:
		return &poolReply{err: swap.ErrInvalidParams}
	}

	pool.Apply(next)
	err = s.persist.UpdatePool(ctx, pool, action)
	if err != nil {
		return &poolReply{err: err}
	}

	switch req.action {
	case persistence.PoolActionSwap:
		outcome := "executed"
		if result.PartialFill {
			outcome = "partial"
		}
		swapsTotal.WithLabelValues(string(kind), outcome).Inc()
		swapImpact.WithLabelValues(string(kind)).Observe(result.Impact)
	case persistence.PoolActionAdd:
		liquidityAdds.WithLabelValues(string(kind)).Inc()
	}
	event.ReserveA, event.ReserveB = next.ReserveA, next.ReserveB
	s.events.AttachEvent(ctx, event)
	return &poolReply{pool: pool, validation: &swap.Validation{Valid: true, Result: result}}
}
