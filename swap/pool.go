package swap

import (
	"math"
)

// Pool is an immutable snapshot of a two asset pool. Every operation of this
// package returns a new Pool and leaves its argument untouched, so callers
// sharing one logical pool must serialize their read-modify-write cycles.
type Pool struct {
	Formula   Kind
	ReserveA  float64
	ReserveB  float64
	Invariant Invariant
}

// Invariant holds the formula specific constant and parameters of a pool.
// The concrete type always matches Pool.Formula.
type Invariant interface {
	Holds(reserveA, reserveB float64) bool
	kind() Kind
	finite() bool
}

type Product struct {
	K float64
}

type Sum struct {
	Sum    float64
	PriceA float64
	PriceB float64
}

type Mean struct {
	WeightA float64
	WeightB float64
	Mean    float64
}

type Stable struct {
	Amplification float64
	PriceA        float64
	PriceB        float64
}

type Range struct {
	K            float64
	MinPrice     float64
	MaxPrice     float64
	CurrentPrice float64
	Active       bool
}

func (Product) kind() Kind { return CPMM }
func (Sum) kind() Kind     { return ConstantSum }
func (Mean) kind() Kind    { return ConstantMean }
func (Stable) kind() Kind  { return CurveStable }
func (Range) kind() Kind   { return Concentrated }

func (inv Product) finite() bool { return positive(inv.K) }
func (inv Sum) finite() bool     { return positive(inv.Sum) }
func (inv Mean) finite() bool    { return positive(inv.Mean) }
func (inv Stable) finite() bool  { return positive(inv.Amplification) }
func (inv Range) finite() bool   { return positive(inv.K) && positive(inv.CurrentPrice) }

func (inv Product) Holds(a, b float64) bool {
	return approx(a*b, inv.K)
}

func (inv Sum) Holds(a, b float64) bool {
	return approx(a*inv.PriceA+b*inv.PriceB, inv.Sum)
}

func (inv Mean) Holds(a, b float64) bool {
	return approx(math.Pow(a, inv.WeightA)*math.Pow(b, inv.WeightB), inv.Mean)
}

// Holds is always true, the simplified stable curve keeps no constant.
func (inv Stable) Holds(a, b float64) bool {
	return true
}

func (inv Range) Holds(a, b float64) bool {
	if !approx(a*b, inv.K) || !approx(a/b, inv.CurrentPrice) {
		return false
	}
	return inv.Active == inRange(inv.CurrentPrice, inv.MinPrice, inv.MaxPrice)
}

type Result struct {
	Output      float64
	Impact      float64
	NewReserveA float64
	NewReserveB float64
	Applied     float64
	PartialFill bool
	Error       string
}

type Valuation struct {
	ReserveAUSD       float64 `json:"reserve_a_usd"`
	ReserveBUSD       float64 `json:"reserve_b_usd"`
	TotalLiquidityUSD float64 `json:"total_liquidity_usd"`
}

func Initialize(kind Kind, amountA, amountB float64, prices Prices, cfg Config) (Pool, error) {
	f, err := lookup(kind)
	if err != nil {
		return Pool{}, err
	}
	if !positive(amountA) || !positive(amountB) {
		return Pool{}, ErrInvalidParams
	}
	inv, err := f.Init(amountA, amountB, prices, cfg)
	if err != nil {
		return Pool{}, err
	}
	pool := Pool{Formula: kind, ReserveA: amountA, ReserveB: amountB, Invariant: inv}
	if !pool.representable() {
		return Pool{}, ErrNumericDomain
	}
	return pool, nil
}

// Quote computes the outcome of swapping in through the pool without
// changing it. The curves quote from their own state, prices are accepted
// so every operation of the engine shares one calling convention.
func Quote(kind Kind, in float64, dir Direction, pool Pool, prices Prices) (*Result, error) {
	f, err := prepare(kind, pool)
	if err != nil {
		return nil, err
	}
	if !positive(in) || !dir.valid() {
		return nil, ErrInvalidParams
	}
	return f.Swap(pool, in, dir), nil
}

func Execute(kind Kind, in float64, dir Direction, pool Pool, prices Prices) (Pool, error) {
	f, err := prepare(kind, pool)
	if err != nil {
		return Pool{}, err
	}
	r, err := Quote(kind, in, dir, pool, prices)
	if err != nil {
		return Pool{}, err
	}
	if r.Error != "" || r.NewReserveA <= 0 || r.NewReserveB <= 0 {
		return Pool{}, ErrInsufficientLiquidity
	}
	next := pool.settle(f, r.NewReserveA, r.NewReserveB)
	if !next.representable() || !finite(r.Output) {
		return Pool{}, ErrNumericDomain
	}
	return next, nil
}

// AddLiquidity deposits both amounts as given, no ratio is enforced.
func AddLiquidity(kind Kind, addA, addB float64, pool Pool, prices Prices) (Pool, error) {
	f, err := prepare(kind, pool)
	if err != nil {
		return Pool{}, err
	}
	if !nonNegative(addA) || !nonNegative(addB) {
		return Pool{}, ErrInvalidParams
	}
	if addA == 0 && addB == 0 {
		return Pool{}, ErrLiquidityEmpty
	}
	next := pool.settle(f, pool.ReserveA+addA, pool.ReserveB+addB)
	if !next.representable() {
		return Pool{}, ErrNumericDomain
	}
	return next, nil
}

func USDValues(pool Pool, prices Prices) Valuation {
	a := pool.ReserveA * prices.A
	b := pool.ReserveB * prices.B
	return Valuation{ReserveAUSD: a, ReserveBUSD: b, TotalLiquidityUSD: a + b}
}

func (p Pool) settle(f Formula, reserveA, reserveB float64) Pool {
	return Pool{
		Formula:   p.Formula,
		ReserveA:  reserveA,
		ReserveB:  reserveB,
		Invariant: f.Settle(p, reserveA, reserveB),
	}
}

// representable reports whether the reserves, their sum and the invariant
// constant are all positive finite floats.
func (p Pool) representable() bool {
	if !positive(p.ReserveA) || !positive(p.ReserveB) || !positive(p.ReserveA+p.ReserveB) {
		return false
	}
	return p.Invariant != nil && p.Invariant.finite()
}

// reserves orders the pool reserves as input and output side of dir.
func (p Pool) reserves(dir Direction) (float64, float64) {
	if dir == AtoB {
		return p.ReserveA, p.ReserveB
	}
	return p.ReserveB, p.ReserveA
}

func prepare(kind Kind, pool Pool) (Formula, error) {
	f, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	if pool.Formula != kind || pool.Invariant == nil || pool.Invariant.kind() != kind {
		return nil, ErrFormulaMismatch
	}
	if !pool.representable() {
		return nil, ErrNumericDomain
	}
	return f, nil
}

// result builds a swap result from the reserves on the input and output
// side, restoring the A/B orientation.
func result(dir Direction, applied, newIn, newOut, output, impact float64) *Result {
	r := &Result{Output: output, Impact: impact, Applied: applied}
	if dir == AtoB {
		r.NewReserveA, r.NewReserveB = newIn, newOut
	} else {
		r.NewReserveA, r.NewReserveB = newOut, newIn
	}
	return r
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

func nonNegative(v float64) bool {
	return v == 0 || positive(v)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) <= epsilon*math.Max(math.Abs(a), math.Abs(b))
}

func inRange(price, lower, upper float64) bool {
	return price >= lower*(1-epsilon) && price <= upper*(1+epsilon)
}
