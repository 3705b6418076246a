package swap

const (
	epsilon = 1e-9

	// the validator refuses any swap taking more than this share of the
	// opposite reserve
	depletionLimit = 0.99
)

type Kind string

const (
	CPMM         Kind = "cpmm"
	ConstantSum  Kind = "constant_sum"
	ConstantMean Kind = "constant_mean"
	CurveStable  Kind = "curve_stable"
	Concentrated Kind = "concentrated"
)

type Direction string

const (
	AtoB Direction = "AtoB"
	BtoA Direction = "BtoA"
)

func (d Direction) valid() bool {
	return d == AtoB || d == BtoA
}

type Prices struct {
	A float64 `json:"price_a"`
	B float64 `json:"price_b"`
}

type Config struct {
	WeightA  float64 `json:"weight_a,omitempty"`
	WeightB  float64 `json:"weight_b,omitempty"`
	MinPrice float64 `json:"min_price,omitempty"`
	MaxPrice float64 `json:"max_price,omitempty"`
}

type Info struct {
	Kind        Kind   `json:"kind"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Formula     string `json:"formula"`
	BestFor     string `json:"best_for"`
	Slippage    string `json:"slippage"`
}

// Formula is the per-curve strategy the package level operations dispatch to.
// Implementations receive pools whose invariant already matches their kind.
type Formula interface {
	Init(amountA, amountB float64, prices Prices, cfg Config) (Invariant, error)
	Swap(pool Pool, in float64, dir Direction) *Result
	Settle(pool Pool, reserveA, reserveB float64) Invariant
	Price(pool Pool, prices Prices) Prices
}

// closedFormSolver is implemented by formulas able to solve the maximum
// accepted input directly instead of searching for it.
type closedFormSolver interface {
	MaxInput(pool Pool, dir Direction) float64
}

type registration struct {
	formula Formula
	info    *Info
}

var (
	formulas = make(map[Kind]*registration)
	kinds    []Kind
)

func init() {
	Register(&Info{
		Kind:        CPMM,
		Name:        "Constant Product (CPMM)",
		Description: "x * y = k - Used by Uniswap V2",
		Formula:     "x × y = k",
		BestFor:     "General trading pairs",
		Slippage:    "Higher for large trades",
	}, &ConstantProductFormula{})
	Register(&Info{
		Kind:        ConstantSum,
		Name:        "Constant Sum",
		Description: "x + y = k - Linear pricing",
		Formula:     "x + y = k",
		BestFor:     "Perfectly correlated assets",
		Slippage:    "Zero until one token depletes",
	}, &ConstantSumFormula{})
	Register(&Info{
		Kind:        ConstantMean,
		Name:        "Constant Mean (Balancer)",
		Description: "Weighted geometric mean",
		Formula:     "x^w1 × y^w2 = k",
		BestFor:     "Multi-token pools with weights",
		Slippage:    "Varies by weights",
	}, &ConstantMeanFormula{})
	Register(&Info{
		Kind:        CurveStable,
		Name:        "Curve StableSwap",
		Description: "Hybrid sum + product for stables",
		Formula:     "Complex hybrid formula",
		BestFor:     "Stablecoins and pegged assets",
		Slippage:    "Very low for similar prices",
	}, &StableSwapFormula{})
	Register(&Info{
		Kind:        Concentrated,
		Name:        "Concentrated Liquidity",
		Description: "CPMM within price ranges",
		Formula:     "x × y = k (in ranges)",
		BestFor:     "Capital efficient trading",
		Slippage:    "Lower with concentrated ranges",
	}, &ConcentratedFormula{})
}

// Register binds a formula to its kind. Registering a kind twice replaces
// the previous formula but keeps its position in Kinds.
func Register(info *Info, f Formula) {
	if _, found := formulas[info.Kind]; !found {
		kinds = append(kinds, info.Kind)
	}
	formulas[info.Kind] = &registration{formula: f, info: info}
}

func Kinds() []Kind {
	return append([]Kind{}, kinds...)
}

func Describe(kind Kind) (*Info, error) {
	r, found := formulas[kind]
	if !found {
		return nil, ErrUnsupportedFormula
	}
	info := *r.info
	return &info, nil
}

func lookup(kind Kind) (Formula, error) {
	r, found := formulas[kind]
	if !found {
		return nil, ErrUnsupportedFormula
	}
	return r.formula, nil
}
