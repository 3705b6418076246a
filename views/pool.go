package views

import (
	"math"
	"time"

	"github.com/MixinNetwork/amm.one/persistence"
	"github.com/MixinNetwork/amm.one/swap"
	"github.com/MixinNetwork/go-number"
)

type PoolView struct {
	Type          string          `json:"type"`
	PoolId        string          `json:"pool_id"`
	BaseAssetId   string          `json:"base_asset_id"`
	QuoteAssetId  string          `json:"quote_asset_id"`
	Formula       string          `json:"formula"`
	ReserveA      string          `json:"reserve_a"`
	ReserveB      string          `json:"reserve_b"`
	Constant      string          `json:"constant"`
	WeightA       string          `json:"weight_a,omitempty"`
	WeightB       string          `json:"weight_b,omitempty"`
	PriceA        string          `json:"price_a,omitempty"`
	PriceB        string          `json:"price_b,omitempty"`
	MinPrice      string          `json:"min_price,omitempty"`
	MaxPrice      string          `json:"max_price,omitempty"`
	CurrentPrice  string          `json:"current_price,omitempty"`
	IsActive      bool            `json:"is_active"`
	Amplification string          `json:"amplification,omitempty"`
	Version       int64           `json:"version"`
	Valuation     *swap.Valuation `json:"valuation,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ResultView struct {
	Type        string   `json:"type"`
	Output      string   `json:"output"`
	Impact      *float64 `json:"impact"`
	NewReserveA string   `json:"new_reserve_a"`
	NewReserveB string   `json:"new_reserve_b"`
	Applied     string   `json:"applied"`
	PartialFill bool     `json:"partial_fill"`
	Error       string   `json:"error,omitempty"`
}

type ValidationView struct {
	Type     string      `json:"type"`
	Valid    bool        `json:"valid"`
	Result   *ResultView `json:"result,omitempty"`
	MaxInput string      `json:"max_input"`
	Error    string      `json:"error,omitempty"`
}

type ActionView struct {
	Type        string    `json:"type"`
	ActionId    string    `json:"action_id"`
	PoolId      string    `json:"pool_id"`
	Action      string    `json:"action"`
	Direction   string    `json:"direction,omitempty"`
	AmountA     string    `json:"amount_a"`
	AmountB     string    `json:"amount_b"`
	Output      string    `json:"output"`
	Impact      string    `json:"impact"`
	PartialFill bool      `json:"partial_fill"`
	CreatedAt   time.Time `json:"created_at"`
}

func BuildPoolView(p *persistence.Pool, valuation *swap.Valuation) *PoolView {
	view := &PoolView{
		Type:         "pool",
		PoolId:       p.PoolId,
		BaseAssetId:  p.BaseAssetId,
		QuoteAssetId: p.QuoteAssetId,
		Formula:      p.Formula,
		ReserveA:     p.ReserveA,
		ReserveB:     p.ReserveB,
		Constant:     p.Constant,
		IsActive:     p.IsActive,
		Version:      p.Version,
		Valuation:    valuation,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	switch swap.Kind(p.Formula) {
	case swap.ConstantSum:
		view.PriceA, view.PriceB = p.PriceA, p.PriceB
	case swap.ConstantMean:
		view.WeightA, view.WeightB = p.WeightA, p.WeightB
	case swap.CurveStable:
		view.PriceA, view.PriceB = p.PriceA, p.PriceB
		view.Amplification = p.Amplification
	case swap.Concentrated:
		view.MinPrice, view.MaxPrice = p.MinPrice, p.MaxPrice
		view.CurrentPrice = p.CurrentPrice
	}
	return view
}

func BuildResultView(r *swap.Result) *ResultView {
	if r == nil {
		return nil
	}
	return &ResultView{
		Type:        "swap_result",
		Output:      Decimal(r.Output),
		Impact:      Finite(r.Impact),
		NewReserveA: Decimal(r.NewReserveA),
		NewReserveB: Decimal(r.NewReserveB),
		Applied:     Decimal(r.Applied),
		PartialFill: r.PartialFill,
		Error:       r.Error,
	}
}

func BuildValidationView(v *swap.Validation) *ValidationView {
	return &ValidationView{
		Type:     "swap_validation",
		Valid:    v.Valid,
		Result:   BuildResultView(v.Result),
		MaxInput: Decimal(v.MaxInput),
		Error:    v.Error,
	}
}

func BuildActionView(a *persistence.PoolAction) *ActionView {
	return &ActionView{
		Type:        "pool_action",
		ActionId:    a.ActionId,
		PoolId:      a.PoolId,
		Action:      a.Action,
		Direction:   a.Direction,
		AmountA:     a.AmountA,
		AmountB:     a.AmountB,
		Output:      a.Output,
		Impact:      a.Impact,
		PartialFill: a.PartialFill,
		CreatedAt:   a.CreatedAt,
	}
}

// Finite maps infinite or undefined values to nil, which renders as null.
func Finite(f float64) *float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	return &f
}

func Decimal(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "0"
	}
	return number.FromFloat(f).Persist()
}
