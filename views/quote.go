package views

import (
	"time"

	"github.com/MixinNetwork/amm.one/feed"
)

type TokenQuoteView struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	PriceUSD  string    `json:"price_usd"`
	Change24h *float64  `json:"change_24h"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PairQuoteView struct {
	Type         string          `json:"type"`
	BaseAssetId  string          `json:"base_asset_id"`
	QuoteAssetId string          `json:"quote_asset_id"`
	PriceA       string          `json:"price_a"`
	PriceB       string          `json:"price_b"`
	Ratio        string          `json:"ratio"`
	Base         *TokenQuoteView `json:"base"`
	Quote        *TokenQuoteView `json:"quote"`
}

func BuildPairQuoteView(base, quote *feed.Quote) *PairQuoteView {
	view := &PairQuoteView{
		Type:         "pair_quote",
		BaseAssetId:  base.Id,
		QuoteAssetId: quote.Id,
		PriceA:       Decimal(base.USD),
		PriceB:       Decimal(quote.USD),
		Ratio:        "0",
		Base:         buildTokenQuoteView(base),
		Quote:        buildTokenQuoteView(quote),
	}
	if quote.USD > 0 {
		view.Ratio = Decimal(base.USD / quote.USD)
	}
	return view
}

func buildTokenQuoteView(q *feed.Quote) *TokenQuoteView {
	return &TokenQuoteView{
		Id:        q.Id,
		Name:      q.Name,
		PriceUSD:  Decimal(q.USD),
		Change24h: Finite(q.Change24h),
		UpdatedAt: q.UpdatedAt,
	}
}
