package main

import (
	"context"
	"log"
	"time"

	"github.com/MixinNetwork/amm.one/cache"
	"github.com/MixinNetwork/amm.one/config"
	"github.com/MixinNetwork/amm.one/feed"
	"github.com/MixinNetwork/amm.one/persistence"
)

const refreshPoolsLimit = 500

type QuoteSource interface {
	Quotes(ctx context.Context, ids ...string) (map[string]*feed.Quote, error)
}

// QuoteRefresher keeps the redis quote cache warm for the popular tokens
// and every asset held by a pool.
type QuoteRefresher struct {
	persist  persistence.Persist
	source   QuoteSource
	interval time.Duration
}

func NewQuoteRefresher(persist persistence.Persist, source QuoteSource, interval time.Duration) *QuoteRefresher {
	return &QuoteRefresher{persist: persist, source: source, interval: interval}
}

func (qr *QuoteRefresher) Run(ctx context.Context) {
	for {
		err := qr.Refresh(ctx)
		if err != nil {
			quoteRefreshes.WithLabelValues("error").Inc()
			log.Println("QuoteRefresher ERROR", err)
		} else {
			quoteRefreshes.WithLabelValues("ok").Inc()
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(qr.interval):
		}
	}
}

func (qr *QuoteRefresher) Refresh(ctx context.Context) error {
	ids, err := qr.tokens(ctx)
	if err != nil {
		return err
	}
	quotes, err := qr.source.Quotes(ctx, ids...)
	if err != nil {
		return err
	}
	if len(quotes) < len(ids) {
		log.Println("QuoteRefresher missing", len(ids)-len(quotes), "of", len(ids))
	}
	err = cache.WriteQuotes(ctx, quotes)
	if err != nil {
		return err
	}
	return persistence.WriteTimeProperty(ctx, qr.persist, persistence.CheckpointQuoteRefresh, time.Now())
}

func (qr *QuoteRefresher) tokens(ctx context.Context) ([]string, error) {
	ids := config.PopularTokens()
	seen := make(map[string]bool)
	for _, id := range ids {
		seen[id] = true
	}
	pools, err := qr.persist.ListPools(ctx, refreshPoolsLimit)
	if err != nil {
		return nil, err
	}
	for _, p := range pools {
		for _, id := range []string{p.BaseAssetId, p.QuoteAssetId} {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// MarketQuotes resolves the quotes of a pair from the quote cache.
func MarketQuotes(ctx context.Context, base, quote string) (*feed.Quote, *feed.Quote, error) {
	quotes, err := cache.ReadQuotes(ctx, base, quote)
	if err != nil {
		return nil, nil, err
	}
	qa, qb := quotes[base], quotes[quote]
	if qa == nil || qb == nil {
		return nil, nil, feed.ErrTokenNotFound
	}
	return qa, qb, nil
}
