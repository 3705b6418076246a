package main

import (
	"context"
	"testing"

	"github.com/MixinNetwork/amm.one/config"
	"github.com/MixinNetwork/amm.one/feed"
	"github.com/MixinNetwork/amm.one/persistence"
	"github.com/MixinNetwork/amm.one/swap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSource struct {
	ids []string
}

func (s *testSource) Quotes(ctx context.Context, ids ...string) (map[string]*feed.Quote, error) {
	s.ids = ids
	quotes := make(map[string]*feed.Quote)
	for _, id := range ids {
		quotes[id] = &feed.Quote{Id: id, USD: 1}
	}
	return quotes, nil
}

func TestQuoteRefresherTokens(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx, sim, persist, _ := setupSimulator(t)

	_, err := sim.CreatePool(ctx, "ethereum", "my-token", swap.CPMM, 10, 10, swap.Prices{}, swap.Config{})
	require.Nil(err)

	source := &testSource{}
	qr := NewQuoteRefresher(persist, source, 0)
	ids, err := qr.tokens(ctx)
	require.Nil(err)
	assert.Len(ids, len(config.PopularTokens())+1)
	assert.Equal("my-token", ids[len(ids)-1])

	err = qr.Refresh(ctx)
	assert.NotNil(err)
	assert.Len(source.ids, len(ids))
	checkpoint, err := persistence.ReadPropertyAsTime(ctx, persist, persistence.CheckpointQuoteRefresh)
	assert.Nil(err)
	assert.True(checkpoint.IsZero())
}
