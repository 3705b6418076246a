package cache

import (
	"context"
	"errors"

	"github.com/MixinNetwork/amm.one/config"
	"github.com/MixinNetwork/amm.one/feed"
	"github.com/go-redis/redis"
	"github.com/ugorji/go/codec"
)

var errNoRedis = errors.New("redis client not configured")

func WriteQuotes(ctx context.Context, quotes map[string]*feed.Quote) error {
	client := Redis(ctx)
	if client == nil {
		return errNoRedis
	}
	_, err := client.Pipelined(func(pipe redis.Pipeliner) error {
		for id, q := range quotes {
			var out []byte
			err := codec.NewEncoderBytes(&out, new(codec.MsgpackHandle)).Encode(q)
			if err != nil {
				return err
			}
			pipe.Set(quoteKey(id), out, config.QuoteExpiration)
		}
		return nil
	})
	return err
}

// ReadQuotes returns the cached quotes of ids, expired or never fetched ids
// are missing from the result.
func ReadQuotes(ctx context.Context, ids ...string) (map[string]*feed.Quote, error) {
	client := Redis(ctx)
	if client == nil {
		return nil, errNoRedis
	}
	quotes := make(map[string]*feed.Quote)
	if len(ids) == 0 {
		return quotes, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = quoteKey(id)
	}
	values, err := client.MGet(keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range values {
		data, ok := v.(string)
		if !ok {
			continue
		}
		var q feed.Quote
		err := codec.NewDecoderBytes([]byte(data), new(codec.MsgpackHandle)).Decode(&q)
		if err != nil {
			return nil, err
		}
		quotes[ids[i]] = &q
	}
	return quotes, nil
}
