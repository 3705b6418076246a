package main

import (
	"context"
	"flag"
	"log"

	"github.com/MixinNetwork/amm.one/cache"
	"github.com/MixinNetwork/amm.one/config"
	"github.com/MixinNetwork/amm.one/durable"
	"github.com/MixinNetwork/amm.one/feed"
	"github.com/MixinNetwork/amm.one/persistence"
)

func init() {
	setupBugsnag()
}

func main() {
	service := flag.String("service", "http", "run a service, http or feed")
	store := flag.String("store", "spanner", "pool store, spanner or memory")
	port := flag.Int("port", config.HTTPListenPort, "http listen port")
	flag.Parse()

	ctx := context.Background()
	redisClient, err := durable.OpenRedisClient(config.RedisCacheAddress, config.RedisCacheDatabase)
	if err != nil {
		log.Panicln(err)
	}
	ctx = cache.SetupRedis(ctx, redisClient)

	var persist persistence.Persist
	switch *store {
	case "spanner":
		client, err := durable.OpenSpannerClient(ctx, config.GoogleCloudSpanner)
		if err != nil {
			log.Panicln(err)
		}
		defer client.Close()
		persist = persistence.CreateSpanner(client)
	case "memory":
		persist = persistence.CreateMemory()
	default:
		log.Panicln("unknown store", *store)
	}

	refresher := NewQuoteRefresher(persist, feed.NewClient(config.CoinGeckoEndpoint, config.QuoteRequestTimeout), config.QuoteRefreshInterval)
	switch *service {
	case "feed":
		refresher.Run(ctx)
	case "http":
		// pools of the memory store are invisible to a separate feed process
		if *store == "memory" {
			go refresher.Run(ctx)
		}
		limiterClient, err := durable.OpenRedisClient(config.RedisRateLimiterAddress, config.RedisRateLimiterDatabase)
		if err != nil {
			log.Panicln(err)
		}
		queue := cache.NewQueue(ctx)
		go queue.Loop(ctx)
		sim := NewSimulator(ctx, persist, queue)
		err = StartHTTP(ctx, sim, persist, durable.NewLimiter(limiterClient), *port)
		if err != nil {
			log.Println(err)
		}
	default:
		log.Panicln("unknown service", *service)
	}
}
