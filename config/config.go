package config

import "time"

const (
	BuildVersion = "BUILD_VERSION"
	Environment  = "development"

	HTTPListenPort     = 7000
	HTTPLogRequestBody = false

	GoogleCloudProject = "amm-one"
	GoogleCloudSpanner = "projects/amm-one/instances/amm-one/databases/simulator"

	RedisCacheAddress        = "127.0.0.1:6379"
	RedisCacheDatabase       = 0
	RedisRateLimiterAddress  = "127.0.0.1:6379"
	RedisRateLimiterDatabase = 1

	BugsnagAPIKey = ""

	CoinGeckoEndpoint    = "https://api.coingecko.com/api/v3"
	QuoteRefreshInterval = 30 * time.Second
	QuoteExpiration      = 10 * time.Minute
	QuoteRequestTimeout  = 10 * time.Second
)
