package config

import (
	"regexp"
	"strings"
)

type Pair struct {
	Base  string `json:"base"`
	Quote string `json:"quote"`
	Label string `json:"label"`
}

var PopularPairs = []Pair{
	{"bitcoin", "ethereum", "BTC/ETH"},
	{"ethereum", "cardano", "ETH/ADA"},
	{"bitcoin", "solana", "BTC/SOL"},
	{"ethereum", "polygon", "ETH/MATIC"},
	{"cardano", "solana", "ADA/SOL"},
	{"bitcoin", "chainlink", "BTC/LINK"},
	{"ethereum", "avalanche-2", "ETH/AVAX"},
	{"solana", "polygon", "SOL/MATIC"},
	{"cardano", "chainlink", "ADA/LINK"},
	{"bitcoin", "polkadot", "BTC/DOT"},
	{"ethereum", "uniswap", "ETH/UNI"},
	{"solana", "avalanche-2", "SOL/AVAX"},
	{"litecoin", "bitcoin", "LTC/BTC"},
	{"dogecoin", "ethereum", "DOGE/ETH"},
	{"tron", "solana", "TRX/SOL"},
	{"stellar", "ripple", "XLM/XRP"},
	{"near", "ethereum", "NEAR/ETH"},
	{"aptos", "bitcoin", "APT/BTC"},
	{"optimism", "ethereum", "OP/ETH"},
	{"arbitrum", "ethereum", "ARB/ETH"},
	{"maker", "uniswap", "MKR/UNI"},
	{"injective-protocol", "avalanche-2", "INJ/AVAX"},
	{"vechain", "polygon", "VET/MATIC"},
	{"algorand", "cardano", "ALGO/ADA"},
	{"theta-token", "bitcoin", "THETA/BTC"},
	{"the-graph", "ethereum", "GRT/ETH"},
	{"tezos", "solana", "XTZ/SOL"},
}

var tokenIdPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

// PopularTokens lists every token of PopularPairs once, in first seen order.
func PopularTokens() []string {
	seen := make(map[string]bool)
	var tokens []string
	for _, p := range PopularPairs {
		for _, id := range []string{p.Base, p.Quote} {
			if !seen[id] {
				seen[id] = true
				tokens = append(tokens, id)
			}
		}
	}
	return tokens
}

func VerifyTokenId(id string) bool {
	return tokenIdPattern.MatchString(id)
}

func VerifyPair(base, quote string) bool {
	if base == quote {
		return false
	}
	return VerifyTokenId(base) && VerifyTokenId(quote)
}

func TokenName(id string) string {
	if id == "" {
		return id
	}
	return strings.ToUpper(id[:1]) + id[1:]
}
