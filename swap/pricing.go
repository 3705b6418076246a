package swap

// Pricing returns the USD price of each asset implied by the pool, given
// the market prices of the opposite side.
func Pricing(kind Kind, pool Pool, prices Prices) (Prices, error) {
	f, err := prepare(kind, pool)
	if err != nil {
		return Prices{}, err
	}
	return f.Price(pool, prices), nil
}

// Deviation is the percentage difference between pool implied and market
// prices, positive when the pool prices an asset above the market.
func Deviation(kind Kind, pool Pool, market Prices) (Prices, error) {
	implied, err := Pricing(kind, pool, market)
	if err != nil {
		return Prices{}, err
	}
	if !positive(market.A) || !positive(market.B) {
		return Prices{}, ErrNumericDomain
	}
	return Prices{
		A: (implied.A - market.A) / market.A * 100,
		B: (implied.B - market.B) / market.B * 100,
	}, nil
}
