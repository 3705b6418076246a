package main

import (
	"context"
	"strings"

	"github.com/MixinNetwork/amm.one/swap"
	"github.com/emirpasic/gods/lists/arraylist"
)

type Comparison struct {
	Formula    swap.Kind
	Pool       swap.Pool
	Validation *swap.Validation
	Error      error
}

// Compare deposits the same amounts into a pool of every registered formula
// and quotes the same swap against each. Accepted swaps rank first by
// output, then by impact. Formulas refusing the deposit rank last.
func (s *Simulator) Compare(ctx context.Context, amountA, amountB float64, prices swap.Prices, cfg swap.Config, in float64, dir swap.Direction) ([]*Comparison, error) {
	list := arraylist.New()
	for _, kind := range swap.Kinds() {
		c := &Comparison{Formula: kind}
		p, err := swap.Initialize(kind, amountA, amountB, prices, cfg)
		if err != nil {
			c.Error = err
			list.Add(c)
			continue
		}
		c.Pool = p
		if _, err := swap.Quote(kind, in, dir, p, prices); err != nil {
			return nil, err
		}
		c.Validation = swap.Validate(kind, in, dir, p, prices)
		list.Add(c)
	}
	list.Sort(compareRank)

	comparisons := make([]*Comparison, 0, list.Size())
	for _, v := range list.Values() {
		comparisons = append(comparisons, v.(*Comparison))
	}
	return comparisons, nil
}

func compareRank(a, b interface{}) int {
	ca, cb := a.(*Comparison), b.(*Comparison)
	if ra, rb := ca.rank(), cb.rank(); ra != rb {
		return ra - rb
	}
	if ca.Validation == nil || cb.Validation == nil {
		return strings.Compare(string(ca.Formula), string(cb.Formula))
	}
	ra, rb := ca.Validation.Result, cb.Validation.Result
	switch {
	case ra.Output > rb.Output:
		return -1
	case ra.Output < rb.Output:
		return 1
	case ra.Impact < rb.Impact:
		return -1
	case ra.Impact > rb.Impact:
		return 1
	}
	return strings.Compare(string(ca.Formula), string(cb.Formula))
}

func (c *Comparison) rank() int {
	switch {
	case c.Error != nil:
		return 2
	case !c.Validation.Valid:
		return 1
	}
	return 0
}
