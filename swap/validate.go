package swap

const (
	searchIterations = 50
	searchCeiling    = 10
	searchMargin     = 0.95

	negativeReserves = "Insufficient liquidity - would result in negative reserves"
	depletedReserves = "Swap amount too large - insufficient liquidity"
	outOfRange       = "Swap amount out of numeric range"
)

type Validation struct {
	Valid    bool
	Result   *Result
	MaxInput float64
	Error    string
}

// Validate gates a swap before execution. A rejected swap carries the
// reason and the largest input the pool would accept instead.
func Validate(kind Kind, in float64, dir Direction, pool Pool, prices Prices) *Validation {
	f, err := prepare(kind, pool)
	if err != nil {
		return &Validation{Error: err.Error()}
	}
	r, err := Quote(kind, in, dir, pool, prices)
	if err != nil {
		return &Validation{Error: err.Error()}
	}
	if reason := reject(pool, dir, r); reason != "" {
		return &Validation{
			Result:   r,
			MaxInput: maxInput(f, pool, dir),
			Error:    reason,
		}
	}
	return &Validation{Valid: true, Result: r}
}

func reject(pool Pool, dir Direction, r *Result) string {
	if r.Error != "" {
		return r.Error
	}
	if !finite(r.Output) || !finite(r.NewReserveA) || !finite(r.NewReserveB) || !finite(r.Impact) {
		return outOfRange
	}
	if r.NewReserveA <= 0 || r.NewReserveB <= 0 {
		return negativeReserves
	}
	_, y := pool.reserves(dir)
	if r.Output > y*depletionLimit {
		return depletedReserves
	}
	return ""
}

func maxInput(f Formula, pool Pool, dir Direction) float64 {
	if solver, ok := f.(closedFormSolver); ok {
		return solver.MaxInput(pool, dir)
	}
	x, _ := pool.reserves(dir)
	best := Search(x*searchCeiling, searchIterations, func(in float64) bool {
		r := f.Swap(pool, in, dir)
		return r.Output > 0 && reject(pool, dir, r) == ""
	})
	return best * searchMargin
}

// Search bisects [0, high] for the largest value accepted by feasible,
// which must be monotonic: true up to some threshold and false beyond it.
// It returns 0 when no tested value is accepted.
func Search(high float64, iterations int, feasible func(float64) bool) float64 {
	low, best := 0.0, 0.0
	for i := 0; i < iterations; i++ {
		mid := (low + high) / 2
		if feasible(mid) {
			best, low = mid, mid
		} else {
			high = mid
		}
	}
	return best
}
