package optimizer

// Default search-space ceilings.
const (
	DefaultSoftLimit = 1e8
	DefaultHardLimit = 8e8
)

// Guard bounds the estimated search space before enumeration starts.
type Guard struct {
	// Soft is the estimate above which the run proceeds with a warning.
	Soft float64
	// Hard is the estimate above which the run is refused.
	Hard float64
}

// DefaultGuard returns the stock ceilings.
func DefaultGuard() Guard {
	return Guard{Soft: DefaultSoftLimit, Hard: DefaultHardLimit}
}

// Check returns an *OverflowError above the hard ceiling and warn=true
// above the soft one. Non-positive limits disable the respective check.
func (g Guard) Check(estimate float64) (warn bool, err error) {
	if g.Hard > 0 && estimate > g.Hard {
		return false, &OverflowError{Estimated: estimate, Limit: g.Hard}
	}
	return g.Soft > 0 && estimate > g.Soft, nil
}
