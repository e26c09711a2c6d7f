package clock

type (
	// Option configures a [Cache] during construction.
	Option func(*settings) error
	settings struct {
		referenceLimit int
	}
)

// Unbounded is the reference limit that lets access counts
// grow without bound. It is the default.
//
// Every hit adds a reference and every sweep pass consumes one,
// so a heavily used key survives proportionally more sweeps.
// The cost is that an eviction may take several passes
// over the buffer when access counts are skewed.
const Unbounded = 0

// WithReferenceLimit clamps each entry's access count to limit.
// A limit of 1 gives textbook (single bit) CLOCK, where a sweep
// never makes more than one full pass before finding a victim.
// [Unbounded] restores the default.
func WithReferenceLimit(limit int) Option {
	return func(s *settings) error {
		if limit < Unbounded {
			return referenceLimitError(limit)
		}
		s.referenceLimit = limit
		return nil
	}
}

func applyOptions(options []Option) (settings, error) {
	var s settings
	for _, apply := range options {
		if err := apply(&s); err != nil {
			return s, err
		}
	}
	return s, nil
}
