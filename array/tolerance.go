package array

// Tolerance holds the number of significant digits used by the almost-equal
// comparisons of an array.
type Tolerance struct {
	// Loose is used by the fuzzy searches (BinaryFindFirstGAE, BinaryFindLastLAE)
	// and RemoveDuplicatesAE.
	Loose int
	// Strict is used where values must match to nearly full double precision,
	// e.g. SwitchFromTo and ApplyConstraint on Double arrays.
	Strict int
}

// DefaultTolerance is the tolerance of arrays created without WithTolerance.
var DefaultTolerance = Tolerance{Loose: 5, Strict: 9}

// Option configures an array at construction.
type Option func(o *options)

type options struct {
	tolerance Tolerance
}

// WithTolerance sets the almost-equal tolerance. Non-positive digit counts keep the
// default.
func WithTolerance(t Tolerance) Option {
	return func(o *options) {
		if t.Loose > 0 {
			o.tolerance.Loose = t.Loose
		}
		if t.Strict > 0 {
			o.tolerance.Strict = t.Strict
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{tolerance: DefaultTolerance}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
