package ipf

// ProgressEvent is delivered to a Config's ProgressCallback every
// ReportingInterval iterations.
type ProgressEvent struct {
	Iteration int
	Error     float64
}

// Config tunes the IPF convergence loop.
type Config struct {
	// MaxIterations bounds the number of full cycles over the relation
	// set. Must be >= 1.
	MaxIterations int

	// Tolerance is the convergence error threshold below which the loop
	// stops early.
	Tolerance float64

	// RaiseOnNonConvergence, if true, makes Fit return a
	// *ConvergenceError instead of a Result when MaxIterations is
	// exhausted without reaching Tolerance.
	RaiseOnNonConvergence bool

	// ProgressCallback, if non-nil, is invoked every ReportingInterval
	// iterations (and always on the final iteration).
	ProgressCallback func(ProgressEvent)

	// ReportingInterval is the iteration stride between ProgressCallback
	// invocations. Values <= 0 disable periodic reporting (the callback
	// still fires once on the final iteration, if set).
	ReportingInterval int
}

// DefaultConfig returns reasonable defaults: 100 iterations, 1e-6
// tolerance, non-convergence is non-fatal.
func DefaultConfig() Config {
	return Config{
		MaxIterations:         100,
		Tolerance:             1e-6,
		RaiseOnNonConvergence: false,
		ReportingInterval:     10,
	}
}
