package ipf

import (
	"errors"
	"fmt"
)

// ErrNoRelations is returned when Fit is called with an empty relation set.
var ErrNoRelations = errors.New("ipf: no relations to fit against")

// ConvergenceError reports that IPF did not converge within MaxIterations
// and the caller requested RaiseOnNonConvergence.
type ConvergenceError struct {
	Iterations int
	Tolerance  float64
	FinalError float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("ipf: did not converge after %d iterations (tolerance %g, final error %g)",
		e.Iterations, e.Tolerance, e.FinalError)
}
