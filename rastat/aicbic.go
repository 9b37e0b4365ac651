package rastat

import "math"

// AIC = LR + 2·DF.
func AIC(lr float64, df int64) float64 {
	return lr + 2*float64(df)
}

// BIC = LR − ΔDF·ln(N). ΔDF (not DF) is used so that simpler models are
// rewarded relative to the saturated model.
func BIC(lr float64, deltaDF int64, n int64) float64 {
	return lr - float64(deltaDF)*math.Log(float64(n))
}
