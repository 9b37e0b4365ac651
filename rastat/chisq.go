package rastat

import (
	"math"

	"github.com/katalvlaran/reconstruct/table"
	"gonum.org/v1/gonum/stat/distuv"
)

// LR computes the likelihood-ratio statistic of a candidate model against
// the saturated model: LR = 2·N·ln(2)·(H_model − H_saturated).
func LR(hModel, hSaturated float64, n int64) float64 {
	return 2 * float64(n) * math.Ln2 * (hModel - hSaturated)
}

// PearsonChiSquared computes Σ(O−E)²/E over the union of cells present in
// observed and expected, both assumed Sort+Merge-d. A cell present in one
// table but not the other contributes as though its missing side were 0,
// with E floored at ProbMin to stay zero-safe.
func PearsonChiSquared(observed, expected *table.ContingencyTable) float64 {
	ot, et := observed.Tuples(), expected.Tuples()
	var chi2 float64
	i, j := 0, 0
	for i < len(ot) || j < len(et) {
		switch {
		case j >= len(et) || (i < len(ot) && ot[i].Key.Compare(et[j].Key) < 0):
			o := ot[i].Value
			chi2 += o * o / ProbMin
			i++
		case i >= len(ot) || ot[i].Key.Compare(et[j].Key) > 0:
			e := et[j].Value
			chi2 += e
			j++
		default:
			o, e := ot[i].Value, et[j].Value
			diff := o - e
			chi2 += diff * diff / math.Max(e, ProbMin)
			i++
			j++
		}
	}
	return chi2
}

// PValue returns the chi-squared survival probability P(X >= lr) with df
// degrees of freedom, 1.0 if df <= 0.
func PValue(lr float64, df int64) float64 {
	if df <= 0 {
		return 1.0
	}
	dist := distuv.ChiSquared{K: float64(df)}
	return 1 - dist.CDF(lr)
}

// Power computes statistical power (β) via a Patnaik two-moment
// approximation of the non-central chi-squared distribution: the
// noncentral chi2(df, ncp=lr) is approximated by a scaled central
// chi2(h) with h = (df+ncp)²/(df+2·ncp) and scale c = (df+2·ncp)/(df+ncp).
// Power is evaluated at significance alpha against the central critical
// value for df.
func Power(lr float64, df int64, alpha float64) float64 {
	if df <= 0 {
		return 1.0
	}
	dfF := float64(df)
	central := distuv.ChiSquared{K: dfF}
	critical := central.Quantile(1 - alpha)
	return 1 - noncentralChiSquaredCDF(critical, dfF, lr)
}

// noncentralChiSquaredCDF approximates P(X <= x) for X ~ noncentral
// chi-squared(df, ncp) via Patnaik's two-moment central chi-squared
// approximation. This is an approximation, not an exact inversion — gonum
// has no native non-central chi-squared distribution.
func noncentralChiSquaredCDF(x, df, ncp float64) float64 {
	if ncp <= 0 {
		return distuv.ChiSquared{K: df}.CDF(x)
	}
	h := (df + ncp) * (df + ncp) / (df + 2*ncp)
	c := (df + 2*ncp) / (df + ncp)
	return distuv.ChiSquared{K: h}.CDF(x / c)
}
