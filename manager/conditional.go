package manager

import (
	"github.com/katalvlaran/reconstruct/rakey"
	"github.com/katalvlaran/reconstruct/relation"
	"github.com/katalvlaran/reconstruct/table"
)

// ConditionalPrediction is one independent-variable state's argmax
// dependent-variable prediction, with the raw tally it was scored
// against.
type ConditionalPrediction struct {
	IVState   map[int]int
	Predicted int
	Correct   int64
	Total     int64
}

// ConditionalDVResult is the full per-IV-state prediction table plus
// its aggregate accuracy.
type ConditionalDVResult struct {
	DV          int
	Predictions []ConditionalPrediction
	Correct     int64
	Total       int64
	Accuracy    float64
}

// ComputeConditionalDV fits model and, for every combination of
// independent-variable states, reads the fitted P(DV=k|IV) from the
// joint, picks the argmax k, and tallies correct/total predictions
// against the raw observed counts.
//
// Returns a *ValidationError if the Manager's VariableList is not a
// directed system (exactly one dependent variable).
func (mgr *Manager) ComputeConditionalDV(model *relation.Model) (*ConditionalDVResult, error) {
	if !mgr.vl.IsDirected() {
		return nil, newValidationError("conditional DV prediction requires a directed system with a dependent variable")
	}
	dv, err := mgr.vl.SingleDependent()
	if err != nil {
		return nil, newValidationError("resolving dependent variable: %v", err)
	}
	dvVar, err := mgr.vl.Variable(dv)
	if err != nil {
		return nil, newComputationError("reading dependent variable", err)
	}

	fit, err := mgr.Fit(model, PolicyPermissive)
	if err != nil {
		return nil, err
	}

	var result *ConditionalDVResult
	err = mgr.Profiler().Track(OpConditional, func() error {
		ivIdx := make([]int, 0, mgr.vl.Len()-1)
		ivCards := make([]int, 0, mgr.vl.Len()-1)
		for _, idx := range mgr.vl.AllIndices() {
			if idx == dv {
				continue
			}
			v, err := mgr.vl.Variable(idx)
			if err != nil {
				return newComputationError("reading independent variable", err)
			}
			ivIdx = append(ivIdx, idx)
			ivCards = append(ivCards, v.Cardinality)
		}

		result = &ConditionalDVResult{DV: dv}
		enum := rakey.NewStateEnumerator(ivCards, false)
		for ivState, ok := enum.Next(); ok; ivState, ok = enum.Next() {
			pairs := make(map[int]int, len(ivIdx)+1)
			ivStateMap := make(map[int]int, len(ivIdx))
			for i, idx := range ivIdx {
				pairs[idx] = ivState[i]
				ivStateMap[idx] = ivState[i]
			}

			bestK, bestP := 0, -1.0
			dvProbs := make([]float64, dvVar.Cardinality)
			for k := 0; k < dvVar.Cardinality; k++ {
				pairs[dv] = k
				key, err := rakey.BuildKey(mgr.vl, pairs)
				if err != nil {
					return newComputationError("building state key", err)
				}
				p := lookupValue(fit.Fitted, key)
				dvProbs[k] = p
				if p > bestP {
					bestP = p
					bestK = k
				}
			}

			var correct, total int64
			for k := 0; k < dvVar.Cardinality; k++ {
				pairs[dv] = k
				key, err := rakey.BuildKey(mgr.vl, pairs)
				if err != nil {
					return newComputationError("building state key", err)
				}
				c := int64(lookupValue(mgr.counts, key))
				total += c
				if k == bestK {
					correct += c
				}
			}

			result.Predictions = append(result.Predictions, ConditionalPrediction{
				IVState:   ivStateMap,
				Predicted: bestK,
				Correct:   correct,
				Total:     total,
			})
			result.Correct += correct
			result.Total += total
		}

		if result.Total > 0 {
			result.Accuracy = float64(result.Correct) / float64(result.Total)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ConfusionMatrix is a DV-cardinality square matrix of predicted vs.
// actual counts, plus derived per-class precision/recall and overall
// accuracy.
type ConfusionMatrix struct {
	Cardinality int
	// Matrix[actual][predicted] = count.
	Matrix    [][]int64
	Accuracy  float64
	Precision []float64 // per predicted class
	Recall    []float64 // per actual class
}

// ComputeConfusionMatrix builds a confusion matrix from model's
// conditional-DV predictions against the raw observed counts: for every
// IV state, every DV value k contributes Matrix[k][predicted] +=
// count(IV, DV=k).
func (mgr *Manager) ComputeConfusionMatrix(model *relation.Model) (*ConfusionMatrix, error) {
	if !mgr.vl.IsDirected() {
		return nil, newValidationError("confusion matrix requires a directed system with a dependent variable")
	}
	dv, err := mgr.vl.SingleDependent()
	if err != nil {
		return nil, newValidationError("resolving dependent variable: %v", err)
	}
	dvVar, err := mgr.vl.Variable(dv)
	if err != nil {
		return nil, newComputationError("reading dependent variable", err)
	}

	cond, err := mgr.ComputeConditionalDV(model)
	if err != nil {
		return nil, err
	}

	k := dvVar.Cardinality
	matrix := make([][]int64, k)
	for i := range matrix {
		matrix[i] = make([]int64, k)
	}

	ivIdx := make([]int, 0, mgr.vl.Len()-1)
	for _, idx := range mgr.vl.AllIndices() {
		if idx != dv {
			ivIdx = append(ivIdx, idx)
		}
	}

	for _, pred := range cond.Predictions {
		pairs := make(map[int]int, len(ivIdx)+1)
		for _, idx := range ivIdx {
			pairs[idx] = pred.IVState[idx]
		}
		for actual := 0; actual < k; actual++ {
			pairs[dv] = actual
			key, err := rakey.BuildKey(mgr.vl, pairs)
			if err != nil {
				return nil, newComputationError("building state key", err)
			}
			c := int64(lookupValue(mgr.counts, key))
			matrix[actual][pred.Predicted] += c
		}
	}

	precision := make([]float64, k)
	recall := make([]float64, k)
	var correct, total int64
	for i := 0; i < k; i++ {
		var predTotal, actualTotal int64
		for j := 0; j < k; j++ {
			predTotal += matrix[j][i]
			actualTotal += matrix[i][j]
			total += matrix[i][j]
		}
		correct += matrix[i][i]
		if predTotal > 0 {
			precision[i] = float64(matrix[i][i]) / float64(predTotal)
		}
		if actualTotal > 0 {
			recall[i] = float64(matrix[i][i]) / float64(actualTotal)
		}
	}

	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}

	return &ConfusionMatrix{
		Cardinality: k,
		Matrix:      matrix,
		Accuracy:    accuracy,
		Precision:   precision,
		Recall:      recall,
	}, nil
}

// lookupValue returns t's value for key, or 0 if absent. t must be
// sorted (both mgr.counts and every FitResult.Fitted table satisfy
// this).
func lookupValue(t *table.ContingencyTable, key *rakey.Key) float64 {
	idx, found, err := t.Find(key)
	if err != nil || !found {
		return 0
	}
	return t.Tuples()[idx].Value
}
