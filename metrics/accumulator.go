// Package metrics accumulates and records training statistics.
package metrics

// Accumulator keeps a running total over three channels: weighted loss,
// weighted accuracy and sample count. The zero value is ready to use; one
// instance lives for exactly one phase of one epoch.
type Accumulator struct {
	lossSum float64
	accSum  float64
	count   float64
}

// Add folds one batch's contribution: a loss sum, an accuracy sum and the
// number of samples they are weighted by.
func (a *Accumulator) Add(lossSum, accSum, count float64) {
	a.lossSum += lossSum
	a.accSum += accSum
	a.count += count
}

// MeanLoss returns the weighted mean loss so far, 0 if nothing was added.
func (a *Accumulator) MeanLoss() float64 {
	if a.count == 0 {
		return 0
	}
	return a.lossSum / a.count
}

// MeanAccuracy returns the weighted mean accuracy so far, 0 if nothing was
// added.
func (a *Accumulator) MeanAccuracy() float64 {
	if a.count == 0 {
		return 0
	}
	return a.accSum / a.count
}

// Count returns the total sample weight added.
func (a *Accumulator) Count() float64 { return a.count }
