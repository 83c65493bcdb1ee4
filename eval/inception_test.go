package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestISUniformProbabilitiesScoreOne(t *testing.T) {
	rows := make([][]float64, 8)
	for i := range rows {
		rows[i] = []float64{0.25, 0.25, 0.25, 0.25}
	}
	acc := NewISAcc()
	acc.Update(rows)
	mean, std := acc.Compute()
	assert.InDelta(t, 1, mean, 1e-12)
	assert.InDelta(t, 0, std, 1e-12)
}

func TestISConfidentDiversePredictionsScoreClassCount(t *testing.T) {
	// One fully confident prediction per class with a uniform marginal
	// gives E[KL] = log(4), so the score is exactly the class count.
	acc := &ISAcc{splits: 1}
	acc.Update([][]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	})
	mean, std := acc.Compute()
	assert.InDelta(t, 4, mean, 1e-12)
	assert.InDelta(t, 0, std, 1e-12)
}

func TestISSplitCountClampsToRows(t *testing.T) {
	acc := NewISAcc()
	acc.Update([][]float64{{0.5, 0.5}, {0.9, 0.1}, {0.2, 0.8}})
	mean, _ := acc.Compute()
	assert.False(t, mean != mean, "mean is NaN")
}

func TestISNeedsSamples(t *testing.T) {
	assert.Panics(t, func() { NewISAcc().Compute() })
}
