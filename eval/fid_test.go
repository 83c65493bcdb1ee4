package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFIDIdenticalDistributionsScoreZero(t *testing.T) {
	rows := [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0.5, 0.5}}
	acc := NewFIDAcc()
	acc.Update(rows, true)
	acc.Update(rows, false)
	assert.InDelta(t, 0, acc.Compute(), 1e-8)
}

func TestFIDMeanShiftWithEqualCovariance(t *testing.T) {
	real := [][]float64{{0, 0}, {2, 0}, {0, 2}, {2, 2}}
	fake := make([][]float64, len(real))
	for i, r := range real {
		fake[i] = []float64{r[0] + 3, r[1] + 4}
	}
	acc := NewFIDAcc()
	acc.Update(real, true)
	acc.Update(fake, false)
	// Covariances are identical, so FID reduces to the squared mean
	// distance: 3² + 4² = 25.
	assert.InDelta(t, 25, acc.Compute(), 1e-8)
}

func TestFIDBatchedUpdatesMatchSingleUpdate(t *testing.T) {
	real := [][]float64{{0.1, 0.9}, {0.4, 0.2}, {0.8, 0.5}, {0.3, 0.7}}
	fake := [][]float64{{0.6, 0.1}, {0.2, 0.8}, {0.9, 0.4}, {0.5, 0.5}}

	whole := NewFIDAcc()
	whole.Update(real, true)
	whole.Update(fake, false)

	batched := NewFIDAcc()
	batched.Update(real[:2], true)
	batched.Update(fake[:3], false)
	batched.Update(real[2:], true)
	batched.Update(fake[3:], false)

	assert.InDelta(t, whole.Compute(), batched.Compute(), 1e-10)
}

func TestFIDNeedsBothSides(t *testing.T) {
	acc := NewFIDAcc()
	acc.Update([][]float64{{1, 2}}, true)
	assert.Panics(t, func() { acc.Compute() })
}

func TestFIDGlobalUnaffectedByLocalRelease(t *testing.T) {
	rows := [][]float64{{0.2, 0.4}, {0.6, 0.8}, {0.1, 0.3}}
	global := NewFIDAcc()
	global.Update(rows, true)
	global.Update(rows, false)
	before := global.Compute()

	local := NewFIDAcc()
	local.Update(rows, true)
	local.Update(rows, false)
	local.Release()

	assert.Equal(t, before, global.Compute())
}
