package eval

import "math"

// Default number of splits the inception score averages over.
const isSplits = 10

// ISAcc retains class-probability rows of generated images and computes
// the inception score exp(E[KL(p(y|x) ‖ p(y))]) per split, reporting mean
// and standard deviation over splits. Real images never reach this
// accumulator.
type ISAcc struct {
	rows   [][]float64
	splits int
}

func NewISAcc() *ISAcc { return &ISAcc{splits: isSplits} }

// Update retains a batch of probability rows.
func (a *ISAcc) Update(probs [][]float64) {
	a.rows = append(a.rows, probs...)
}

// Compute returns the split-mean and split-std of the inception score. The
// split count clamps to the number of rows.
func (a *ISAcc) Compute() (mean, std float64) {
	n := len(a.rows)
	if n == 0 {
		panic("eval: inception score needs at least one sample")
	}
	splits := min(a.splits, n)
	scores := make([]float64, 0, splits)
	for s := 0; s < splits; s++ {
		chunk := a.rows[s*n/splits : (s+1)*n/splits]
		scores = append(scores, splitScore(chunk))
	}
	return meanStd(scores)
}

// Release drops the retained rows.
func (a *ISAcc) Release() { a.rows = nil }

func splitScore(chunk [][]float64) float64 {
	d := len(chunk[0])
	marginal := make([]float64, d)
	for _, p := range chunk {
		for j, pj := range p {
			marginal[j] += pj
		}
	}
	for j := range marginal {
		marginal[j] /= float64(len(chunk))
	}
	kl := 0.0
	for _, p := range chunk {
		for j, pj := range p {
			if pj > 0 && marginal[j] > 0 {
				kl += pj * (math.Log(pj) - math.Log(marginal[j]))
			}
		}
	}
	return math.Exp(kl / float64(len(chunk)))
}
