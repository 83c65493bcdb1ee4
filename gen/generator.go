package gen

import (
	"math/rand"

	"ganbench/eval"
)

// Generator is the competitor submission surface. Fit observes one pass of
// training batches; Sample returns a one-shot stream of generated
// minibatches together with the total image count. Sample may be called
// again for a new fit/generate cycle, but each returned stream is
// drainable only once.
type Generator interface {
	Fit(train eval.BatchStream, total int)
	Sample(batchSize, total int) (eval.BatchStream, int)
}

// Noise is the starting-kit generator: it learns nothing and emits uniform
// noise images shaped n × 3 × Edge × Edge. Useful as the baseline
// submission and for exercising the harness end to end.
type Noise struct {
	Edge int64
	seed int64
}

func MakeNoise(seed int64) *Noise {
	return &Noise{Edge: 64, seed: seed}
}

// Fit drains the stream so the caller sees the same contract a real
// submission would honor, and memorises nothing.
func (g *Noise) Fit(train eval.BatchStream, total int) {
	for {
		if _, ok := train.Next(); !ok {
			return
		}
	}
}

func (g *Noise) Sample(batchSize, total int) (eval.BatchStream, int) {
	rng := rand.New(rand.NewSource(g.seed))
	remaining := total
	per := 3 * g.Edge * g.Edge
	return eval.NewFuncStream(func() (eval.Batch, bool) {
		if remaining <= 0 {
			return eval.Batch{}, false
		}
		n := min(batchSize, remaining)
		remaining -= n
		data := make([]float32, int64(n)*per)
		for i := range data {
			data[i] = rng.Float32()
		}
		return eval.Batch{Data: data, Shape: [4]int64{int64(n), 3, g.Edge, g.Edge}}, true
	}), total
}
