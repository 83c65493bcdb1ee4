package eval

// Extractor turns an image minibatch into one embedding row and one
// class-probability row per image. A single Extract call per batch feeds
// the FID and KID accumulators (embeddings) as well as the inception score
// accumulator (probabilities), so the feature network runs once per batch
// no matter how many metrics consume it.
type Extractor interface {
	Extract(b Batch) (feats, probs [][]float64)
}

// GridWriter receives the first generated batch of each genuine fold
// computation for diagnostic display. A writer must not mutate the batch;
// write errors are logged and do not affect scoring.
type GridWriter interface {
	Write(b Batch) error
}

// Decode turns one image file into CHW float data with values in [0, 1].
type Decode func(path string) ([]float32, error)
