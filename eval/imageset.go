package eval

import "fmt"

// ImageSet serves a fixed, ordered collection of image files as decoded
// minibatches. With preload enabled every image is decoded up front and
// kept in memory, trading startup latency for per-access latency;
// otherwise each access decodes on demand. There is deliberately no
// shuffle: the accumulator statistics are order-insensitive, but runs
// should be byte-for-byte reproducible.
type ImageSet struct {
	paths   []string
	shape   [3]int64 // CHW of one decoded image
	decode  Decode
	preload bool
	cache   [][]float32
}

func MakeImageSet(paths []string, shape [3]int64, decode Decode, preload bool) (*ImageSet, error) {
	if decode == nil {
		return nil, fmt.Errorf("imageset: nil decoder")
	}
	s := &ImageSet{paths: paths, shape: shape, decode: decode, preload: preload}
	if preload {
		s.cache = make([][]float32, len(paths))
		for i := range paths {
			data, err := s.decodeAt(i)
			if err != nil {
				return nil, err
			}
			s.cache[i] = data
		}
	}
	return s, nil
}

func (s *ImageSet) Len() int { return len(s.paths) }

// At returns the decoded CHW data of the i-th image.
func (s *ImageSet) At(i int) ([]float32, error) {
	if s.preload {
		return s.cache[i], nil
	}
	return s.decodeAt(i)
}

func (s *ImageSet) decodeAt(i int) ([]float32, error) {
	data, err := s.decode(s.paths[i])
	if err != nil {
		return nil, fmt.Errorf("imageset: %s: %w", s.paths[i], err)
	}
	if want := int(s.shape[0] * s.shape[1] * s.shape[2]); len(data) != want {
		return nil, fmt.Errorf("imageset: %s decoded to %d values, want %d", s.paths[i], len(data), want)
	}
	return data, nil
}

// Stream returns a one-shot stream over the set in path order, emitting
// fixed-size minibatches with a possibly shorter final batch.
func (s *ImageSet) Stream(batchSize int) *FuncStream {
	if batchSize < 1 {
		panic("imageset: batch size must be positive")
	}
	lo := 0
	return NewFuncStream(func() (Batch, bool) {
		if lo >= s.Len() {
			return Batch{}, false
		}
		hi := min(lo+batchSize, s.Len())
		per := int(s.shape[0] * s.shape[1] * s.shape[2])
		data := make([]float32, 0, (hi-lo)*per)
		for i := lo; i < hi; i++ {
			img, err := s.At(i)
			if err != nil {
				panic(err) // a decode failure mid-run aborts the evaluation
			}
			data = append(data, img...)
		}
		b := Batch{Data: data, Shape: [4]int64{int64(hi - lo), s.shape[0], s.shape[1], s.shape[2]}}
		lo = hi
		return b, true
	})
}
