package eval

// Batch is one minibatch of images in NCHW layout, channel order RGB,
// values in [0, 1]. Shape is [n, channels, height, width].
type Batch struct {
	Data  []float32
	Shape [4]int64
}

// Len returns the number of images in the batch.
func (b Batch) Len() int { return int(b.Shape[0]) }

// PerImage returns the number of values one image occupies in Data.
func (b Batch) PerImage() int { return int(b.Shape[1] * b.Shape[2] * b.Shape[3]) }

// BatchStream is a one-shot producer of generated minibatches. Next returns
// the next batch and true, or a zero batch and false once the stream is
// exhausted. A drained stream keeps returning false; it is never
// restartable. The aggregator relies on this to consume each fold's stream
// at most once.
type BatchStream interface {
	Next() (Batch, bool)
}

// SliceStream serves a fixed slice of batches in order.
type SliceStream struct {
	batches []Batch
	pos     int
}

func NewSliceStream(batches []Batch) *SliceStream {
	return &SliceStream{batches: batches}
}

func (s *SliceStream) Next() (Batch, bool) {
	if s.pos >= len(s.batches) {
		return Batch{}, false
	}
	b := s.batches[s.pos]
	s.pos++
	return b, true
}

// Exhausted reports whether the stream has been fully drained.
func (s *SliceStream) Exhausted() bool { return s.pos >= len(s.batches) }

// FuncStream adapts a pull function into a one-shot stream. Once the
// function reports the end, the stream stays exhausted even if the function
// could produce again.
type FuncStream struct {
	next func() (Batch, bool)
	done bool
}

func NewFuncStream(next func() (Batch, bool)) *FuncStream {
	return &FuncStream{next: next}
}

func (s *FuncStream) Next() (Batch, bool) {
	if s.done {
		return Batch{}, false
	}
	b, ok := s.next()
	if !ok {
		s.done = true
		return Batch{}, false
	}
	return b, true
}
