package eval

// FoldUnset marks the warm-up call that precedes the first real fold.
const FoldUnset = -1

// Schedule maps the running call count of a metric name to a fold index.
// Counts are 1-based and tracked per metric name by the Master. The default
// ramp pattern visits each real fold with three consecutive calls (train,
// valid and test scores of one fold share a single computation) and
// resolves every later call to the terminal bagged fold.
type Schedule struct {
	pattern []int
	nFold   int
}

// DefaultSchedule builds the ramp call pattern for nFold cross-validation:
// [unset, 0, 0, 0, 1, 1, 1, ..., nFold-1 ×3], then nFold forever.
func DefaultSchedule(nFold int) Schedule {
	if nFold < 1 {
		panic("eval: schedule needs at least one fold")
	}
	pattern := []int{FoldUnset}
	for f := 0; f < nFold; f++ {
		pattern = append(pattern, f, f, f)
	}
	return Schedule{pattern: pattern, nFold: nFold}
}

func (s Schedule) NFold() int { return s.nFold }

// Terminal returns the index of the bagged fold.
func (s Schedule) Terminal() int { return s.nFold }

// FoldFor resolves a 1-based call count to a fold index. Counts past the
// precomputed pattern all land on the terminal fold.
func (s Schedule) FoldFor(call int) int {
	if call < 1 {
		panic("eval: call counts start at 1")
	}
	if call <= len(s.pattern) {
		return s.pattern[call-1]
	}
	return s.nFold
}
