package eval

import (
	"fmt"
	"log"
	"path/filepath"
)

// Metric names served by the aggregator. Three metric families produce the
// five reported values.
const (
	MetricFID     = "FID"
	MetricKIDMean = "KID_mean"
	MetricKIDStd  = "KID_std"
	MetricISMean  = "IS_mean"
	MetricISStd   = "IS_std"
)

// KID and IS values are rescaled everywhere they are reported; the raw
// numbers sit too close to zero to compare at a glance.
const rescale = 1000

// WarmupScore is the placeholder cached for the unset sentinel fold's
// warm-up call. It is not a metric value; real scores start at fold 0.
const WarmupScore = 0.0

type scoreKey struct {
	metric string
	fold   int
}

// Master centralizes metric computation across the five scorer adapters.
// The benchmark loop invokes each adapter independently, but a fold's
// generated stream can be drained only once, so the first call that
// reaches a fold computes every metric for it in one pass over the data
// and all later calls for that fold are served from the cache. Three
// long-lived bagged accumulators are fed on every fold and finalized when
// the schedule reaches the terminal fold.
//
// Master keeps no locks: the benchmark drives it from a single goroutine.
type Master struct {
	schedule  Schedule
	extractor Extractor
	batchSize int

	// Decode turns a real-image path into CHW float data. It must be set
	// before the first genuine fold computation.
	Decode Decode
	// Shape is the per-image CHW shape decoded real images must have.
	Shape [3]int64
	// Preload decodes each fold's real partition fully before scoring it.
	Preload bool
	// Grid, when non-nil, receives the first generated batch of each
	// genuine fold computation.
	Grid GridWriter

	calls  map[string]int
	visits map[scoreKey]int
	score  map[scoreKey]float64

	fid *FIDAcc
	kid *KIDAcc
	is  *ISAcc

	seed int64
}

// MakeMaster builds the aggregator. seed feeds the KID subset sampler, for
// both the bagged accumulator and every fold-local one, so a run's KID
// values are reproducible.
func MakeMaster(ex Extractor, nFold, batchSize int, seed int64) *Master {
	if ex == nil {
		panic("eval: Master needs an extractor")
	}
	if batchSize < 1 {
		batchSize = 32
	}
	return &Master{
		schedule:  DefaultSchedule(nFold),
		extractor: ex,
		batchSize: batchSize,
		Shape:     [3]int64{3, 64, 64},
		Preload:   true,
		calls:     map[string]int{},
		visits:    map[scoreKey]int{},
		score:     map[scoreKey]float64{},
		fid:       NewFIDAcc(),
		kid:       NewKIDAcc(seed),
		is:        NewISAcc(),
		seed:      seed,
	}
}

// Score returns the cached value for a (metric, fold) context, if any.
func (m *Master) Score(metric string, fold int) (float64, bool) {
	v, ok := m.score[scoreKey{metric, fold}]
	return v, ok
}

// Visits reports how often a (metric, fold) context has been requested.
// Diagnostic only.
func (m *Master) Visits(metric string, fold int) int {
	return m.visits[scoreKey{metric, fold}]
}

// Eval returns the value of metric for the fold implied by the running
// call count of that metric name. yTrue lists the real image paths of
// every fold (partitioned by parent directory name); yPred is this fold's
// generated stream, drained at most once across all five metrics.
func (m *Master) Eval(yTrue []string, yPred BatchStream, metric string) float64 {
	switch metric {
	case MetricFID, MetricKIDMean, MetricKIDStd, MetricISMean, MetricISStd:
	default:
		panic(fmt.Sprintf("eval: unknown metric %q", metric))
	}

	m.calls[metric]++
	fold := m.schedule.FoldFor(m.calls[metric])
	key := scoreKey{metric, fold}
	m.visits[key]++

	if v, ok := m.score[key]; ok {
		return v
	}

	if fold == FoldUnset {
		// Warm-up call before any fold data exists. The value is a
		// defined placeholder, cached so the context stays write-once.
		m.score[key] = WarmupScore
		return WarmupScore
	}

	if fold == m.schedule.Terminal() {
		// The bagged accumulators saw a full pass of every fold; finalize
		// all five values in one shot.
		m.commit(fold, m.fid, m.kid, m.is)
		return m.score[key]
	}

	if len(yTrue) == 0 {
		// Data not available on this call; an earlier call of the same
		// triple must have populated the cache.
		return m.cachedOrDie(key)
	}

	fid := NewFIDAcc()
	kid := NewKIDAcc(m.seed)
	is := NewISAcc()

	batches := 0
	for {
		batch, ok := yPred.Next()
		if !ok {
			break
		}
		if batches == 0 && m.Grid != nil {
			if err := m.Grid.Write(batch); err != nil {
				log.Printf("eval: sample grid not written: %v", err)
			}
		}
		feats, probs := m.extractor.Extract(batch)
		fid.Update(feats, false)
		kid.Update(feats, false)
		is.Update(probs)
		m.fid.Update(feats, false)
		m.kid.Update(feats, false)
		m.is.Update(probs)
		batches++
	}
	if batches == 0 {
		// Zero-length stream outside the terminal fold signals a
		// higher-layer scheduling mismatch, not a score of zero.
		return m.cachedOrDie(key)
	}

	m.updateReal(yTrue, fold, fid, kid)
	m.commit(fold, fid, kid, is)

	// Fold-local rows can be large; drop them before returning.
	fid.Release()
	kid.Release()
	is.Release()

	return m.score[key]
}

// updateReal feeds this fold's real-image partition to the FID and KID
// accumulators, fold-local and bagged. The inception score never consumes
// real data.
func (m *Master) updateReal(yTrue []string, fold int, fid *FIDAcc, kid *KIDAcc) {
	groups := map[string]bool{}
	for _, p := range yTrue {
		groups[filepath.Base(filepath.Dir(p))] = true
	}
	if len(groups) != m.schedule.NFold() {
		panic(fmt.Sprintf("eval: real images span %d partition groups, want %d", len(groups), m.schedule.NFold()))
	}

	want := fmt.Sprintf("train_%d", fold+1)
	var paths []string
	for _, p := range yTrue {
		if filepath.Base(filepath.Dir(p)) == want {
			paths = append(paths, p)
		}
	}

	if m.Decode == nil {
		panic("eval: Master needs a decoder before real images can be scored")
	}
	set, err := MakeImageSet(paths, m.Shape, m.Decode, m.Preload)
	if err != nil {
		panic(err)
	}
	stream := set.Stream(m.batchSize)
	for {
		batch, ok := stream.Next()
		if !ok {
			break
		}
		feats, _ := m.extractor.Extract(batch)
		fid.Update(feats, true)
		kid.Update(feats, true)
		m.fid.Update(feats, true)
		m.kid.Update(feats, true)
	}
}

// commit finalizes the three accumulators and writes all five (metric,
// fold) cache entries at once. Entries are write-once; commit must not run
// twice for the same fold.
func (m *Master) commit(fold int, fid *FIDAcc, kid *KIDAcc, is *ISAcc) {
	m.score[scoreKey{MetricFID, fold}] = fid.Compute()

	kidMean, kidStd := kid.Compute()
	m.score[scoreKey{MetricKIDMean, fold}] = kidMean * rescale
	m.score[scoreKey{MetricKIDStd, fold}] = kidStd * rescale

	isMean, isStd := is.Compute()
	m.score[scoreKey{MetricISMean, fold}] = isMean * rescale
	m.score[scoreKey{MetricISStd, fold}] = isStd * rescale
}

func (m *Master) cachedOrDie(key scoreKey) float64 {
	v, ok := m.score[key]
	if !ok {
		panic(fmt.Sprintf("eval: no cached %s value for fold %d and no data to compute one", key.metric, key.fold))
	}
	return v
}
