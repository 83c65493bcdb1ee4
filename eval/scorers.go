package eval

// Scorer is the per-metric facade handed to the benchmark framework. Each
// carries a fixed metric name and display precision and delegates all
// scoring to the shared Master. Precision is applied by the surrounding
// framework when printing, never to the returned value.
type Scorer struct {
	Name      string
	Precision int
	master    *Master
}

// Evaluate scores one call of this metric. yTrue must be the finite,
// already-materialized list of real image paths, never a lazy source.
func (s Scorer) Evaluate(yTrue []string, yPred BatchStream) float64 {
	if yTrue == nil {
		panic("eval: ground truth must be a materialized path list")
	}
	return s.master.Eval(yTrue, yPred, s.Name)
}

func FID(m *Master) Scorer     { return Scorer{Name: MetricFID, Precision: 1, master: m} }
func KIDMean(m *Master) Scorer { return Scorer{Name: MetricKIDMean, Precision: 1, master: m} }
func KIDStd(m *Master) Scorer  { return Scorer{Name: MetricKIDStd, Precision: 1, master: m} }
func ISMean(m *Master) Scorer  { return Scorer{Name: MetricISMean, Precision: 1, master: m} }
func ISStd(m *Master) Scorer   { return Scorer{Name: MetricISStd, Precision: 1, master: m} }

// Scorers returns the five adapters in reporting order.
func Scorers(m *Master) []Scorer {
	return []Scorer{FID(m), KIDMean(m), KIDStd(m), ISMean(m), ISStd(m)}
}
