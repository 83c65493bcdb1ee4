package eval

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// fidSide keeps the running first and second moments of one side's
// embedding rows. Only the sums are retained, so memory stays constant in
// the number of images.
type fidSide struct {
	n     int
	sum   []float64
	outer *mat.Dense // running sum of x·xᵀ
}

func (s *fidSide) update(rows [][]float64) {
	if len(rows) == 0 {
		return
	}
	if s.sum == nil {
		d := len(rows[0])
		s.sum = make([]float64, d)
		s.outer = mat.NewDense(d, d, nil)
	}
	d := len(s.sum)
	for _, r := range rows {
		if len(r) != d {
			panic("eval: embedding width changed mid-run")
		}
		for i := 0; i < d; i++ {
			s.sum[i] += r[i]
			for j := 0; j < d; j++ {
				s.outer.Set(i, j, s.outer.At(i, j)+r[i]*r[j])
			}
		}
		s.n++
	}
}

// moments returns the sample mean and covariance of the accumulated rows.
func (s *fidSide) moments() ([]float64, *mat.SymDense) {
	d := len(s.sum)
	mu := make([]float64, d)
	for i := range mu {
		mu[i] = s.sum[i] / float64(s.n)
	}
	denom := float64(s.n - 1)
	if s.n < 2 {
		denom = 1
	}
	cov := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			cov.SetSym(i, j, (s.outer.At(i, j)-float64(s.n)*mu[i]*mu[j])/denom)
		}
	}
	return mu, cov
}

// FIDAcc accumulates embedding rows for real and generated images and
// computes the Fréchet inception distance between the Gaussians fit to the
// two sides.
type FIDAcc struct {
	real fidSide
	fake fidSide
}

func NewFIDAcc() *FIDAcc { return &FIDAcc{} }

// Update folds a batch of embedding rows into the real or the generated
// side.
func (a *FIDAcc) Update(rows [][]float64, real bool) {
	if real {
		a.real.update(rows)
	} else {
		a.fake.update(rows)
	}
}

// Compute returns |mu_r - mu_g|² + tr(C_r) + tr(C_g) - 2·tr(sqrt(C_r·C_g)).
func (a *FIDAcc) Compute() float64 {
	if a.real.n == 0 || a.fake.n == 0 {
		panic("eval: FID needs samples on both sides")
	}
	muR, covR := a.real.moments()
	muG, covG := a.fake.moments()

	fid := 0.0
	for i := range muR {
		d := muR[i] - muG[i]
		fid += d * d
	}
	n, _ := covR.Dims()
	for i := 0; i < n; i++ {
		fid += covR.At(i, i) + covG.At(i, i)
	}
	return fid - 2*traceSqrtProduct(covR, covG)
}

// Release drops the accumulated statistics. Fold-local accumulators are
// released as soon as their values are cached.
func (a *FIDAcc) Release() {
	a.real = fidSide{}
	a.fake = fidSide{}
}

// traceSqrtProduct returns tr(sqrt(a·b)) for symmetric PSD a and b, using
// the symmetric form sqrt(S·b·S) with S = sqrt(a) so a single symmetric
// eigendecomposition yields the trace.
func traceSqrtProduct(a, b *mat.SymDense) float64 {
	s := sqrtmSym(a)
	var sb, m mat.Dense
	sb.Mul(s, b)
	m.Mul(&sb, s)

	d, _ := b.Dims()
	sym := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			// symmetrize against round-off
			sym.SetSym(i, j, 0.5*(m.At(i, j)+m.At(j, i)))
		}
	}
	var es mat.EigenSym
	if !es.Factorize(sym, false) {
		panic("eval: eigendecomposition failed in FID")
	}
	tr := 0.0
	for _, v := range es.Values(nil) {
		if v > 0 {
			tr += math.Sqrt(v)
		}
	}
	return tr
}

// sqrtmSym returns the principal square root of a symmetric PSD matrix,
// clamping slightly negative eigenvalues that arise from round-off.
func sqrtmSym(a *mat.SymDense) *mat.Dense {
	var es mat.EigenSym
	if !es.Factorize(a, true) {
		panic("eval: eigendecomposition failed in FID")
	}
	vals := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	d := len(vals)
	diag := mat.NewDiagDense(d, nil)
	for i, v := range vals {
		if v < 0 {
			v = 0
		}
		diag.SetDiag(i, math.Sqrt(v))
	}
	var vd, out mat.Dense
	vd.Mul(&vecs, diag)
	out.Mul(&vd, vecs.T())
	return &out
}
