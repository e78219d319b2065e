package mapper

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/pkg/errors"
)

// PCA projects data onto its leading principal components. The mapper is
// dimensionality-reducing and therefore not exactly invertible.
//
// Reverse contract: reconstruction is the orthogonal back-projection
// x^ = y * V_k' + mean. Its error is exactly the energy captured by the
// discarded components; for data of rank <= k the round trip is exact up to
// floating-point error, and ReconstructionError reports the retained
// variance fraction so callers can bound the expected error instead of
// assuming false precision.
type PCA struct {
	base

	// NumComponents is the requested output dimensionality.
	NumComponents int

	// Mean holds the per-feature mean removed before projection.
	Mean []float64

	components *mat.Dense // inSize x NumComponents
	variances  []float64  // all singular variances, for error reporting
}

// NewPCA creates an untrained PCA mapper with k output components.
func NewPCA(k int) *PCA {
	return &PCA{
		base:          base{name: "PCA"},
		NumComponents: k,
	}
}

// Fit estimates the principal axes of the reference data. The fit is
// ill-posed when fewer than two samples are available, when k exceeds the
// feature count, or when k exceeds the number of non-degenerate directions
// (samples - 1).
func (m *PCA) Fit(ds *dataset.Dataset) error {
	r, c := ds.Shape()
	if m.NumComponents < 1 {
		return errors.NewDegenerateInputError("PCA.Fit", "number of components must be positive")
	}
	if r < 2 {
		return errors.NewDegenerateInputError("PCA.Fit", "need at least 2 samples")
	}
	if m.NumComponents > c {
		return errors.NewDegenerateInputError("PCA.Fit",
			"more components requested than features available")
	}
	if m.NumComponents > r-1 {
		return errors.NewDegenerateInputError("PCA.Fit",
			"more components requested than independent samples available")
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(ds.Samples(), nil); !ok {
		return errors.Wrap(errors.ErrSingularMatrix, "PCA.Fit")
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	m.variances = pc.VarsTo(nil)

	m.components = mat.NewDense(c, m.NumComponents, nil)
	for j := 0; j < m.NumComponents; j++ {
		for i := 0; i < c; i++ {
			m.components.Set(i, j, vecs.At(i, j))
		}
	}

	m.Mean = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, ds.Samples())
		m.Mean[j] = stat.Mean(col, nil)
	}

	m.setTrained(c, m.NumComponents)
	return nil
}

// Forward centers the data and projects it onto the retained components.
func (m *PCA) Forward(data mat.Matrix) (*mat.Dense, error) {
	if err := m.checkForward(data); err != nil {
		return nil, err
	}
	r, c := data.Dims()
	centered := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			centered.Set(i, j, data.At(i, j)-m.Mean[j])
		}
	}
	out := mat.NewDense(r, m.NumComponents, nil)
	out.Mul(centered, m.components)
	return out, nil
}

// Reverse back-projects component scores into the input space and restores
// the mean. See the type documentation for the reconstruction contract.
func (m *PCA) Reverse(data mat.Matrix) (*mat.Dense, error) {
	if err := m.checkReverse(data); err != nil {
		return nil, err
	}
	r, _ := data.Dims()
	out := mat.NewDense(r, m.inSize, nil)
	out.Mul(data, m.components.T())
	for i := 0; i < r; i++ {
		for j := 0; j < m.inSize; j++ {
			out.Set(i, j, out.At(i, j)+m.Mean[j])
		}
	}
	return out, nil
}

// ForwardDataset projects the samples into component space. The derived
// features get a fresh "component" attribute; input feature attributes do
// not survive the reduction.
func (m *PCA) ForwardDataset(ds *dataset.Dataset) (*dataset.Dataset, error) {
	out, err := forwardDatasetFresh(m, ds)
	if err != nil {
		return nil, err
	}
	component := make(dataset.Ints, m.NumComponents)
	for i := range component {
		component[i] = i
	}
	if err := out.FA().Set("component", component); err != nil {
		return nil, err
	}
	return out, nil
}

// ReverseDataset back-projects the samples into the input space.
func (m *PCA) ReverseDataset(ds *dataset.Dataset) (*dataset.Dataset, error) {
	return reverseDataset(m, ds)
}

// OutFeatureOrigins reports that every component derives from all input
// features.
func (m *PCA) OutFeatureOrigins() ([][]int, error) {
	if !m.trained {
		return nil, errors.NewNotTrainedError(m.name, "OutFeatureOrigins")
	}
	origins := make([][]int, m.outSize)
	for i := range origins {
		origins[i] = identityIndex(m.inSize)
	}
	return origins, nil
}

// RetainedVariance returns the fraction of total variance captured by the
// retained components. 1 - RetainedVariance bounds the relative
// reconstruction error of Reverse.
func (m *PCA) RetainedVariance() (float64, error) {
	if !m.trained {
		return 0, errors.NewNotTrainedError(m.name, "RetainedVariance")
	}
	var total, kept float64
	for i, v := range m.variances {
		total += v
		if i < m.NumComponents {
			kept += v
		}
	}
	if total == 0 {
		return 1, nil
	}
	return kept / total, nil
}
