package mapper

import (
	"gonum.org/v1/gonum/mat"

	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/pkg/errors"
)

// FeatureSlice selects and reorders a fixed set of input features. It is
// exactly invertible on the selected features: Reverse scatters output-space
// columns back to their original positions and fills unselected positions
// with zeros.
type FeatureSlice struct {
	base
	indices []int
}

// NewFeatureSlice creates a mapper keeping the given input feature indices
// in order. Indices may repeat and reorder.
func NewFeatureSlice(indices ...int) *FeatureSlice {
	owned := make([]int, len(indices))
	copy(owned, indices)
	return &FeatureSlice{
		base:    base{name: "FeatureSlice"},
		indices: owned,
	}
}

// Fit pins the input space width and validates the selection against it.
func (m *FeatureSlice) Fit(ds *dataset.Dataset) error {
	nFeatures := ds.NFeatures()
	for _, i := range m.indices {
		if i < 0 || i >= nFeatures {
			return errors.NewIndexOutOfRangeError("FeatureSlice.Fit", 1, i, nFeatures)
		}
	}
	m.setTrained(nFeatures, len(m.indices))
	return nil
}

// Forward gathers the selected columns.
func (m *FeatureSlice) Forward(data mat.Matrix) (*mat.Dense, error) {
	if err := m.checkForward(data); err != nil {
		return nil, err
	}
	r, _ := data.Dims()
	out := mat.NewDense(r, len(m.indices), nil)
	for i := 0; i < r; i++ {
		for j, src := range m.indices {
			out.Set(i, j, data.At(i, src))
		}
	}
	return out, nil
}

// Reverse scatters columns back into the full input space, zero elsewhere.
// When an input feature was selected more than once the last occurrence
// wins.
func (m *FeatureSlice) Reverse(data mat.Matrix) (*mat.Dense, error) {
	if err := m.checkReverse(data); err != nil {
		return nil, err
	}
	r, _ := data.Dims()
	out := mat.NewDense(r, m.inSize, nil)
	for i := 0; i < r; i++ {
		for j, src := range m.indices {
			out.Set(i, src, data.At(i, j))
		}
	}
	return out, nil
}

// ForwardDataset maps the samples and gathers feature attributes through the
// selection.
func (m *FeatureSlice) ForwardDataset(ds *dataset.Dataset) (*dataset.Dataset, error) {
	return forwardDatasetSelecting(m, ds, m.indices)
}

// ReverseDataset reverse-maps the samples into the input space.
func (m *FeatureSlice) ReverseDataset(ds *dataset.Dataset) (*dataset.Dataset, error) {
	return reverseDataset(m, ds)
}

// OutFeatureOrigins maps every output feature to its single source feature.
func (m *FeatureSlice) OutFeatureOrigins() ([][]int, error) {
	if !m.trained {
		return nil, errors.NewNotTrainedError(m.name, "OutFeatureOrigins")
	}
	origins := make([][]int, len(m.indices))
	for i, src := range m.indices {
		origins[i] = []int{src}
	}
	return origins, nil
}

// Mask selects input features through a boolean mask, preserving their
// original order. Like FeatureSlice it round-trips exactly on the selected
// features.
type Mask struct {
	FeatureSlice
	mask []bool
}

// NewMask creates a mapper keeping the features where mask is true.
func NewMask(mask ...bool) *Mask {
	owned := make([]bool, len(mask))
	copy(owned, mask)
	m := &Mask{mask: owned}
	m.base = base{name: "Mask"}
	return m
}

// Fit validates the mask length against the dataset and derives the kept
// index list.
func (m *Mask) Fit(ds *dataset.Dataset) error {
	nFeatures := ds.NFeatures()
	if len(m.mask) != nFeatures {
		return errors.NewLengthMismatchError("Mask.Fit", "mask", nFeatures, len(m.mask))
	}
	m.indices = m.indices[:0]
	for i, keep := range m.mask {
		if keep {
			m.indices = append(m.indices, i)
		}
	}
	m.setTrained(nFeatures, len(m.indices))
	return nil
}

// ForwardDataset maps the samples and gathers feature attributes through the
// mask.
func (m *Mask) ForwardDataset(ds *dataset.Dataset) (*dataset.Dataset, error) {
	return forwardDatasetSelecting(m, ds, m.indices)
}

// ReverseDataset reverse-maps the samples into the input space.
func (m *Mask) ReverseDataset(ds *dataset.Dataset) (*dataset.Dataset, error) {
	return reverseDataset(m, ds)
}
