// Package mapper implements trainable, reversible transformations between
// feature spaces. A mapper is fitted on a reference dataset, forward-maps
// data from its input space into a derived output space, and reverse-maps
// output-space data back so that derived results can be expressed in the
// original physical space again.
//
// Selection and reordering mappers (FeatureSlice, Mask) round-trip exactly;
// dimensionality-reducing mappers (PCA) reverse by a documented best-effort
// reconstruction. Mappers compose into chains that forward left-to-right and
// reverse right-to-left.
package mapper

import (
	"gonum.org/v1/gonum/mat"

	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/pkg/errors"
)

// Mapper is a trainable transformation between an input feature space of
// width InSize and an output space of width OutSize.
//
// The lifecycle is untrained -> trained (Fit) -> applied (Forward/Reverse).
// Fit is idempotent: refitting on identical data yields identical
// parameters. Forward and Reverse fail with NotTrainedError before Fit and
// with ShapeMismatchError when the data width disagrees with the trained
// space.
type Mapper interface {
	// Fit learns the transformation parameters from a reference dataset.
	Fit(ds *dataset.Dataset) error

	// Forward maps input-space data into the output space.
	Forward(data mat.Matrix) (*mat.Dense, error)

	// Reverse maps output-space data back into the input space. For mappers
	// that are not exactly invertible this is a best-effort reconstruction;
	// see the implementation's documentation for the exact contract.
	Reverse(data mat.Matrix) (*mat.Dense, error)

	// ForwardDataset maps a whole dataset, transforming feature attributes
	// alongside the samples. Sample and dataset attributes are carried over.
	ForwardDataset(ds *dataset.Dataset) (*dataset.Dataset, error)

	// ReverseDataset reverse-maps a whole dataset. Feature attributes of the
	// input space cannot generally be reconstructed and come back empty.
	ReverseDataset(ds *dataset.Dataset) (*dataset.Dataset, error)

	// InSize returns the trained input-space width.
	InSize() int

	// OutSize returns the trained output-space width.
	OutSize() int

	// IsTrained reports whether Fit has completed.
	IsTrained() bool

	// OutFeatureOrigins returns, per output feature, the input feature
	// indices it derives from.
	OutFeatureOrigins() ([][]int, error)
}

// base carries the shared trained-state bookkeeping of all mappers,
// mirroring the untrained/trained estimator state machine.
type base struct {
	name    string
	trained bool
	inSize  int
	outSize int
}

// IsTrained reports whether Fit has completed.
func (b *base) IsTrained() bool { return b.trained }

// InSize returns the trained input-space width.
func (b *base) InSize() int { return b.inSize }

// OutSize returns the trained output-space width.
func (b *base) OutSize() int { return b.outSize }

func (b *base) setTrained(inSize, outSize int) {
	b.trained = true
	b.inSize = inSize
	b.outSize = outSize
}

// checkForward validates trained state and input width for Forward.
func (b *base) checkForward(data mat.Matrix) error {
	if !b.trained {
		return errors.NewNotTrainedError(b.name, "Forward")
	}
	_, c := data.Dims()
	if c != b.inSize {
		return errors.NewShapeMismatchError(b.name+".Forward", b.inSize, c)
	}
	return nil
}

// checkReverse validates trained state and input width for Reverse.
func (b *base) checkReverse(data mat.Matrix) error {
	if !b.trained {
		return errors.NewNotTrainedError(b.name, "Reverse")
	}
	_, c := data.Dims()
	if c != b.outSize {
		return errors.NewShapeMismatchError(b.name+".Reverse", b.outSize, c)
	}
	return nil
}

// forwardDatasetSelecting builds the forward-mapped dataset for mappers whose
// output features are a selection of input features: the matrix is
// forward-mapped and the feature attributes are gathered through idx.
func forwardDatasetSelecting(m Mapper, ds *dataset.Dataset, idx []int) (*dataset.Dataset, error) {
	mapped, err := m.Forward(ds.Samples())
	if err != nil {
		return nil, err
	}
	fa, err := ds.FA().Select(idx)
	if err != nil {
		return nil, err
	}
	out, err := dataset.New(mapped)
	if err != nil {
		return nil, err
	}
	if err := copyCollection(ds.SA(), out.SA()); err != nil {
		return nil, err
	}
	if err := copyCollection(fa, out.FA()); err != nil {
		return nil, err
	}
	if err := copyCollection(ds.A(), out.A()); err != nil {
		return nil, err
	}
	return out, nil
}

// forwardDatasetFresh builds the forward-mapped dataset for mappers that
// synthesize a new feature space; feature attributes start empty.
func forwardDatasetFresh(m Mapper, ds *dataset.Dataset) (*dataset.Dataset, error) {
	mapped, err := m.Forward(ds.Samples())
	if err != nil {
		return nil, err
	}
	out, err := dataset.New(mapped)
	if err != nil {
		return nil, err
	}
	if err := copyCollection(ds.SA(), out.SA()); err != nil {
		return nil, err
	}
	if err := copyCollection(ds.A(), out.A()); err != nil {
		return nil, err
	}
	return out, nil
}

// reverseDataset builds the reverse-mapped dataset shared by all mappers:
// samples are reverse-mapped, sample and dataset attributes carried,
// input-space feature attributes left empty.
func reverseDataset(m Mapper, ds *dataset.Dataset) (*dataset.Dataset, error) {
	unmapped, err := m.Reverse(ds.Samples())
	if err != nil {
		return nil, err
	}
	out, err := dataset.New(unmapped)
	if err != nil {
		return nil, err
	}
	if err := copyCollection(ds.SA(), out.SA()); err != nil {
		return nil, err
	}
	if err := copyCollection(ds.A(), out.A()); err != nil {
		return nil, err
	}
	return out, nil
}

func copyCollection(src, dst *dataset.Collection) error {
	src = src.Clone()
	for _, name := range src.Names() {
		values, err := src.Get(name)
		if err != nil {
			return err
		}
		if err := dst.Set(name, values); err != nil {
			return err
		}
	}
	return nil
}

// identityOrigins returns one-to-one feature provenance for width n.
func identityOrigins(n int) [][]int {
	origins := make([][]int, n)
	for i := range origins {
		origins[i] = []int{i}
	}
	return origins
}
