package mapper

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/pkg/errors"
)

// ZScore standardizes every feature to zero mean and unit variance using
// statistics estimated on the fitted reference dataset. The transform is
// exactly invertible: Reverse multiplies by the stored scale and adds the
// stored mean back.
type ZScore struct {
	base

	// Mean holds the per-feature mean of the reference data.
	Mean []float64

	// Scale holds the per-feature standard deviation. Features with
	// near-zero variance get scale 1 so the round trip stays exact.
	Scale []float64
}

// NewZScore creates an untrained z-scoring mapper.
func NewZScore() *ZScore {
	return &ZScore{base: base{name: "ZScore"}}
}

// Fit estimates per-feature mean and standard deviation. At least two
// samples are required for a variance estimate.
func (m *ZScore) Fit(ds *dataset.Dataset) error {
	r, c := ds.Shape()
	if r < 2 {
		return errors.NewDegenerateInputError("ZScore.Fit",
			"need at least 2 samples to estimate a standard deviation")
	}

	m.Mean = make([]float64, c)
	m.Scale = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, ds.Samples())
		mean, std := stat.MeanStdDev(col, nil)
		m.Mean[j] = mean
		if math.Abs(std) < 1e-8 {
			std = 1.0
		}
		m.Scale[j] = std
	}

	m.setTrained(c, c)
	return nil
}

// Forward standardizes data with the fitted statistics.
func (m *ZScore) Forward(data mat.Matrix) (*mat.Dense, error) {
	if err := m.checkForward(data); err != nil {
		return nil, err
	}
	r, c := data.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, (data.At(i, j)-m.Mean[j])/m.Scale[j])
		}
	}
	return out, nil
}

// Reverse restores the original scale and offset.
func (m *ZScore) Reverse(data mat.Matrix) (*mat.Dense, error) {
	if err := m.checkReverse(data); err != nil {
		return nil, err
	}
	r, c := data.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, data.At(i, j)*m.Scale[j]+m.Mean[j])
		}
	}
	return out, nil
}

// ForwardDataset standardizes the samples; the feature space is unchanged so
// feature attributes carry over one-to-one.
func (m *ZScore) ForwardDataset(ds *dataset.Dataset) (*dataset.Dataset, error) {
	return forwardDatasetSelecting(m, ds, identityIndex(ds.NFeatures()))
}

// ReverseDataset restores the samples to the original scale.
func (m *ZScore) ReverseDataset(ds *dataset.Dataset) (*dataset.Dataset, error) {
	return reverseDataset(m, ds)
}

// OutFeatureOrigins is the identity: feature j derives from feature j.
func (m *ZScore) OutFeatureOrigins() ([][]int, error) {
	if !m.trained {
		return nil, errors.NewNotTrainedError(m.name, "OutFeatureOrigins")
	}
	return identityOrigins(m.outSize), nil
}

func identityIndex(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
