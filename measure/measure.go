// Package measure implements pluggable statistical computations over
// datasets: trivial summary measures, cross-validated classification error,
// and permutation-based null-distribution estimation. A measure is a pure
// function of the dataset it is given; randomized measures take an explicit
// seed so results are reproducible under any scheduling.
package measure

import (
	"gonum.org/v1/gonum/mat"

	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/pkg/errors"
)

// Measure computes a statistic from a dataset. Results use the dataset
// convention: one row per produced value, sample attributes describing what
// each row is (e.g. the fold number).
type Measure interface {
	Compute(ds *dataset.Dataset) (*dataset.Dataset, error)
}

// ErrorFx scores predicted against true labels. Lower is better for error
// functions, higher for accuracy functions; measures do not care which.
type ErrorFx func(predicted, actual []string) float64

// MeanMismatch returns the fraction of predictions that disagree with the
// actual labels.
func MeanMismatch(predicted, actual []string) float64 {
	if len(actual) == 0 {
		return 0
	}
	mismatches := 0
	for i := range actual {
		if predicted[i] != actual[i] {
			mismatches++
		}
	}
	return float64(mismatches) / float64(len(actual))
}

// Accuracy returns the fraction of predictions that agree with the actual
// labels.
func Accuracy(predicted, actual []string) float64 {
	return 1 - MeanMismatch(predicted, actual)
}

// FxMeasure lifts a plain function over the sample matrix into a Measure.
type FxMeasure struct {
	// Fx maps the dataset's samples to a scalar.
	Fx func(samples *mat.Dense) float64
}

// NewFxMeasure creates a measure from a scalar function of the samples.
func NewFxMeasure(fx func(samples *mat.Dense) float64) *FxMeasure {
	return &FxMeasure{Fx: fx}
}

// Compute evaluates the function and returns a single-value result.
func (m *FxMeasure) Compute(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if m.Fx == nil {
		return nil, errors.New("mvpa: FxMeasure.Compute: missing function")
	}
	return scalarResult(m.Fx(ds.Samples()))
}

// MeanSamples is the trivial measure returning the mean of all matrix
// values, mostly useful for exercising searchlight plumbing.
type MeanSamples struct{}

// NewMeanSamples creates the mean-of-all-values measure.
func NewMeanSamples() *MeanSamples {
	return &MeanSamples{}
}

// Compute returns the mean of every matrix element.
func (m *MeanSamples) Compute(ds *dataset.Dataset) (*dataset.Dataset, error) {
	r, c := ds.Shape()
	if r == 0 || c == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "MeanSamples.Compute")
	}
	var sum float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			sum += ds.Samples().At(i, j)
		}
	}
	return scalarResult(sum / float64(r*c))
}

// scalarResult wraps a single value in the result-dataset convention.
func scalarResult(value float64) (*dataset.Dataset, error) {
	return dataset.New(mat.NewDense(1, 1, []float64{value}))
}

// ResultScalar extracts the mean of the first column of a result dataset,
// collapsing per-fold vectors into their aggregate.
func ResultScalar(result *dataset.Dataset) float64 {
	r, _ := result.Shape()
	if r == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < r; i++ {
		sum += result.Samples().At(i, 0)
	}
	return sum / float64(r)
}
