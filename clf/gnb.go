package clf

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/pkg/errors"
)

// varianceFloor keeps per-feature variances away from zero so constant
// features do not blow up the log density.
const varianceFloor = 1e-9

// GNB is a Gaussian naive Bayes classifier. Each class is modeled as a
// product of independent per-feature normal densities with class priors
// estimated from the training frequencies. Prediction is fast and
// state-free, which suits per-neighborhood evaluation where the classifier
// is retrained many thousands of times.
type GNB struct {
	BaseLearner

	labels []string
	priors []float64
	means  [][]float64
	vars   [][]float64
}

// NewGNB creates a Gaussian naive Bayes classifier.
func NewGNB() *GNB {
	return &GNB{}
}

// Train estimates per-class feature means and variances plus class priors.
func (c *GNB) Train(ds *dataset.Dataset) error {
	const op = "GNB.Train"
	targets, err := ds.Targets()
	if err != nil {
		return errors.Wrap(err, op)
	}
	byLabel := make(map[string][]int)
	for i, label := range targets {
		byLabel[label] = append(byLabel[label], i)
	}
	if len(byLabel) < 2 {
		return errors.NewLabelCardinalityError(op, dataset.AttrTargets, len(byLabel), 2)
	}

	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	_, nf := ds.Shape()
	n := len(targets)
	c.labels = labels
	c.priors = make([]float64, len(labels))
	c.means = make([][]float64, len(labels))
	c.vars = make([][]float64, len(labels))

	column := make([]float64, 0, n)
	for k, label := range labels {
		rows := byLabel[label]
		c.priors[k] = float64(len(rows)) / float64(n)
		c.means[k] = make([]float64, nf)
		c.vars[k] = make([]float64, nf)
		for j := 0; j < nf; j++ {
			column = column[:0]
			for _, i := range rows {
				column = append(column, ds.Samples().At(i, j))
			}
			mean, variance := stat.MeanVariance(column, nil)
			if math.IsNaN(variance) || variance < varianceFloor {
				variance = varianceFloor
			}
			c.means[k][j] = mean
			c.vars[k][j] = variance
		}
	}
	c.SetTrained()
	return nil
}

// Predict returns the class with the highest posterior log density for
// every row of data. Ties resolve to the lexicographically smaller label.
func (c *GNB) Predict(data mat.Matrix) ([]string, error) {
	if !c.IsTrained() {
		return nil, errors.NewNotTrainedError("GNB", "Predict")
	}
	r, cols := data.Dims()
	if cols != len(c.means[0]) {
		return nil, errors.NewShapeMismatchError("GNB.Predict", len(c.means[0]), cols)
	}

	out := make([]string, r)
	for i := 0; i < r; i++ {
		best, bestScore := 0, math.Inf(-1)
		for k := range c.labels {
			score := math.Log(c.priors[k])
			for j := 0; j < cols; j++ {
				diff := data.At(i, j) - c.means[k][j]
				score -= 0.5 * (math.Log(2*math.Pi*c.vars[k][j]) + diff*diff/c.vars[k][j])
			}
			if score > bestScore {
				best, bestScore = k, score
			}
		}
		out[i] = c.labels[best]
	}
	return out, nil
}

// Classes returns the labels seen during training in sorted order.
func (c *GNB) Classes() []string {
	return append([]string(nil), c.labels...)
}
