package clf

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/pkg/errors"
)

// KNN is a k-nearest-neighbour classifier on Euclidean distance with
// majority voting. Ties resolve to the lexicographically smaller label so
// predictions stay deterministic.
type KNN struct {
	BaseLearner

	// K is the number of neighbours consulted per prediction.
	K int

	train   *mat.Dense
	targets dataset.Strings
}

// NewKNN creates a k-nearest-neighbour classifier.
func NewKNN(k int) *KNN {
	if k < 1 {
		k = 1
	}
	return &KNN{K: k}
}

// Train stores the training samples and their targets. Training requires at
// least K samples and at least two distinct target values.
func (c *KNN) Train(ds *dataset.Dataset) error {
	targets, err := ds.Targets()
	if err != nil {
		return errors.Wrap(err, "KNN.Train")
	}
	if ds.NSamples() < c.K {
		return errors.NewInsufficientSamplesError("KNN.Train", "", c.K, ds.NSamples())
	}
	distinct := make(map[string]struct{})
	for _, target := range targets {
		distinct[target] = struct{}{}
	}
	if len(distinct) < 2 {
		return errors.NewLabelCardinalityError("KNN.Train", dataset.AttrTargets, len(distinct), 2)
	}

	c.train = mat.DenseCopyOf(ds.Samples())
	c.targets = append(dataset.Strings(nil), targets...)
	c.SetTrained()
	return nil
}

// Predict returns the majority label among the K nearest training samples
// for every row of data.
func (c *KNN) Predict(data mat.Matrix) ([]string, error) {
	if !c.IsTrained() {
		return nil, errors.NewNotTrainedError("KNN", "Predict")
	}
	r, cols := data.Dims()
	trainRows, trainCols := c.train.Dims()
	if cols != trainCols {
		return nil, errors.NewShapeMismatchError("KNN.Predict", trainCols, cols)
	}

	type neighbour struct {
		dist  float64
		index int
	}

	out := make([]string, r)
	neighbours := make([]neighbour, trainRows)
	for i := 0; i < r; i++ {
		for j := 0; j < trainRows; j++ {
			var d2 float64
			for f := 0; f < cols; f++ {
				d := data.At(i, f) - c.train.At(j, f)
				d2 += d * d
			}
			neighbours[j] = neighbour{dist: d2, index: j}
		}
		sort.Slice(neighbours, func(a, b int) bool {
			if neighbours[a].dist != neighbours[b].dist {
				return neighbours[a].dist < neighbours[b].dist
			}
			return neighbours[a].index < neighbours[b].index
		})

		votes := make(map[string]int)
		for _, n := range neighbours[:c.K] {
			votes[c.targets[n.index]]++
		}
		best, bestCount := "", -1
		for label, count := range votes {
			if count > bestCount || (count == bestCount && label < best) {
				best, bestCount = label, count
			}
		}
		out[i] = best
	}
	return out, nil
}
