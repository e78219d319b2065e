// Package clf defines the classifier capability contract consumed by
// cross-validated measures, plus a k-nearest-neighbour reference backend.
// Any external learner (e.g. an SVM binding) satisfying Classifier is
// pluggable without changes to the measure or searchlight layers.
package clf

import (
	"gonum.org/v1/gonum/mat"

	"github.com/neurogo/mvpa/dataset"
)

// Classifier is trainable on a labeled dataset and predicts target labels
// for new samples in the same feature space.
type Classifier interface {
	// Train fits the classifier on the dataset's samples and its "targets"
	// sample attribute.
	Train(ds *dataset.Dataset) error

	// Predict returns one label per row of data.
	Predict(data mat.Matrix) ([]string, error)
}

// BaseLearner carries the shared trained-state bookkeeping for classifier
// implementations.
type BaseLearner struct {
	trained bool
}

// IsTrained reports whether Train has completed.
func (b *BaseLearner) IsTrained() bool { return b.trained }

// SetTrained marks the learner as trained.
func (b *BaseLearner) SetTrained() { b.trained = true }

// Reset returns the learner to the untrained state.
func (b *BaseLearner) Reset() { b.trained = false }
