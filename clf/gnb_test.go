package clf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/pkg/errors"
)

func TestGNBSeparatedClusters(t *testing.T) {
	ds, err := dataset.New(
		mat.NewDense(6, 2, []float64{
			0.0, 0.1,
			0.2, 0.0,
			0.1, 0.2,
			5.0, 5.1,
			5.2, 5.0,
			5.1, 5.2,
		}),
		dataset.WithTargets("low", "low", "low", "high", "high", "high"),
	)
	require.NoError(t, err)

	gnb := NewGNB()
	require.NoError(t, gnb.Train(ds))
	assert.True(t, gnb.IsTrained())
	assert.Equal(t, []string{"high", "low"}, gnb.Classes())

	predicted, err := gnb.Predict(mat.NewDense(2, 2, []float64{
		0.15, 0.15,
		5.05, 5.05,
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{"low", "high"}, predicted)
}

func TestGNBPriorsBreakAmbiguity(t *testing.T) {
	// Both classes see the same values, but the majority class sees them
	// twice as often, so at the shared mean the prior decides.
	ds, err := dataset.New(
		mat.NewDense(6, 1, []float64{
			1.0, 1.2, 1.0, 1.2,
			1.0, 1.2,
		}),
		dataset.WithTargets("maj", "maj", "maj", "maj", "min", "min"),
	)
	require.NoError(t, err)

	gnb := NewGNB()
	require.NoError(t, gnb.Train(ds))

	predicted, err := gnb.Predict(mat.NewDense(1, 1, []float64{1.1}))
	require.NoError(t, err)
	assert.Equal(t, []string{"maj"}, predicted)
}

func TestGNBConstantFeature(t *testing.T) {
	// A zero-variance feature must not break training or prediction.
	ds, err := dataset.New(
		mat.NewDense(4, 2, []float64{
			0, 7,
			0.1, 7,
			5, 7,
			5.1, 7,
		}),
		dataset.WithTargets("a", "a", "b", "b"),
	)
	require.NoError(t, err)

	gnb := NewGNB()
	require.NoError(t, gnb.Train(ds))

	predicted, err := gnb.Predict(mat.NewDense(1, 2, []float64{0.05, 7}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, predicted)
}

func TestGNBErrors(t *testing.T) {
	_, err := NewGNB().Predict(mat.NewDense(1, 1, []float64{0}))
	var notTrained *errors.NotTrainedError
	assert.ErrorAs(t, err, &notTrained)

	single, err := dataset.New(
		mat.NewDense(2, 1, []float64{0, 1}),
		dataset.WithTargets("a", "a"),
	)
	require.NoError(t, err)
	var cardErr *errors.LabelCardinalityError
	assert.ErrorAs(t, NewGNB().Train(single), &cardErr)

	ds, err := dataset.New(
		mat.NewDense(2, 2, []float64{0, 0, 1, 1}),
		dataset.WithTargets("a", "b"),
	)
	require.NoError(t, err)
	gnb := NewGNB()
	require.NoError(t, gnb.Train(ds))

	_, err = gnb.Predict(mat.NewDense(1, 3, []float64{0, 0, 0}))
	var shapeErr *errors.ShapeMismatchError
	assert.ErrorAs(t, err, &shapeErr)
}
