package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/neurogo/mvpa/clf"
	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/generator"
	"github.com/neurogo/mvpa/pkg/errors"
)

// twoChunkDataset has two well separated classes, one sample of each per
// chunk, so leave-one-chunk-out 1-NN classifies it perfectly.
func twoChunkDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		mat.NewDense(4, 3, []float64{
			0.0, 0.0, 0.0,
			1.0, 1.0, 1.0,
			0.1, 0.0, 0.1,
			0.9, 1.0, 0.9,
		}),
		dataset.WithTargets("a", "b", "a", "b"),
		dataset.WithChunks(1, 1, 2, 2),
	)
	require.NoError(t, err)
	return ds
}

func TestMeanMismatch(t *testing.T) {
	assert.Equal(t, 0.0, MeanMismatch([]string{"a", "b"}, []string{"a", "b"}))
	assert.Equal(t, 0.5, MeanMismatch([]string{"a", "a"}, []string{"a", "b"}))
	assert.Equal(t, 1.0, MeanMismatch([]string{"b", "a"}, []string{"a", "b"}))
	assert.Equal(t, 0.0, MeanMismatch(nil, nil))
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.5, Accuracy([]string{"a", "a"}, []string{"a", "b"}))
}

func TestMeanSamples(t *testing.T) {
	ds, err := dataset.New(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	require.NoError(t, err)

	result, err := NewMeanSamples().Compute(ds)
	require.NoError(t, err)
	r, c := result.Shape()
	assert.Equal(t, 1, r)
	assert.Equal(t, 1, c)
	assert.InDelta(t, 2.5, result.Samples().At(0, 0), 1e-12)
}

func TestFxMeasure(t *testing.T) {
	ds, err := dataset.New(mat.NewDense(2, 2, []float64{1, 2, 3, 4}))
	require.NoError(t, err)

	m := NewFxMeasure(func(samples *mat.Dense) float64 {
		return samples.At(1, 1)
	})
	result, err := m.Compute(ds)
	require.NoError(t, err)
	assert.Equal(t, 4.0, result.Samples().At(0, 0))

	_, err = (&FxMeasure{}).Compute(ds)
	assert.Error(t, err)
}

func TestResultScalar(t *testing.T) {
	result, err := dataset.New(mat.NewDense(3, 1, []float64{0.0, 0.5, 1.0}))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, ResultScalar(result), 1e-12)
}

func TestCrossValidationPerfectSeparation(t *testing.T) {
	ds := twoChunkDataset(t)
	cv := NewCrossValidation(clf.NewKNN(1), generator.NewNFold())

	result, err := cv.Compute(ds)
	require.NoError(t, err)
	r, c := result.Shape()
	assert.Equal(t, 1, r)
	assert.Equal(t, 1, c)
	assert.Equal(t, 0.0, result.Samples().At(0, 0))
}

func TestCrossValidationPerFold(t *testing.T) {
	ds := twoChunkDataset(t)
	cv := NewCrossValidation(clf.NewKNN(1), generator.NewNFold(), WithPerFoldResults())

	result, err := cv.Compute(ds)
	require.NoError(t, err)
	r, _ := result.Shape()
	assert.Equal(t, 2, r)

	folds, err := result.SA().Get(AttrFold)
	require.NoError(t, err)
	assert.Equal(t, dataset.Ints{0, 1}, folds)
	for i := 0; i < r; i++ {
		assert.Equal(t, 0.0, result.Samples().At(i, 0))
	}
}

func TestCrossValidationAccuracyFx(t *testing.T) {
	ds := twoChunkDataset(t)
	cv := NewCrossValidation(clf.NewKNN(1), generator.NewNFold(), WithErrFx(Accuracy))

	result, err := cv.Compute(ds)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Samples().At(0, 0))
}

func TestCrossValidationParallelMatchesSequential(t *testing.T) {
	ds := twoChunkDataset(t)

	sequential := NewCrossValidation(clf.NewKNN(1), generator.NewNFold(), WithPerFoldResults())
	seqResult, err := sequential.Compute(ds)
	require.NoError(t, err)

	parallel := NewCrossValidation(nil, generator.NewNFold(),
		WithPerFoldResults(),
		WithLearnerFactory(func() clf.Classifier { return clf.NewKNN(1) }))
	parResult, err := parallel.Compute(ds)
	require.NoError(t, err)

	r, _ := seqResult.Shape()
	pr, _ := parResult.Shape()
	require.Equal(t, r, pr)
	for i := 0; i < r; i++ {
		assert.Equal(t, seqResult.Samples().At(i, 0), parResult.Samples().At(i, 0))
	}
}

func TestCrossValidationMissingParts(t *testing.T) {
	ds := twoChunkDataset(t)

	_, err := (&CrossValidation{Learner: clf.NewKNN(1)}).Compute(ds)
	assert.Error(t, err)

	_, err = (&CrossValidation{Part: generator.NewNFold()}).Compute(ds)
	assert.Error(t, err)
}

// halfA is a label-dependent test measure: the fraction of "a" targets in
// the first half of the samples.
type halfA struct{}

func (halfA) Compute(ds *dataset.Dataset) (*dataset.Dataset, error) {
	targets, err := ds.Targets()
	if err != nil {
		return nil, err
	}
	half := len(targets) / 2
	count := 0
	for i := 0; i < half; i++ {
		if targets[i] == "a" {
			count++
		}
	}
	return dataset.New(mat.NewDense(1, 1, []float64{float64(count) / float64(half)}))
}

func TestPermutationTestLabelIndependentMeasure(t *testing.T) {
	ds := twoChunkDataset(t)
	inner := NewFxMeasure(func(samples *mat.Dense) float64 { return samples.At(0, 1) })

	dist, err := NewPermutationTest(inner, 20, 42).Run(ds)
	require.NoError(t, err)
	require.Len(t, dist.Null, 20)
	for _, v := range dist.Null {
		assert.Equal(t, dist.Observed, v)
	}
	// Every null value ties the observed one, so the p-value is 1.
	assert.Equal(t, 1.0, dist.PValue())
}

func TestPermutationTestDeterministic(t *testing.T) {
	ds := twoChunkDataset(t)

	first, err := NewPermutationTest(halfA{}, 50, 7).Run(ds)
	require.NoError(t, err)
	second, err := NewPermutationTest(halfA{}, 50, 7).Run(ds)
	require.NoError(t, err)
	assert.Equal(t, first.Null, second.Null)
	assert.Equal(t, first.Observed, second.Observed)
}

func TestPermutationTestShufflesLabels(t *testing.T) {
	ds := twoChunkDataset(t)

	dist, err := NewPermutationTest(halfA{}, 100, 3).Run(ds)
	require.NoError(t, err)
	// First half of the unshuffled targets is {"a", "b"}.
	assert.Equal(t, 0.5, dist.Observed)
	seen := make(map[float64]bool)
	for _, v := range dist.Null {
		seen[v] = true
	}
	// With 100 shuffles of a 2x2 label vector all three first-half
	// compositions show up.
	assert.True(t, seen[0.0] && seen[0.5] && seen[1.0])

	p := dist.PValue()
	assert.Greater(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
}

func TestPermutationTestParallelMatchesSequential(t *testing.T) {
	ds := twoChunkDataset(t)

	sequential, err := NewPermutationTest(halfA{}, 30, 11).Run(ds)
	require.NoError(t, err)

	parallel := &PermutationTest{
		N:            30,
		Seed:         11,
		InnerFactory: func() Measure { return halfA{} },
	}
	parResult, err := parallel.Run(ds)
	require.NoError(t, err)
	assert.Equal(t, sequential.Null, parResult.Null)
}

func TestPermutationTestSingleLabel(t *testing.T) {
	ds, err := dataset.New(
		mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		dataset.WithTargets("a", "a"),
	)
	require.NoError(t, err)

	_, err = NewPermutationTest(NewMeanSamples(), 10, 1).Run(ds)
	var cardErr *errors.LabelCardinalityError
	require.ErrorAs(t, err, &cardErr)
	assert.Equal(t, 1, cardErr.Distinct)
}

func TestPermutationTestLeavesDatasetIntact(t *testing.T) {
	ds := twoChunkDataset(t)
	before, err := ds.Targets()
	require.NoError(t, err)
	beforeCopy := append(dataset.Strings(nil), before...)

	_, err = NewPermutationTest(halfA{}, 10, 5).Run(ds)
	require.NoError(t, err)

	after, err := ds.Targets()
	require.NoError(t, err)
	assert.Equal(t, beforeCopy, after)
}

func TestNullDistPValue(t *testing.T) {
	dist := &NullDist{Observed: 0.1, Null: []float64{0.5, 0.4, 0.05, 0.6}}
	// One null value at or below the observed, plus the observed itself.
	assert.InDelta(t, 2.0/5.0, dist.PValue(), 1e-12)
}
