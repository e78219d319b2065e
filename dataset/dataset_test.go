package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/neurogo/mvpa/pkg/errors"
)

// fourByThree builds the canonical 4x3 dataset with two chunks and two
// targets used across the partitioning and searchlight tests.
func fourByThree(t *testing.T) *Dataset {
	t.Helper()
	samples := mat.NewDense(4, 3, []float64{
		0, 1, 2,
		3, 4, 5,
		6, 7, 8,
		9, 10, 11,
	})
	ds, err := New(samples,
		WithTargets("a", "a", "b", "b"),
		WithChunks(1, 1, 2, 2),
	)
	require.NoError(t, err)
	return ds
}

func TestNewValidatesAttributeLengths(t *testing.T) {
	samples := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	_, err := New(samples, WithTargets("a", "b", "c"))
	var lm *errors.LengthMismatchError
	require.True(t, errors.As(err, &lm))

	_, err = New(samples, WithFeatureAttr("roi", Strings{"v1"}))
	require.True(t, errors.As(err, &lm))
}

func TestNewNilSamples(t *testing.T) {
	_, err := New(nil)
	require.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestDatasetAccessors(t *testing.T) {
	ds := fourByThree(t)

	assert.Equal(t, 4, ds.NSamples())
	assert.Equal(t, 3, ds.NFeatures())
	r, c := ds.Shape()
	assert.Equal(t, 4, r)
	assert.Equal(t, 3, c)

	targets, err := ds.Targets()
	require.NoError(t, err)
	assert.Equal(t, Strings{"a", "a", "b", "b"}, targets)

	chunks, err := ds.Chunks()
	require.NoError(t, err)
	assert.Equal(t, Ints{1, 1, 2, 2}, chunks)
}

func TestSliceByIndices(t *testing.T) {
	ds := fourByThree(t)

	sub, err := ds.Slice(Indices(1, 3), Indices(0, 2))
	require.NoError(t, err)

	assert.Equal(t, 2, sub.NSamples())
	assert.Equal(t, 2, sub.NFeatures())
	assert.Equal(t, 3.0, sub.Samples().At(0, 0))
	assert.Equal(t, 5.0, sub.Samples().At(0, 1))
	assert.Equal(t, 9.0, sub.Samples().At(1, 0))
	assert.Equal(t, 11.0, sub.Samples().At(1, 1))

	targets, err := sub.Targets()
	require.NoError(t, err)
	assert.Equal(t, Strings{"a", "b"}, targets)
}

func TestSliceByMask(t *testing.T) {
	ds := fourByThree(t)

	sub, err := ds.Slice(Mask(true, false, false, true), All())
	require.NoError(t, err)
	assert.Equal(t, 2, sub.NSamples())
	assert.Equal(t, 3, sub.NFeatures())

	chunks, err := sub.Chunks()
	require.NoError(t, err)
	assert.Equal(t, Ints{1, 2}, chunks)
}

func TestSliceByAttributePredicate(t *testing.T) {
	ds := fourByThree(t)

	sub, err := ds.SliceSamples(TargetsIn("b"))
	require.NoError(t, err)
	assert.Equal(t, 2, sub.NSamples())
	assert.Equal(t, 6.0, sub.Samples().At(0, 0))

	sub, err = ds.SliceSamples(ChunksIn(1))
	require.NoError(t, err)
	chunks, err := sub.Chunks()
	require.NoError(t, err)
	assert.Equal(t, Ints{1, 1}, chunks)
}

func TestSliceOutOfRange(t *testing.T) {
	ds := fourByThree(t)

	_, err := ds.Slice(Indices(4), All())
	var ie *errors.IndexOutOfRangeError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 0, ie.Axis)

	_, err = ds.Slice(All(), Indices(-1))
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 1, ie.Axis)
}

func TestSliceWrongMaskLength(t *testing.T) {
	ds := fourByThree(t)
	_, err := ds.Slice(Mask(true, false), All())
	var lm *errors.LengthMismatchError
	require.True(t, errors.As(err, &lm))
}

func TestSliceEmptySelection(t *testing.T) {
	ds := fourByThree(t)
	_, err := ds.SliceSamples(TargetsIn("z"))
	require.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestSliceIsIndependentCopy(t *testing.T) {
	ds := fourByThree(t)

	sub, err := ds.Slice(Indices(0), Indices(0))
	require.NoError(t, err)

	sub.Samples().Set(0, 0, 999)
	assert.Equal(t, 0.0, ds.Samples().At(0, 0))

	targets, _ := sub.Targets()
	targets[0] = "mutated"
	orig, _ := ds.Targets()
	assert.Equal(t, "a", orig[0])
}

func TestSliceShapeProperty(t *testing.T) {
	ds := fourByThree(t)

	for _, tc := range []struct {
		rows, cols []int
	}{
		{[]int{0}, []int{0}},
		{[]int{0, 1, 2}, []int{1, 2}},
		{[]int{3, 2, 1, 0}, []int{2, 1, 0}},
	} {
		sub, err := ds.Slice(Indices(tc.rows...), Indices(tc.cols...))
		require.NoError(t, err)
		assert.Equal(t, len(tc.rows), sub.NSamples())
		assert.Equal(t, len(tc.cols), sub.NFeatures())
		for i, r := range tc.rows {
			for j, c := range tc.cols {
				assert.Equal(t, ds.Samples().At(r, c), sub.Samples().At(i, j))
			}
		}
	}
}

func TestConcatSamples(t *testing.T) {
	ds := fourByThree(t)
	top, err := ds.SliceSamples(Indices(0, 1))
	require.NoError(t, err)
	bottom, err := ds.SliceSamples(Indices(2, 3))
	require.NoError(t, err)

	merged, err := top.ConcatSamples(bottom)
	require.NoError(t, err)
	assert.Equal(t, 4, merged.NSamples())

	targets, err := merged.Targets()
	require.NoError(t, err)
	assert.Equal(t, Strings{"a", "a", "b", "b"}, targets)
	assert.True(t, mat.Equal(ds.Samples(), merged.Samples()))
}

func TestConcatSamplesAttributeMismatch(t *testing.T) {
	samples := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	a, err := New(samples, WithTargets("a", "b"), WithFeatureAttr("roi", Strings{"v1", "v2"}))
	require.NoError(t, err)
	b, err := New(mat.DenseCopyOf(samples), WithTargets("c", "d"), WithFeatureAttr("roi", Strings{"v1", "mt"}))
	require.NoError(t, err)

	_, err = a.ConcatSamples(b)
	var am *errors.AttributeMismatchError
	require.True(t, errors.As(err, &am))
}

func TestConcatSamplesMissingSampleAttr(t *testing.T) {
	samples := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	a, err := New(samples, WithTargets("a", "b"), WithChunks(1, 2))
	require.NoError(t, err)
	b, err := New(mat.DenseCopyOf(samples), WithTargets("c", "d"))
	require.NoError(t, err)

	_, err = a.ConcatSamples(b)
	var am *errors.AttributeMismatchError
	require.True(t, errors.As(err, &am))
	assert.Equal(t, "chunks", am.Attribute)
}

func TestConcatFeatures(t *testing.T) {
	ds := fourByThree(t)
	left, err := ds.SliceFeatures(Indices(0))
	require.NoError(t, err)
	right, err := ds.SliceFeatures(Indices(1, 2))
	require.NoError(t, err)

	merged, err := left.ConcatFeatures(right)
	require.NoError(t, err)
	assert.Equal(t, 3, merged.NFeatures())
	assert.True(t, mat.Equal(ds.Samples(), merged.Samples()))
}

func TestConcatFeaturesSampleAttrMismatch(t *testing.T) {
	a, err := New(mat.NewDense(2, 1, []float64{1, 2}), WithTargets("a", "b"))
	require.NoError(t, err)
	b, err := New(mat.NewDense(2, 1, []float64{3, 4}), WithTargets("x", "y"))
	require.NoError(t, err)

	_, err = a.ConcatFeatures(b)
	var am *errors.AttributeMismatchError
	require.True(t, errors.As(err, &am))
}

func TestCopyDeep(t *testing.T) {
	ds := fourByThree(t)
	cp := ds.Copy(true)

	cp.Samples().Set(0, 0, 123)
	assert.Equal(t, 0.0, ds.Samples().At(0, 0))
}

func TestCopyShallowSharesMatrix(t *testing.T) {
	ds := fourByThree(t)
	cp := ds.Copy(false)

	// Shallow copies share the matrix read-only but own their collections.
	assert.Same(t, ds.Samples(), cp.Samples())
	require.NoError(t, cp.SA().Remove(AttrChunks))
	assert.True(t, ds.SA().Has(AttrChunks))
}

func TestDatasetAttrsSurviveSlicing(t *testing.T) {
	samples := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	ds, err := New(samples,
		WithTargets("a", "b"),
		WithDatasetAttr("history", Strings{"raw"}),
	)
	require.NoError(t, err)

	sub, err := ds.Slice(Indices(0), Indices(1))
	require.NoError(t, err)

	history, err := sub.A().Get("history")
	require.NoError(t, err)
	assert.Equal(t, Strings{"raw"}, history)
}
