package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLengthMismatchError(t *testing.T) {
	err := NewLengthMismatchError("Collection.Set", "targets", 4, 3)
	require.Error(t, err)

	var lm *LengthMismatchError
	require.True(t, As(err, &lm))
	assert.Equal(t, "targets", lm.Attribute)
	assert.Equal(t, 4, lm.Expected)
	assert.Equal(t, 3, lm.Got)
	assert.Contains(t, err.Error(), "mvpa: Collection.Set")
}

func TestIndexOutOfRangeError(t *testing.T) {
	err := NewIndexOutOfRangeError("Dataset.Slice", 0, 7, 4)
	var ie *IndexOutOfRangeError
	require.True(t, As(err, &ie))
	assert.Equal(t, 7, ie.Index)
	assert.Contains(t, err.Error(), "samples")

	err = NewIndexOutOfRangeError("Dataset.Slice", 1, 9, 3)
	require.True(t, As(err, &ie))
	assert.Contains(t, err.Error(), "features")
}

func TestNotTrainedError(t *testing.T) {
	err := NewNotTrainedError("PCA", "Forward")
	var nt *NotTrainedError
	require.True(t, As(err, &nt))
	assert.Equal(t, "PCA", nt.Name)
	assert.Contains(t, err.Error(), "call Fit() before Forward()")
}

func TestShapeMismatchError(t *testing.T) {
	err := NewShapeMismatchError("ZScore.Forward", 10, 7)
	var sm *ShapeMismatchError
	require.True(t, As(err, &sm))
	assert.Equal(t, 10, sm.Expected)
	assert.Equal(t, 7, sm.Got)
}

func TestInsufficientSamplesError(t *testing.T) {
	withTarget := NewInsufficientSamplesError("Balancer", "face", 1, 0)
	assert.Contains(t, withTarget.Error(), `target "face"`)

	withoutTarget := NewInsufficientSamplesError("CrossValidation", "", 2, 0)
	assert.Contains(t, withoutTarget.Error(), "need at least 2")
}

func TestLabelCardinalityError(t *testing.T) {
	err := NewLabelCardinalityError("PermutationTest", "targets", 1, 2)
	var lc *LabelCardinalityError
	require.True(t, As(err, &lc))
	assert.Equal(t, 1, lc.Distinct)
}

func TestWarnUsesInstalledHandler(t *testing.T) {
	var captured error
	old := warningHandler
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(old)

	w := NewEmptyNeighborhoodWarning(42)
	Warn(w)

	require.NotNil(t, captured)
	assert.Contains(t, captured.Error(), "center 42")
}

func TestErrorsCarryStackTraces(t *testing.T) {
	// WithStack-based constructors keep the typed error reachable via As.
	err := Wrap(NewShapeMismatchError("Chain.Forward", 5, 4), "stage 2")
	var sm *ShapeMismatchError
	require.True(t, As(err, &sm))
	assert.Contains(t, err.Error(), "stage 2")
}
