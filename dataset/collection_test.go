package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurogo/mvpa/pkg/errors"
)

func TestCollectionSetAndGet(t *testing.T) {
	c := NewCollection(4)

	require.NoError(t, c.Set("targets", Strings{"a", "a", "b", "b"}))
	require.NoError(t, c.Set("chunks", Ints{1, 1, 2, 2}))

	values, err := c.Get("targets")
	require.NoError(t, err)
	assert.Equal(t, Strings{"a", "a", "b", "b"}, values)

	assert.True(t, c.Has("chunks"))
	assert.False(t, c.Has("runs"))
	assert.Equal(t, []string{"chunks", "targets"}, c.Names())
}

func TestCollectionSetLengthMismatch(t *testing.T) {
	c := NewCollection(4)
	err := c.Set("targets", Strings{"a", "b"})
	require.Error(t, err)

	var lm *errors.LengthMismatchError
	require.True(t, errors.As(err, &lm))
	assert.Equal(t, 4, lm.Expected)
	assert.Equal(t, 2, lm.Got)

	// Failed Set must leave the collection untouched.
	assert.False(t, c.Has("targets"))
}

func TestCollectionRemove(t *testing.T) {
	c := NewCollection(2)
	require.NoError(t, c.Set("weights", Floats{0.5, 1.5}))
	require.NoError(t, c.Remove("weights"))
	assert.False(t, c.Has("weights"))
	require.Error(t, c.Remove("weights"))
}

func TestCollectionSelect(t *testing.T) {
	c := NewCollection(4)
	require.NoError(t, c.Set("targets", Strings{"a", "b", "c", "d"}))
	require.NoError(t, c.Set("chunks", Ints{1, 2, 3, 4}))

	sub, err := c.Select([]int{2, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, 3, sub.Length())

	targets, err := sub.Get("targets")
	require.NoError(t, err)
	assert.Equal(t, Strings{"c", "a", "c"}, targets)

	chunks, err := sub.Get("chunks")
	require.NoError(t, err)
	assert.Equal(t, Ints{3, 1, 3}, chunks)
}

func TestCollectionSelectOutOfRange(t *testing.T) {
	c := NewCollection(3)
	require.NoError(t, c.Set("x", Floats{1, 2, 3}))

	_, err := c.Select([]int{0, 5})
	var ie *errors.IndexOutOfRangeError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 5, ie.Index)
}

func TestCollectionUnconstrained(t *testing.T) {
	c := NewCollection(Unconstrained)
	require.NoError(t, c.Set("history", Strings{"zscore", "pca"}))
	require.NoError(t, c.Set("seed", Ints{42}))

	// Unconstrained collections pass through Select untouched.
	sub, err := c.Select([]int{0})
	require.NoError(t, err)
	history, err := sub.Get("history")
	require.NoError(t, err)
	assert.Equal(t, Strings{"zscore", "pca"}, history)
}

func TestCollectionCloneIsIndependent(t *testing.T) {
	c := NewCollection(2)
	require.NoError(t, c.Set("x", Floats{1, 2}))

	clone := c.Clone()
	orig, _ := c.Get("x")
	orig.(Floats)[0] = 99

	cloned, _ := clone.Get("x")
	assert.Equal(t, Floats{1, 2}, cloned)
}

func TestCollectionEqual(t *testing.T) {
	a := NewCollection(2)
	require.NoError(t, a.Set("x", Floats{1, 2}))
	b := NewCollection(2)
	require.NoError(t, b.Set("x", Floats{1, 2}))

	assert.True(t, a.Equal(b))

	require.NoError(t, b.Set("x", Floats{1, 3}))
	assert.False(t, a.Equal(b))

	require.NoError(t, b.Set("x", Floats{1, 2}))
	require.NoError(t, b.Set("y", Ints{0, 1}))
	assert.False(t, a.Equal(b))
}

func TestValuesTypeMismatchOnConcat(t *testing.T) {
	_, err := Floats{1}.concat(Ints{2})
	require.Error(t, err)
}

func TestCollectionUnsizedPinsOnFirstSet(t *testing.T) {
	c := NewCollection(Unsized)
	assert.Equal(t, Unsized, c.Length())

	require.NoError(t, c.Set("targets", Strings{"a", "b", "c"}))
	assert.Equal(t, 3, c.Length())

	// The first Set fixed the length; later attributes must match it.
	err := c.Set("chunks", Ints{1, 2})
	var lm *errors.LengthMismatchError
	require.True(t, errors.As(err, &lm))
	assert.Equal(t, 3, lm.Expected)

	require.NoError(t, c.Set("chunks", Ints{1, 1, 2}))
	assert.Equal(t, []string{"chunks", "targets"}, c.Names())
}
