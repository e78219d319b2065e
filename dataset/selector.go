package dataset

import (
	"github.com/neurogo/mvpa/pkg/errors"
)

// Selector picks a subset of one dataset axis. Implementations resolve to a
// concrete index list against the axis size and attribute collection; the
// same selector can be applied to either axis.
type Selector interface {
	resolve(col *Collection, size int, op string, axis int) ([]int, error)
}

type indexSelector struct {
	idx []int
}

// Indices selects the given positions in order. Positions may repeat.
func Indices(idx ...int) Selector {
	return &indexSelector{idx: idx}
}

func (s *indexSelector) resolve(_ *Collection, size int, op string, axis int) ([]int, error) {
	for _, i := range s.idx {
		if i < 0 || i >= size {
			return nil, errors.NewIndexOutOfRangeError(op, axis, i, size)
		}
	}
	out := make([]int, len(s.idx))
	copy(out, s.idx)
	return out, nil
}

type maskSelector struct {
	mask []bool
}

// Mask selects the positions where the mask is true. The mask length must
// equal the axis size.
func Mask(mask ...bool) Selector {
	return &maskSelector{mask: mask}
}

func (s *maskSelector) resolve(_ *Collection, size int, op string, _ int) ([]int, error) {
	if len(s.mask) != size {
		return nil, errors.NewLengthMismatchError(op, "mask", size, len(s.mask))
	}
	var out []int
	for i, keep := range s.mask {
		if keep {
			out = append(out, i)
		}
	}
	return out, nil
}

type allSelector struct{}

// All selects the entire axis unchanged.
func All() Selector {
	return allSelector{}
}

func (allSelector) resolve(_ *Collection, size int, _ string, _ int) ([]int, error) {
	out := make([]int, size)
	for i := range out {
		out[i] = i
	}
	return out, nil
}

type whereSelector struct {
	attr string
	pred func(value any) bool
}

// Where selects the positions at which pred holds for the named attribute of
// the sliced axis. The boxed value is float64, int or string depending on the
// attribute column type.
func Where(attr string, pred func(value any) bool) Selector {
	return &whereSelector{attr: attr, pred: pred}
}

func (s *whereSelector) resolve(col *Collection, size int, op string, _ int) ([]int, error) {
	values, err := col.Get(s.attr)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: selector attribute", op)
	}
	var out []int
	for i := 0; i < size; i++ {
		if s.pred(values.At(i)) {
			out = append(out, i)
		}
	}
	return out, nil
}

// TargetsIn selects samples whose "targets" value is one of the given labels.
func TargetsIn(labels ...string) Selector {
	set := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		set[l] = struct{}{}
	}
	return Where(AttrTargets, func(value any) bool {
		s, ok := value.(string)
		if !ok {
			return false
		}
		_, hit := set[s]
		return hit
	})
}

// ChunksIn selects samples whose "chunks" value is one of the given groups.
func ChunksIn(chunks ...int) Selector {
	set := make(map[int]struct{}, len(chunks))
	for _, c := range chunks {
		set[c] = struct{}{}
	}
	return Where(AttrChunks, func(value any) bool {
		c, ok := value.(int)
		if !ok {
			return false
		}
		_, hit := set[c]
		return hit
	})
}
