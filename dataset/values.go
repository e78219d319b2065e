// Package dataset implements the labeled sample-by-feature container at the
// heart of mvpa: a dense numeric matrix kept in lockstep with three attribute
// collections (per-sample, per-feature, whole-dataset) under slicing,
// concatenation and copying.
package dataset

import (
	"github.com/neurogo/mvpa/pkg/errors"
)

// Values is a homogeneous attribute column. Exactly three concrete types
// exist: Floats, Ints and Strings. Attributes are stored as parallel arrays
// indexed by row or column position, never as per-row records.
type Values interface {
	// Len returns the number of elements.
	Len() int
	// clone returns an independent copy.
	clone() Values
	// gather returns a new Values holding the elements at idx, in order.
	// Callers must have validated idx against Len.
	gather(idx []int) Values
	// At boxes the element at i; the concrete type is float64, int or
	// string depending on the column type.
	At(i int) any
	// concat appends other, which must have the same concrete type.
	concat(other Values) (Values, error)
	// equal reports deep element-wise equality with other.
	equal(other Values) bool
}

// Floats is a float64 attribute column.
type Floats []float64

// Ints is an int attribute column.
type Ints []int

// Strings is a string attribute column.
type Strings []string

// Len returns the number of elements.
func (v Floats) Len() int { return len(v) }

// Len returns the number of elements.
func (v Ints) Len() int { return len(v) }

// Len returns the number of elements.
func (v Strings) Len() int { return len(v) }

func (v Floats) clone() Values {
	out := make(Floats, len(v))
	copy(out, v)
	return out
}

func (v Ints) clone() Values {
	out := make(Ints, len(v))
	copy(out, v)
	return out
}

func (v Strings) clone() Values {
	out := make(Strings, len(v))
	copy(out, v)
	return out
}

func (v Floats) gather(idx []int) Values {
	out := make(Floats, len(idx))
	for i, j := range idx {
		out[i] = v[j]
	}
	return out
}

func (v Ints) gather(idx []int) Values {
	out := make(Ints, len(idx))
	for i, j := range idx {
		out[i] = v[j]
	}
	return out
}

func (v Strings) gather(idx []int) Values {
	out := make(Strings, len(idx))
	for i, j := range idx {
		out[i] = v[j]
	}
	return out
}

// At boxes the element at i.
func (v Floats) At(i int) any { return v[i] }

// At boxes the element at i.
func (v Ints) At(i int) any { return v[i] }

// At boxes the element at i.
func (v Strings) At(i int) any { return v[i] }

func (v Floats) concat(other Values) (Values, error) {
	o, ok := other.(Floats)
	if !ok {
		return nil, errors.Newf("cannot concatenate float attribute with %T", other)
	}
	out := make(Floats, 0, len(v)+len(o))
	out = append(out, v...)
	out = append(out, o...)
	return out, nil
}

func (v Ints) concat(other Values) (Values, error) {
	o, ok := other.(Ints)
	if !ok {
		return nil, errors.Newf("cannot concatenate int attribute with %T", other)
	}
	out := make(Ints, 0, len(v)+len(o))
	out = append(out, v...)
	out = append(out, o...)
	return out, nil
}

func (v Strings) concat(other Values) (Values, error) {
	o, ok := other.(Strings)
	if !ok {
		return nil, errors.Newf("cannot concatenate string attribute with %T", other)
	}
	out := make(Strings, 0, len(v)+len(o))
	out = append(out, v...)
	out = append(out, o...)
	return out, nil
}

func (v Floats) equal(other Values) bool {
	o, ok := other.(Floats)
	if !ok || len(o) != len(v) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

func (v Ints) equal(other Values) bool {
	o, ok := other.(Ints)
	if !ok || len(o) != len(v) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

func (v Strings) equal(other Values) bool {
	o, ok := other.(Strings)
	if !ok || len(o) != len(v) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}
