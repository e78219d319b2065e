package dataset

import (
	"sort"

	"github.com/neurogo/mvpa/pkg/errors"
)

// Unconstrained marks a collection whose attributes have no shared length,
// used for whole-dataset attributes such as provenance or mapper history.
const Unconstrained = -1

// Unsized marks a standalone collection created without a known length; the
// first attribute stored in it fixes the length for all later ones.
// Collections owned by a dataset are always created with the axis length and
// never pass through this state.
const Unsized = -2

// Collection is a named mapping from attribute name to a homogeneous value
// column. All columns in one constrained collection share an identical
// length: the sample count for sample attributes, the feature count for
// feature attributes.
type Collection struct {
	attrs  map[string]Values
	length int
}

// NewCollection creates an empty collection pinned to the given length.
// Pass Unconstrained for whole-dataset attributes, or Unsized to let the
// first Set fix the length.
func NewCollection(length int) *Collection {
	return &Collection{
		attrs:  make(map[string]Values),
		length: length,
	}
}

// Length returns the pinned length, or Unconstrained.
func (c *Collection) Length() int {
	return c.length
}

// Has reports whether an attribute with the given name exists.
func (c *Collection) Has(name string) bool {
	_, ok := c.attrs[name]
	return ok
}

// Names returns all attribute names in sorted order.
func (c *Collection) Names() []string {
	names := make([]string, 0, len(c.attrs))
	for name := range c.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the attribute column stored under name.
func (c *Collection) Get(name string) (Values, error) {
	values, ok := c.attrs[name]
	if !ok {
		return nil, errors.Newf("mvpa: Collection.Get: no attribute %q", name)
	}
	return values, nil
}

// Set stores values under name. On a constrained collection the length of
// values must match the pinned length; the first Set on an Unsized collection
// fixes it. Set never partially mutates: on error the collection is
// unchanged.
func (c *Collection) Set(name string, values Values) error {
	if c.length == Unconstrained {
		c.attrs[name] = values
		return nil
	}
	if c.length == Unsized {
		c.length = values.Len()
		c.attrs[name] = values
		return nil
	}
	if c.length != values.Len() {
		return errors.NewLengthMismatchError("Collection.Set", name, c.length, values.Len())
	}
	c.attrs[name] = values
	return nil
}

// Remove deletes the attribute stored under name.
func (c *Collection) Remove(name string) error {
	if _, ok := c.attrs[name]; !ok {
		return errors.Newf("mvpa: Collection.Remove: no attribute %q", name)
	}
	delete(c.attrs, name)
	return nil
}

// Select returns a new collection holding, for every attribute, the elements
// at idx in order. Indices may repeat and reorder. Out-of-range indices fail
// with an IndexOutOfRangeError and leave no partial result.
func (c *Collection) Select(idx []int) (*Collection, error) {
	if c.length >= 0 {
		for _, i := range idx {
			if i < 0 || i >= c.length {
				return nil, errors.NewIndexOutOfRangeError("Collection.Select", 0, i, c.length)
			}
		}
	}
	out := NewCollection(len(idx))
	if c.length == Unconstrained {
		out.length = Unconstrained
	}
	for name, values := range c.attrs {
		if c.length == Unconstrained {
			out.attrs[name] = values.clone()
			continue
		}
		out.attrs[name] = values.gather(idx)
	}
	return out, nil
}

// Clone returns an independent deep copy of the collection.
func (c *Collection) Clone() *Collection {
	out := NewCollection(c.length)
	for name, values := range c.attrs {
		out.attrs[name] = values.clone()
	}
	return out
}

// Equal reports whether both collections hold the same attributes with
// element-wise equal values.
func (c *Collection) Equal(other *Collection) bool {
	if len(c.attrs) != len(other.attrs) {
		return false
	}
	for name, values := range c.attrs {
		ov, ok := other.attrs[name]
		if !ok || !values.equal(ov) {
			return false
		}
	}
	return true
}

// setLength re-pins the collection length. Used internally after sample
// concatenation, mirroring how merged datasets adjust their attribute
// bookkeeping before the columns themselves are extended.
func (c *Collection) setLength(length int) {
	c.length = length
}
