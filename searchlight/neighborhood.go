// Package searchlight evaluates a measure on many small feature
// neighborhoods of a dataset, producing one value per neighborhood center.
// Neighborhoods are defined either explicitly by index or geometrically from
// per-feature coordinates.
package searchlight

import (
	"sort"

	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/pkg/errors"
)

// Neighborhood maps center features to the feature indices forming their
// neighborhood. Implementations must be safe for concurrent reads.
type Neighborhood interface {
	// Centers returns the center feature indices in evaluation order.
	Centers() []int

	// Neighbors returns the feature indices around the given center,
	// including or excluding the center as the implementation sees fit.
	Neighbors(center int) []int
}

// IndexNeighborhood is a literal center-to-neighbors table.
type IndexNeighborhood struct {
	table   map[int][]int
	centers []int
}

// NewIndexNeighborhood builds a neighborhood from an explicit table.
// Centers are ordered by ascending index.
func NewIndexNeighborhood(table map[int][]int) *IndexNeighborhood {
	centers := make([]int, 0, len(table))
	copied := make(map[int][]int, len(table))
	for center, neighbors := range table {
		centers = append(centers, center)
		copied[center] = append([]int(nil), neighbors...)
	}
	sort.Ints(centers)
	return &IndexNeighborhood{table: copied, centers: centers}
}

// Centers returns the center indices in ascending order.
func (n *IndexNeighborhood) Centers() []int {
	return n.centers
}

// Neighbors returns the table entry for the center, nil when absent.
func (n *IndexNeighborhood) Neighbors(center int) []int {
	return n.table[center]
}

// Sphere defines neighborhoods as all features within a Euclidean radius of
// the center, using per-feature coordinates stored as feature attributes.
type Sphere struct {
	coords [][]float64
	radius float64
}

// NewSphere reads one coordinate per feature from each named feature
// attribute and pairs every feature with the others within the radius. All
// coordinate attributes must hold Floats.
func NewSphere(ds *dataset.Dataset, radius float64, coordAttrs ...string) (*Sphere, error) {
	const op = "searchlight.NewSphere"
	if radius < 0 {
		return nil, errors.Newf("mvpa: %s: negative radius %v", op, radius)
	}
	if len(coordAttrs) == 0 {
		return nil, errors.Newf("mvpa: %s: no coordinate attributes", op)
	}
	nf := ds.NFeatures()
	coords := make([][]float64, nf)
	for i := range coords {
		coords[i] = make([]float64, len(coordAttrs))
	}
	for d, attr := range coordAttrs {
		values, err := ds.FA().Get(attr)
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		axis, ok := values.(dataset.Floats)
		if !ok {
			return nil, errors.NewAttributeMismatchError(op, attr, "coordinate attribute is not Floats")
		}
		for i := 0; i < nf; i++ {
			coords[i][d] = axis[i]
		}
	}
	return &Sphere{coords: coords, radius: radius}, nil
}

// Centers returns every feature index.
func (s *Sphere) Centers() []int {
	centers := make([]int, len(s.coords))
	for i := range centers {
		centers[i] = i
	}
	return centers
}

// Neighbors returns the features within the radius of the center, the
// center itself included.
func (s *Sphere) Neighbors(center int) []int {
	if center < 0 || center >= len(s.coords) {
		return nil
	}
	c := s.coords[center]
	r2 := s.radius * s.radius
	var neighbors []int
	for i, p := range s.coords {
		var d2 float64
		for d := range c {
			diff := p[d] - c[d]
			d2 += diff * diff
		}
		if d2 <= r2 {
			neighbors = append(neighbors, i)
		}
	}
	return neighbors
}
