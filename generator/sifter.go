package generator

import (
	"iter"

	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/pkg/errors"
)

// Sifter wraps a partitioner and drops partitions whose test set does not
// contain every required value of an attribute. The typical use is leave-
// two-chunks-out partitioning where only test sets holding both targets are
// statistically meaningful.
type Sifter struct {
	// Inner generates the candidate partitions.
	Inner Partitioner
	// Attr names the sample attribute to check. Defaults to "targets".
	Attr string
	// Required lists the values that must all appear among test samples.
	Required []string
}

// NewSifter wraps inner, keeping only partitions whose test samples cover
// all required values of "targets".
func NewSifter(inner Partitioner, required ...string) *Sifter {
	return &Sifter{Inner: inner, Attr: dataset.AttrTargets, Required: required}
}

// Generate yields the surviving partitions with folds renumbered densely.
func (s *Sifter) Generate(ds *dataset.Dataset) iter.Seq2[*Partition, error] {
	return func(yield func(*Partition, error) bool) {
		values, err := ds.SA().Get(s.Attr)
		if err != nil {
			yield(nil, errors.Wrap(err, "Sifter.Generate: attribute"))
			return
		}
		fold := 0
		for p, innerErr := range s.Inner.Generate(ds) {
			if innerErr != nil {
				yield(nil, innerErr)
				return
			}
			if !s.covers(p, values) {
				continue
			}
			kept := p.clone()
			kept.Fold = fold
			if !yield(kept, nil) {
				return
			}
			fold++
		}
	}
}

func (s *Sifter) covers(p *Partition, values dataset.Values) bool {
	present := make(map[string]struct{})
	for i, r := range p.Roles {
		if r == RoleTest {
			present[groupKey(values, i)] = struct{}{}
		}
	}
	for _, want := range s.Required {
		if _, ok := present[want]; !ok {
			return false
		}
	}
	return true
}

// NumPartitions counts the partitions that survive sifting; it consumes the
// inner sequence to do so.
func (s *Sifter) NumPartitions(ds *dataset.Dataset) (int, error) {
	count := 0
	for _, err := range s.Generate(ds) {
		if err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}
