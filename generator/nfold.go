package generator

import (
	"fmt"
	"iter"
	"sort"

	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/pkg/errors"
)

// NFold is a leave-N-groups-out partitioner over a grouping sample
// attribute, canonically "chunks". Every combination of CVType groups serves
// as the test set exactly once while all remaining groups train, so the
// sequence is finite, disjoint per partition, and covers every sample in a
// test role (for CVType 1 exactly once).
type NFold struct {
	// Attr names the grouping sample attribute. Defaults to "chunks".
	Attr string
	// CVType is the number of groups held out per partition. Defaults to 1.
	CVType int
}

// NFoldOption configures an NFold partitioner.
type NFoldOption func(*NFold)

// WithAttr selects the grouping attribute.
func WithAttr(attr string) NFoldOption {
	return func(n *NFold) { n.Attr = attr }
}

// WithCVType sets the number of groups held out per partition.
func WithCVType(cvtype int) NFoldOption {
	return func(n *NFold) { n.CVType = cvtype }
}

// NewNFold creates a leave-one-group-out partitioner over "chunks".
func NewNFold(opts ...NFoldOption) *NFold {
	n := &NFold{Attr: dataset.AttrChunks, CVType: 1}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// groupIndex maps every distinct group value to the sample indices carrying
// it, with groups enumerated in sorted order for determinism.
func (n *NFold) groupIndex(ds *dataset.Dataset) ([]string, map[string][]int, error) {
	values, err := ds.SA().Get(n.Attr)
	if err != nil {
		return nil, nil, errors.Wrap(err, "NFold.Generate: grouping attribute")
	}
	members := make(map[string][]int)
	var order []string
	for i := 0; i < values.Len(); i++ {
		key := groupKey(values, i)
		if _, seen := members[key]; !seen {
			order = append(order, key)
		}
		members[key] = append(members[key], i)
	}
	sort.Strings(order)
	return order, members, nil
}

// Generate yields one partition per combination of CVType test groups, in
// lexicographic combination order over the sorted group values.
func (n *NFold) Generate(ds *dataset.Dataset) iter.Seq2[*Partition, error] {
	return func(yield func(*Partition, error) bool) {
		groups, members, err := n.groupIndex(ds)
		if err != nil {
			yield(nil, err)
			return
		}
		if len(groups) < 2 {
			yield(nil, errors.NewLabelCardinalityError("NFold.Generate", n.Attr, len(groups), 2))
			return
		}
		// holding out every group would leave nothing to train on
		if n.CVType < 1 || n.CVType >= len(groups) {
			yield(nil, errors.NewInsufficientSamplesError("NFold.Generate", "",
				n.CVType+1, len(groups)))
			return
		}

		fold := 0
		for combo := range combinations(len(groups), n.CVType) {
			p := &Partition{Fold: fold, Roles: make([]Role, ds.NSamples())}
			for i := range p.Roles {
				p.Roles[i] = RoleTrain
			}
			for _, g := range combo {
				for _, i := range members[groups[g]] {
					p.Roles[i] = RoleTest
				}
			}
			if !yield(p, nil) {
				return
			}
			fold++
		}
	}
}

// NumPartitions returns the number of test-group combinations.
func (n *NFold) NumPartitions(ds *dataset.Dataset) (int, error) {
	groups, _, err := n.groupIndex(ds)
	if err != nil {
		return 0, err
	}
	if n.CVType < 1 || n.CVType >= len(groups) {
		return 0, errors.NewInsufficientSamplesError("NFold.NumPartitions", "",
			n.CVType+1, len(groups))
	}
	return binomial(len(groups), n.CVType), nil
}

// combinations yields all k-subsets of {0..n-1} in lexicographic order.
func combinations(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		combo := make([]int, k)
		for i := range combo {
			combo[i] = i
		}
		for {
			out := make([]int, k)
			copy(out, combo)
			if !yield(out) {
				return
			}
			// advance to the next combination
			i := k - 1
			for i >= 0 && combo[i] == n-k+i {
				i--
			}
			if i < 0 {
				return
			}
			combo[i]++
			for j := i + 1; j < k; j++ {
				combo[j] = combo[j-1] + 1
			}
		}
	}
}

// groupKey renders one attribute element as a map key.
func groupKey(values dataset.Values, i int) string {
	return fmt.Sprintf("%v", values.At(i))
}

func binomial(n, k int) int {
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 0; i < k; i++ {
		result = result * (n - i) / (i + 1)
	}
	return result
}
