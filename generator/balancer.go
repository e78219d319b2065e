package generator

import (
	"iter"
	"math/rand/v2"
	"sort"

	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/pkg/errors"
)

// Balancer wraps a partitioner and equalizes per-target sample counts within
// each role of every generated partition: majority targets are randomly
// subsampled down to the minority count and the surplus samples demoted to
// RoleExcluded. Subsampling uses an explicit seed, so the sequence is
// reproducible and restartable regardless of consumer scheduling.
type Balancer struct {
	// Inner generates the partitions to balance.
	Inner Partitioner
	// Attr names the target attribute to equalize. Defaults to "targets".
	Attr string
	// Seed drives the subsampling RNG.
	Seed uint64
}

// NewBalancer wraps inner with target balancing over "targets".
func NewBalancer(inner Partitioner, seed uint64) *Balancer {
	return &Balancer{Inner: inner, Attr: dataset.AttrTargets, Seed: seed}
}

// Generate yields the inner sequence with each partition balanced. A target
// with zero representatives in a non-empty role fails the whole sequence
// with InsufficientSamplesError.
func (b *Balancer) Generate(ds *dataset.Dataset) iter.Seq2[*Partition, error] {
	return func(yield func(*Partition, error) bool) {
		values, err := ds.SA().Get(b.Attr)
		if err != nil {
			yield(nil, errors.Wrap(err, "Balancer.Generate: target attribute"))
			return
		}

		// distinct targets in sorted order
		seen := make(map[string]struct{})
		var targets []string
		for i := 0; i < values.Len(); i++ {
			key := groupKey(values, i)
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				targets = append(targets, key)
			}
		}
		sort.Strings(targets)

		rng := rand.New(rand.NewPCG(b.Seed, b.Seed))
		for p, innerErr := range b.Inner.Generate(ds) {
			if innerErr != nil {
				yield(nil, innerErr)
				return
			}
			balanced := p.clone()
			for _, role := range []Role{RoleTrain, RoleTest} {
				if err := b.balanceRole(balanced, values, targets, role, rng); err != nil {
					yield(nil, err)
					return
				}
			}
			if !yield(balanced, nil) {
				return
			}
		}
	}
}

// balanceRole demotes randomly chosen samples of over-represented targets
// until every target holds the minority count within the role.
func (b *Balancer) balanceRole(p *Partition, values dataset.Values, targets []string, role Role, rng *rand.Rand) error {
	perTarget := make(map[string][]int, len(targets))
	inRole := 0
	for i, r := range p.Roles {
		if r != role {
			continue
		}
		key := groupKey(values, i)
		perTarget[key] = append(perTarget[key], i)
		inRole++
	}
	if inRole == 0 {
		return nil
	}

	minority := -1
	for _, target := range targets {
		count := len(perTarget[target])
		if count == 0 {
			return errors.NewInsufficientSamplesError("Balancer.Generate", target, 1, 0)
		}
		if minority == -1 || count < minority {
			minority = count
		}
	}

	discarded := 0
	for _, target := range targets {
		idx := perTarget[target]
		if len(idx) == minority {
			continue
		}
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		for _, i := range idx[minority:] {
			p.Roles[i] = RoleExcluded
			discarded++
		}
	}
	if discarded > 0 {
		errors.Warn(errors.NewBalancingWarning(discarded, inRole-discarded))
	}
	return nil
}

// NumPartitions matches the inner partitioner.
func (b *Balancer) NumPartitions(ds *dataset.Dataset) (int, error) {
	return b.Inner.NumPartitions(ds)
}
