package measure

import (
	"math/rand/v2"

	"github.com/neurogo/mvpa/core/parallel"
	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/pkg/errors"
)

// PermutationTest estimates a null distribution for an inner measure by
// recomputing it on copies of the dataset with shuffled target labels.
//
// The inner measure is reused sequentially by default. Setting
// InnerFactory builds one measure per permutation and runs permutations in
// parallel, so a stateful inner measure (e.g. cross-validation with a
// shared learner) is never touched from two goroutines.
type PermutationTest struct {
	Inner Measure

	// N is the number of label permutations.
	N int

	// Seed drives the label shuffles. The same seed yields the same
	// permutation sequence regardless of scheduling.
	Seed uint64

	// InnerFactory, when set, builds one measure per permutation and
	// enables parallel evaluation.
	InnerFactory func() Measure
}

// NullDist holds the outcome of a permutation test.
type NullDist struct {
	// Observed is the inner measure on the unshuffled dataset.
	Observed float64

	// Null holds one inner-measure value per permutation.
	Null []float64
}

// PValue returns the fraction of null values at least as extreme (low) as
// the observed value, with the observed value counted as one draw. For an
// error measure a small p-value means the observed error is unusually low.
func (d *NullDist) PValue() float64 {
	extreme := 1
	for _, v := range d.Null {
		if v <= d.Observed {
			extreme++
		}
	}
	return float64(extreme) / float64(len(d.Null)+1)
}

// NewPermutationTest creates a permutation test around the inner measure.
func NewPermutationTest(inner Measure, n int, seed uint64) *PermutationTest {
	return &PermutationTest{Inner: inner, N: n, Seed: seed}
}

// Run computes the observed value and the permutation null distribution.
func (p *PermutationTest) Run(ds *dataset.Dataset) (*NullDist, error) {
	const op = "PermutationTest.Run"
	if p.Inner == nil && p.InnerFactory == nil {
		return nil, errors.New("mvpa: PermutationTest.Run: missing inner measure")
	}
	if p.N < 1 {
		return nil, errors.Newf("mvpa: PermutationTest.Run: need at least 1 permutation, got %d", p.N)
	}
	targets, err := ds.Targets()
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	if distinctLabels(targets) < 2 {
		return nil, errors.NewLabelCardinalityError(op, dataset.AttrTargets, distinctLabels(targets), 2)
	}

	inner := p.Inner
	if inner == nil {
		inner = p.InnerFactory()
	}
	observedResult, err := inner.Compute(ds)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	observed := ResultScalar(observedResult)

	// Draw all permutations up front so the sequence is fixed by the seed
	// alone, not by goroutine interleaving.
	rng := rand.New(rand.NewPCG(p.Seed, p.Seed))
	permuted := make([]dataset.Strings, p.N)
	for i := range permuted {
		shuffled := append(dataset.Strings(nil), targets...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		permuted[i] = shuffled
	}

	null := make([]float64, p.N)
	if p.InnerFactory != nil {
		errs := make([]error, p.N)
		parallel.Parallelize(p.N, func(start, end int) {
			m := p.InnerFactory()
			for i := start; i < end; i++ {
				null[i], errs[i] = p.runOne(m, ds, permuted[i])
			}
		})
		for _, e := range errs {
			if e != nil {
				return nil, errors.Wrap(e, op)
			}
		}
	} else {
		for i := range null {
			null[i], err = p.runOne(inner, ds, permuted[i])
			if err != nil {
				return nil, errors.Wrap(err, op)
			}
		}
	}
	return &NullDist{Observed: observed, Null: null}, nil
}

// runOne evaluates the inner measure on a shallow copy of the dataset with
// the given shuffled targets.
func (p *PermutationTest) runOne(m Measure, ds *dataset.Dataset, shuffled dataset.Strings) (float64, error) {
	perm := ds.Copy(false)
	if err := perm.SA().Set(dataset.AttrTargets, shuffled); err != nil {
		return 0, err
	}
	result, err := m.Compute(perm)
	if err != nil {
		return 0, err
	}
	return ResultScalar(result), nil
}

// distinctLabels counts the distinct values in a label vector.
func distinctLabels(labels dataset.Strings) int {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}
