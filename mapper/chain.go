package mapper

import (
	"gonum.org/v1/gonum/mat"

	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/pkg/errors"
)

// Chain composes mappers into a single transformation. Forward applies the
// stages left-to-right, Reverse right-to-left. Fitting a chain fits stage k
// on the forward output of stages 1..k-1 applied to the training data. An
// empty chain is the identity mapper.
type Chain struct {
	base
	stages []Mapper
}

// NewChain creates a chain over the given stages, in application order.
func NewChain(stages ...Mapper) *Chain {
	owned := make([]Mapper, len(stages))
	copy(owned, stages)
	return &Chain{
		base:   base{name: "Chain"},
		stages: owned,
	}
}

// Append adds a stage to the end of an untrained chain.
func (m *Chain) Append(stage Mapper) error {
	if m.trained {
		return errors.New("mvpa: Chain.Append: cannot extend a trained chain")
	}
	m.stages = append(m.stages, stage)
	return nil
}

// Len returns the number of stages.
func (m *Chain) Len() int { return len(m.stages) }

// Fit trains every stage in sequence, feeding each one the forward-mapped
// output of its predecessors.
func (m *Chain) Fit(ds *dataset.Dataset) error {
	cur := ds
	for i, stage := range m.stages {
		if err := stage.Fit(cur); err != nil {
			return errors.Wrapf(err, "Chain.Fit: stage %d", i)
		}
		if i < len(m.stages)-1 {
			mapped, err := stage.ForwardDataset(cur)
			if err != nil {
				return errors.Wrapf(err, "Chain.Fit: stage %d", i)
			}
			cur = mapped
		}
	}

	inSize := ds.NFeatures()
	outSize := inSize
	if n := len(m.stages); n > 0 {
		inSize = m.stages[0].InSize()
		outSize = m.stages[n-1].OutSize()
	}
	m.setTrained(inSize, outSize)
	return nil
}

// Forward applies the stages left-to-right.
func (m *Chain) Forward(data mat.Matrix) (*mat.Dense, error) {
	if err := m.checkForward(data); err != nil {
		return nil, err
	}
	cur := mat.DenseCopyOf(data)
	for i, stage := range m.stages {
		mapped, err := stage.Forward(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "Chain.Forward: stage %d", i)
		}
		cur = mapped
	}
	return cur, nil
}

// Reverse applies the stages right-to-left.
func (m *Chain) Reverse(data mat.Matrix) (*mat.Dense, error) {
	if err := m.checkReverse(data); err != nil {
		return nil, err
	}
	cur := mat.DenseCopyOf(data)
	for i := len(m.stages) - 1; i >= 0; i-- {
		unmapped, err := m.stages[i].Reverse(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "Chain.Reverse: stage %d", i)
		}
		cur = unmapped
	}
	return cur, nil
}

// ForwardDataset threads a whole dataset through the stages so that feature
// attributes are transformed stage by stage.
func (m *Chain) ForwardDataset(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if !m.trained {
		return nil, errors.NewNotTrainedError(m.name, "ForwardDataset")
	}
	cur := ds
	for i, stage := range m.stages {
		mapped, err := stage.ForwardDataset(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "Chain.ForwardDataset: stage %d", i)
		}
		cur = mapped
	}
	if len(m.stages) == 0 {
		cur = ds.Copy(true)
	}
	return cur, nil
}

// ReverseDataset threads a whole dataset back through the stages in reverse
// order.
func (m *Chain) ReverseDataset(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if !m.trained {
		return nil, errors.NewNotTrainedError(m.name, "ReverseDataset")
	}
	cur := ds
	for i := len(m.stages) - 1; i >= 0; i-- {
		unmapped, err := m.stages[i].ReverseDataset(cur)
		if err != nil {
			return nil, errors.Wrapf(err, "Chain.ReverseDataset: stage %d", i)
		}
		cur = unmapped
	}
	if len(m.stages) == 0 {
		cur = ds.Copy(true)
	}
	return cur, nil
}

// OutFeatureOrigins composes provenance across stages: an output feature of
// the chain derives from the union of the input features its intermediate
// features derive from.
func (m *Chain) OutFeatureOrigins() ([][]int, error) {
	if !m.trained {
		return nil, errors.NewNotTrainedError(m.name, "OutFeatureOrigins")
	}
	if len(m.stages) == 0 {
		return identityOrigins(m.outSize), nil
	}
	origins, err := m.stages[0].OutFeatureOrigins()
	if err != nil {
		return nil, err
	}
	for _, stage := range m.stages[1:] {
		next, err := stage.OutFeatureOrigins()
		if err != nil {
			return nil, err
		}
		composed := make([][]int, len(next))
		for out, mids := range next {
			seen := make(map[int]struct{})
			var union []int
			for _, mid := range mids {
				for _, in := range origins[mid] {
					if _, dup := seen[in]; dup {
						continue
					}
					seen[in] = struct{}{}
					union = append(union, in)
				}
			}
			composed[out] = union
		}
		origins = composed
	}
	return origins, nil
}
