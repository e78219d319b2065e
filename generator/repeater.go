package generator

import (
	"iter"

	"github.com/neurogo/mvpa/dataset"
)

// Repeater wraps a partitioner and replays its whole sequence Count times,
// renumbering folds densely across repetitions. It supports repeated
// cross-validation schemes where the inner partitioner (typically a seeded
// Balancer) yields a different subsampling per repetition consumer.
type Repeater struct {
	// Inner generates the sequence to repeat.
	Inner Partitioner
	// Count is the number of repetitions.
	Count int
}

// NewRepeater replays inner count times.
func NewRepeater(inner Partitioner, count int) *Repeater {
	return &Repeater{Inner: inner, Count: count}
}

// Generate yields Count passes over the inner sequence.
func (r *Repeater) Generate(ds *dataset.Dataset) iter.Seq2[*Partition, error] {
	return func(yield func(*Partition, error) bool) {
		fold := 0
		for rep := 0; rep < r.Count; rep++ {
			for p, err := range r.Inner.Generate(ds) {
				if err != nil {
					yield(nil, err)
					return
				}
				out := p.clone()
				out.Fold = fold
				if !yield(out, nil) {
					return
				}
				fold++
			}
		}
	}
}

// NumPartitions is Count times the inner sequence length.
func (r *Repeater) NumPartitions(ds *dataset.Dataset) (int, error) {
	n, err := r.Inner.NumPartitions(ds)
	if err != nil {
		return 0, err
	}
	return n * r.Count, nil
}
