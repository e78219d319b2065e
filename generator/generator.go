// Package generator produces lazy sequences of train/test partition
// assignments over a dataset's samples for cross-validation. Partitioners
// are stateless specifications: generating from the same dataset (and the
// same seed, where randomization is involved) always reproduces the same
// sequence, and re-ranging a sequence restarts it from the beginning.
package generator

import (
	"iter"

	"github.com/neurogo/mvpa/dataset"
)

// Role is the part a sample plays in one partition.
type Role uint8

const (
	// RoleExcluded marks samples that take part in neither set, e.g. after
	// balancing subsampled them away.
	RoleExcluded Role = iota
	// RoleTrain marks training samples.
	RoleTrain
	// RoleTest marks test samples.
	RoleTest
)

func (r Role) String() string {
	switch r {
	case RoleTrain:
		return "train"
	case RoleTest:
		return "test"
	default:
		return "excluded"
	}
}

// Partition assigns a role to every sample of the generating dataset for one
// cross-validation fold. Train and test sets are disjoint by construction
// since each sample holds exactly one role.
type Partition struct {
	// Fold is the zero-based position in the generated sequence.
	Fold int
	// Roles holds one role per sample.
	Roles []Role
}

// TrainIndices returns the sample indices holding RoleTrain.
func (p *Partition) TrainIndices() []int {
	return p.indicesWith(RoleTrain)
}

// TestIndices returns the sample indices holding RoleTest.
func (p *Partition) TestIndices() []int {
	return p.indicesWith(RoleTest)
}

func (p *Partition) indicesWith(role Role) []int {
	var idx []int
	for i, r := range p.Roles {
		if r == role {
			idx = append(idx, i)
		}
	}
	return idx
}

// clone returns an independent copy, so wrappers can modify roles without
// corrupting the inner generator's partition.
func (p *Partition) clone() *Partition {
	roles := make([]Role, len(p.Roles))
	copy(roles, p.Roles)
	return &Partition{Fold: p.Fold, Roles: roles}
}

// Partitioner generates a lazy, restartable sequence of partitions for a
// dataset. Implementations stop the sequence on the first error.
type Partitioner interface {
	// Generate returns the partition sequence. Consumers may stop early by
	// breaking out of the range loop.
	Generate(ds *dataset.Dataset) iter.Seq2[*Partition, error]

	// NumPartitions returns the length of the sequence Generate will yield
	// for this dataset.
	NumPartitions(ds *dataset.Dataset) (int, error)
}
