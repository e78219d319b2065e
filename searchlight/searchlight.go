package searchlight

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"gonum.org/v1/gonum/mat"

	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/measure"
	"github.com/neurogo/mvpa/pkg/errors"
)

const (
	// AttrCenterIDs names the feature attribute carrying the center index
	// behind each result column.
	AttrCenterIDs = "center_ids"

	// AttrMissing names the feature attribute flagging columns whose
	// neighborhood was empty (1) versus evaluated (0).
	AttrMissing = "missing"
)

// Searchlight runs a measure on the feature neighborhood of every center
// and assembles the per-center values into a single result dataset.
//
// Centers are independent and run concurrently, bounded by NumWorkers.
// Each center writes only its own result column, so the output is
// deterministic regardless of scheduling.
type Searchlight struct {
	// Meas is evaluated once per center on the neighborhood slice. It must
	// be safe for concurrent use, or NumWorkers must be 1.
	Meas measure.Measure

	// NumWorkers bounds concurrent center evaluations. Zero means
	// runtime.NumCPU().
	NumWorkers int
}

// Option configures a Searchlight.
type Option func(*Searchlight)

// WithNumWorkers bounds the number of concurrent center evaluations.
func WithNumWorkers(n int) Option {
	return func(sl *Searchlight) { sl.NumWorkers = n }
}

// New creates a searchlight around the given measure.
func New(meas measure.Measure, opts ...Option) *Searchlight {
	sl := &Searchlight{Meas: meas}
	for _, opt := range opts {
		opt(sl)
	}
	return sl
}

// Run evaluates the measure on every center's neighborhood and returns a
// dataset with one column per center and one row per value the measure
// produces, so a scalar measure yields a single row and a per-fold measure
// yields one row per fold. Every center must produce the same number of
// values. Columns carry the center index in the "center_ids" feature
// attribute. Centers with an empty neighborhood produce NaN, set the
// "missing" flag, and emit a warning instead of failing the run.
func (sl *Searchlight) Run(ctx context.Context, ds *dataset.Dataset, nbh Neighborhood) (*dataset.Dataset, error) {
	const op = "Searchlight.Run"
	if sl.Meas == nil {
		return nil, errors.New("mvpa: Searchlight.Run: missing measure")
	}
	if nbh == nil {
		return nil, errors.New("mvpa: Searchlight.Run: missing neighborhood")
	}
	centers := nbh.Centers()
	if len(centers) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}
	nf := ds.NFeatures()
	for _, center := range centers {
		if center < 0 || center >= nf {
			return nil, errors.NewIndexOutOfRangeError(op, 1, center, nf)
		}
	}

	workers := sl.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	columns := make([][]float64, len(centers))
	missing := make([]int, len(centers))

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(workers))
	for slot, center := range centers {
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			neighbors := nbh.Neighbors(center)
			if len(neighbors) == 0 {
				missing[slot] = 1
				errors.Warn(errors.NewEmptyNeighborhoodWarning(center))
				return nil
			}
			roi, err := ds.SliceFeatures(dataset.Indices(neighbors...))
			if err != nil {
				return errors.Wrapf(err, "%s: center %d", op, center)
			}
			result, err := sl.Meas.Compute(roi)
			if err != nil {
				return errors.Wrapf(err, "%s: center %d", op, center)
			}
			column, err := resultColumn(result)
			if err != nil {
				return errors.Wrapf(err, "%s: center %d", op, center)
			}
			columns[slot] = column
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// The group context is always cancelled once Wait returns; only the
	// caller's context says whether the run was cut short.
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, op)
	}
	slog.Debug("searchlight finished", "centers", len(centers), "workers", workers)

	// Evaluated centers must agree on how many values the measure yields;
	// missing centers get a NaN in every row of their column.
	rows := 1
	for _, column := range columns {
		if column != nil {
			rows = len(column)
			break
		}
	}
	out := mat.NewDense(rows, len(centers), nil)
	for slot, column := range columns {
		if column == nil {
			for i := 0; i < rows; i++ {
				out.Set(i, slot, math.NaN())
			}
			continue
		}
		if len(column) != rows {
			return nil, errors.NewShapeMismatchError(
				fmt.Sprintf("%s: center %d result rows", op, centers[slot]), rows, len(column))
		}
		for i, v := range column {
			out.Set(i, slot, v)
		}
	}

	return dataset.New(out,
		dataset.WithFeatureAttr(AttrCenterIDs, append(dataset.Ints(nil), centers...)),
		dataset.WithFeatureAttr(AttrMissing, dataset.Ints(missing)))
}

// resultColumn flattens a result dataset into its value vector. Result
// datasets hold one value per row in a single column.
func resultColumn(result *dataset.Dataset) ([]float64, error) {
	r, c := result.Shape()
	if c != 1 {
		return nil, errors.NewShapeMismatchError("searchlight result columns", 1, c)
	}
	column := make([]float64, r)
	for i := range column {
		column[i] = result.Samples().At(i, 0)
	}
	return column, nil
}

// String returns a short description.
func (sl *Searchlight) String() string {
	return fmt.Sprintf("Searchlight(workers=%d)", sl.NumWorkers)
}
