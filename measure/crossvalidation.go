package measure

import (
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/neurogo/mvpa/clf"
	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/generator"
	"github.com/neurogo/mvpa/pkg/errors"
)

// AttrFold names the sample attribute carrying the fold number in
// cross-validation results.
const AttrFold = "fold"

// CrossValidation estimates generalization error by repeatedly training the
// learner on a partition's train rows and scoring its predictions on the
// test rows.
//
// By default folds run sequentially, reusing the single injected learner.
// Setting LearnerFactory switches to parallel folds, each with a fresh
// learner instance, so a stateful learner is never shared across
// goroutines.
type CrossValidation struct {
	Learner clf.Classifier
	Part    generator.Partitioner

	// ErrFx scores each fold; defaults to MeanMismatch.
	ErrFx ErrorFx

	// PerFold keeps one result row per fold instead of the mean.
	PerFold bool

	// LearnerFactory, when set, builds one learner per fold and enables
	// parallel fold evaluation.
	LearnerFactory func() clf.Classifier
}

// CVOption configures a CrossValidation.
type CVOption func(*CrossValidation)

// WithErrFx overrides the fold scoring function.
func WithErrFx(fx ErrorFx) CVOption {
	return func(cv *CrossValidation) { cv.ErrFx = fx }
}

// WithPerFoldResults keeps the per-fold score vector.
func WithPerFoldResults() CVOption {
	return func(cv *CrossValidation) { cv.PerFold = true }
}

// WithLearnerFactory enables parallel folds with a fresh learner each.
func WithLearnerFactory(factory func() clf.Classifier) CVOption {
	return func(cv *CrossValidation) { cv.LearnerFactory = factory }
}

// NewCrossValidation creates a cross-validation measure for the given
// learner and partitioning scheme.
func NewCrossValidation(learner clf.Classifier, part generator.Partitioner, opts ...CVOption) *CrossValidation {
	cv := &CrossValidation{
		Learner: learner,
		Part:    part,
		ErrFx:   MeanMismatch,
	}
	for _, opt := range opts {
		opt(cv)
	}
	return cv
}

// Compute runs every partition and returns the fold scores, either as the
// mean (one row) or one row per fold with the fold number as a sample
// attribute.
func (cv *CrossValidation) Compute(ds *dataset.Dataset) (*dataset.Dataset, error) {
	if cv.Part == nil {
		return nil, errors.New("mvpa: CrossValidation.Compute: missing partitioner")
	}
	if cv.Learner == nil && cv.LearnerFactory == nil {
		return nil, errors.New("mvpa: CrossValidation.Compute: missing learner")
	}
	fx := cv.ErrFx
	if fx == nil {
		fx = MeanMismatch
	}

	var scores []float64
	var folds []int
	if cv.LearnerFactory != nil {
		var err error
		scores, folds, err = cv.computeParallel(ds, fx)
		if err != nil {
			return nil, err
		}
	} else {
		for part, err := range cv.Part.Generate(ds) {
			if err != nil {
				return nil, err
			}
			score, err := cv.scoreFold(cv.Learner, ds, part, fx)
			if err != nil {
				return nil, err
			}
			scores = append(scores, score)
			folds = append(folds, part.Fold)
		}
	}
	if len(scores) == 0 {
		return nil, errors.NewInsufficientSamplesError("CrossValidation.Compute", "partitions", 1, 0)
	}

	if cv.PerFold {
		return dataset.New(mat.NewDense(len(scores), 1, scores),
			dataset.WithSampleAttr(AttrFold, dataset.Ints(folds)))
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return scalarResult(sum / float64(len(scores)))
}

func (cv *CrossValidation) computeParallel(ds *dataset.Dataset, fx ErrorFx) ([]float64, []int, error) {
	var parts []*generator.Partition
	for part, err := range cv.Part.Generate(ds) {
		if err != nil {
			return nil, nil, err
		}
		parts = append(parts, part)
	}
	scores := make([]float64, len(parts))
	folds := make([]int, len(parts))
	var g errgroup.Group
	for i, part := range parts {
		g.Go(func() error {
			score, err := cv.scoreFold(cv.LearnerFactory(), ds, part, fx)
			if err != nil {
				return err
			}
			scores[i] = score
			folds[i] = part.Fold
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return scores, folds, nil
}

// scoreFold trains on the partition's train rows and scores predictions on
// its test rows.
func (cv *CrossValidation) scoreFold(learner clf.Classifier, ds *dataset.Dataset, part *generator.Partition, fx ErrorFx) (float64, error) {
	op := fmt.Sprintf("CrossValidation.Compute: fold %d", part.Fold)
	trainIdx := part.TrainIndices()
	testIdx := part.TestIndices()
	if len(trainIdx) == 0 {
		return 0, errors.NewInsufficientSamplesError(op, "train", 1, 0)
	}
	if len(testIdx) == 0 {
		return 0, errors.NewInsufficientSamplesError(op, "test", 1, 0)
	}

	train, err := ds.SliceSamples(dataset.Indices(trainIdx...))
	if err != nil {
		return 0, errors.Wrap(err, op)
	}
	test, err := ds.SliceSamples(dataset.Indices(testIdx...))
	if err != nil {
		return 0, errors.Wrap(err, op)
	}
	if err := learner.Train(train); err != nil {
		return 0, errors.Wrap(err, op)
	}
	predicted, err := learner.Predict(test.Samples())
	if err != nil {
		return 0, errors.Wrap(err, op)
	}
	actual, err := test.Targets()
	if err != nil {
		return 0, errors.Wrap(err, op)
	}
	return fx(predicted, []string(actual)), nil
}
