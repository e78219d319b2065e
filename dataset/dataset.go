package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/neurogo/mvpa/pkg/errors"
)

// Canonical sample attribute names. Partitioners and measures default to
// these but accept any attribute name.
const (
	// AttrTargets holds the per-sample class label.
	AttrTargets = "targets"
	// AttrChunks holds the per-sample group (e.g. acquisition run) used for
	// leave-group-out partitioning.
	AttrChunks = "chunks"
)

// Dataset owns a dense samples-by-features matrix plus three attribute
// collections: SA (one value per sample), FA (one value per feature) and A
// (whole-dataset, unconstrained). Matrix shape and collection lengths are
// validated on every construction; slices are independent copies, so a
// dataset handed to concurrent workers is safe to read from all of them.
type Dataset struct {
	samples *mat.Dense
	sa      *Collection
	fa      *Collection
	a       *Collection
}

// Option configures a Dataset under construction.
type Option func(*options)

type options struct {
	sa map[string]Values
	fa map[string]Values
	a  map[string]Values
}

// WithSampleAttr attaches a per-sample attribute column.
func WithSampleAttr(name string, values Values) Option {
	return func(o *options) { o.sa[name] = values }
}

// WithFeatureAttr attaches a per-feature attribute column.
func WithFeatureAttr(name string, values Values) Option {
	return func(o *options) { o.fa[name] = values }
}

// WithDatasetAttr attaches a whole-dataset attribute.
func WithDatasetAttr(name string, values Values) Option {
	return func(o *options) { o.a[name] = values }
}

// WithTargets attaches the canonical "targets" sample attribute.
func WithTargets(targets ...string) Option {
	return WithSampleAttr(AttrTargets, Strings(targets))
}

// WithChunks attaches the canonical "chunks" sample attribute.
func WithChunks(chunks ...int) Option {
	return WithSampleAttr(AttrChunks, Ints(chunks))
}

// New creates a dataset from a samples-by-features matrix. Every attached
// attribute is validated against the matching axis length.
func New(samples *mat.Dense, opts ...Option) (*Dataset, error) {
	if samples == nil {
		return nil, errors.Wrap(errors.ErrEmptyData, "Dataset.New")
	}
	o := &options{
		sa: make(map[string]Values),
		fa: make(map[string]Values),
		a:  make(map[string]Values),
	}
	for _, opt := range opts {
		opt(o)
	}

	nSamples, nFeatures := samples.Dims()
	ds := &Dataset{
		samples: samples,
		sa:      NewCollection(nSamples),
		fa:      NewCollection(nFeatures),
		a:       NewCollection(Unconstrained),
	}
	for name, values := range o.sa {
		if err := ds.sa.Set(name, values); err != nil {
			return nil, err
		}
	}
	for name, values := range o.fa {
		if err := ds.fa.Set(name, values); err != nil {
			return nil, err
		}
	}
	for name, values := range o.a {
		if err := ds.a.Set(name, values); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// fromParts builds a dataset from pre-validated pieces, re-checking the
// shape invariant once more.
func fromParts(samples *mat.Dense, sa, fa, a *Collection) (*Dataset, error) {
	nSamples, nFeatures := samples.Dims()
	if sa.Length() != nSamples {
		return nil, errors.NewLengthMismatchError("Dataset", "sample attributes", nSamples, sa.Length())
	}
	if fa.Length() != nFeatures {
		return nil, errors.NewLengthMismatchError("Dataset", "feature attributes", nFeatures, fa.Length())
	}
	return &Dataset{samples: samples, sa: sa, fa: fa, a: a}, nil
}

// NSamples returns the number of rows.
func (ds *Dataset) NSamples() int {
	r, _ := ds.samples.Dims()
	return r
}

// NFeatures returns the number of columns.
func (ds *Dataset) NFeatures() int {
	_, c := ds.samples.Dims()
	return c
}

// Shape returns (samples, features).
func (ds *Dataset) Shape() (int, int) {
	return ds.samples.Dims()
}

// Samples returns the backing matrix. Callers must treat it as read-only;
// concurrent searchlight and cross-validation workers share it without
// locking.
func (ds *Dataset) Samples() *mat.Dense {
	return ds.samples
}

// SA returns the per-sample attribute collection.
func (ds *Dataset) SA() *Collection { return ds.sa }

// FA returns the per-feature attribute collection.
func (ds *Dataset) FA() *Collection { return ds.fa }

// A returns the whole-dataset attribute collection.
func (ds *Dataset) A() *Collection { return ds.a }

// Targets returns the canonical "targets" sample attribute.
func (ds *Dataset) Targets() (Strings, error) {
	values, err := ds.sa.Get(AttrTargets)
	if err != nil {
		return nil, err
	}
	targets, ok := values.(Strings)
	if !ok {
		return nil, errors.Newf("mvpa: Dataset.Targets: attribute %q is %T, want Strings", AttrTargets, values)
	}
	return targets, nil
}

// Chunks returns the canonical "chunks" sample attribute.
func (ds *Dataset) Chunks() (Ints, error) {
	values, err := ds.sa.Get(AttrChunks)
	if err != nil {
		return nil, err
	}
	chunks, ok := values.(Ints)
	if !ok {
		return nil, errors.Newf("mvpa: Dataset.Chunks: attribute %q is %T, want Ints", AttrChunks, values)
	}
	return chunks, nil
}

// Slice produces a new dataset restricted to the selected samples and
// features. The matrix and both per-axis collections are filtered through
// identical index lists, and the result owns independent copies of
// everything. Empty selections fail with ErrEmptyData since a dense matrix
// cannot have a zero-length axis; callers that can encounter empty
// selections should test the selector result up front.
func (ds *Dataset) Slice(sampleSel, featureSel Selector) (*Dataset, error) {
	nSamples, nFeatures := ds.samples.Dims()

	rows, err := sampleSel.resolve(ds.sa, nSamples, "Dataset.Slice", 0)
	if err != nil {
		return nil, err
	}
	cols, err := featureSel.resolve(ds.fa, nFeatures, "Dataset.Slice", 1)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 || len(cols) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "Dataset.Slice: empty selection")
	}
	sub := mat.NewDense(len(rows), len(cols), nil)
	for i, r := range rows {
		for j, c := range cols {
			sub.Set(i, j, ds.samples.At(r, c))
		}
	}

	sa, err := ds.sa.Select(rows)
	if err != nil {
		return nil, err
	}
	fa, err := ds.fa.Select(cols)
	if err != nil {
		return nil, err
	}
	return fromParts(sub, sa, fa, ds.a.Clone())
}

// SliceSamples restricts the sample axis only.
func (ds *Dataset) SliceSamples(sel Selector) (*Dataset, error) {
	return ds.Slice(sel, All())
}

// SliceFeatures restricts the feature axis only.
func (ds *Dataset) SliceFeatures(sel Selector) (*Dataset, error) {
	return ds.Slice(All(), sel)
}

// ConcatSamples appends the samples of other below this dataset. Both
// datasets must have equal feature attribute collections and matching sample
// attribute names; whole-dataset attributes are taken from the receiver.
func (ds *Dataset) ConcatSamples(other *Dataset) (*Dataset, error) {
	if ds.NFeatures() != other.NFeatures() {
		return nil, errors.NewShapeMismatchError("Dataset.ConcatSamples", ds.NFeatures(), other.NFeatures())
	}
	if !ds.fa.Equal(other.fa) {
		return nil, errors.NewAttributeMismatchError("Dataset.ConcatSamples", "",
			"feature attributes of both datasets must be identical")
	}

	total := ds.NSamples() + other.NSamples()
	sa := NewCollection(total)
	for _, name := range ds.sa.Names() {
		if !other.sa.Has(name) {
			return nil, errors.NewAttributeMismatchError("Dataset.ConcatSamples", name,
				"missing from the other dataset's sample attributes")
		}
		mine, _ := ds.sa.Get(name)
		theirs, _ := other.sa.Get(name)
		merged, err := mine.concat(theirs)
		if err != nil {
			return nil, errors.NewAttributeMismatchError("Dataset.ConcatSamples", name, err.Error())
		}
		if err := sa.Set(name, merged); err != nil {
			return nil, err
		}
	}
	for _, name := range other.sa.Names() {
		if !ds.sa.Has(name) {
			return nil, errors.NewAttributeMismatchError("Dataset.ConcatSamples", name,
				"missing from this dataset's sample attributes")
		}
	}

	merged := mat.NewDense(total, ds.NFeatures(), nil)
	merged.Slice(0, ds.NSamples(), 0, ds.NFeatures()).(*mat.Dense).Copy(ds.samples)
	merged.Slice(ds.NSamples(), total, 0, ds.NFeatures()).(*mat.Dense).Copy(other.samples)

	return fromParts(merged, sa, ds.fa.Clone(), ds.a.Clone())
}

// ConcatFeatures appends the features of other to the right of this dataset.
// Both datasets must have equal sample attribute collections.
func (ds *Dataset) ConcatFeatures(other *Dataset) (*Dataset, error) {
	if ds.NSamples() != other.NSamples() {
		return nil, errors.NewShapeMismatchError("Dataset.ConcatFeatures", ds.NSamples(), other.NSamples())
	}
	if !ds.sa.Equal(other.sa) {
		return nil, errors.NewAttributeMismatchError("Dataset.ConcatFeatures", "",
			"sample attributes of both datasets must be identical")
	}

	total := ds.NFeatures() + other.NFeatures()
	fa := NewCollection(total)
	for _, name := range ds.fa.Names() {
		if !other.fa.Has(name) {
			return nil, errors.NewAttributeMismatchError("Dataset.ConcatFeatures", name,
				"missing from the other dataset's feature attributes")
		}
		mine, _ := ds.fa.Get(name)
		theirs, _ := other.fa.Get(name)
		merged, err := mine.concat(theirs)
		if err != nil {
			return nil, errors.NewAttributeMismatchError("Dataset.ConcatFeatures", name, err.Error())
		}
		if err := fa.Set(name, merged); err != nil {
			return nil, err
		}
	}
	for _, name := range other.fa.Names() {
		if !ds.fa.Has(name) {
			return nil, errors.NewAttributeMismatchError("Dataset.ConcatFeatures", name,
				"missing from this dataset's feature attributes")
		}
	}

	merged := mat.NewDense(ds.NSamples(), total, nil)
	merged.Slice(0, ds.NSamples(), 0, ds.NFeatures()).(*mat.Dense).Copy(ds.samples)
	merged.Slice(0, ds.NSamples(), ds.NFeatures(), total).(*mat.Dense).Copy(other.samples)

	return fromParts(merged, ds.sa.Clone(), fa, ds.a.Clone())
}

// Copy returns a copy of the dataset. A deep copy owns an independent matrix
// and collections; a shallow copy shares the matrix read-only but still owns
// fresh collection containers.
func (ds *Dataset) Copy(deep bool) *Dataset {
	samples := ds.samples
	if deep {
		samples = mat.DenseCopyOf(ds.samples)
	}
	return &Dataset{
		samples: samples,
		sa:      ds.sa.Clone(),
		fa:      ds.fa.Clone(),
		a:       ds.a.Clone(),
	}
}

// String returns a short summary.
func (ds *Dataset) String() string {
	r, c := ds.samples.Dims()
	return fmt.Sprintf("Dataset %d x %d (sa: %v, fa: %v)", r, c, ds.sa.Names(), ds.fa.Names())
}
