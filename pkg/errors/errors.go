// Package errors provides the typed error kinds shared by all mvpa packages,
// together with thin wrappers around cockroachdb/errors so that callers get
// stack traces and errors.Is/As support without importing two error packages.
//
// Structural problems (length, shape, index, attribute mismatches) are always
// fatal to the operation that detected them. Statistically degenerate
// conditions (insufficient samples, too few target values) are equally typed
// so drivers such as the searchlight can decide to flag-and-continue instead.
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Warning handling
//
// ===========================================================================

var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("mvpa-warning: %v\n", w)
	}
	// zerolog sink, injected lazily to avoid an import cycle with pkg/log.
	zerologWarnFunc func(warning error)
)

// SetWarningHandler installs a process-wide handler for non-fatal warnings
// such as skipped searchlight centers or degenerate balancing rounds.
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc installs the zerolog warning sink.
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn emits a warning through the zerolog sink when one is configured and
// falls back to the plain handler otherwise.
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	Structural error kinds
//
// ===========================================================================

// LengthMismatchError reports an attribute sequence whose length disagrees
// with the length pinned by its collection or by the owning dataset axis.
type LengthMismatchError struct {
	Op        string
	Attribute string
	Expected  int
	Got       int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("mvpa: %s: attribute %q has length %d, collection requires %d",
		e.Op, e.Attribute, e.Got, e.Expected)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *LengthMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("attribute", e.Attribute).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "LengthMismatchError")
}

// NewLengthMismatchError creates a LengthMismatchError with a stack trace.
func NewLengthMismatchError(op, attribute string, expected, got int) error {
	err := &LengthMismatchError{Op: op, Attribute: attribute, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// IndexOutOfRangeError reports a selector index outside the valid axis range.
type IndexOutOfRangeError struct {
	Op    string
	Axis  int // 0 samples, 1 features
	Index int
	Size  int
}

func (e *IndexOutOfRangeError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "samples"
	}
	return fmt.Sprintf("mvpa: %s: index %d out of range for %d %s",
		e.Op, e.Index, e.Size, axisName)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *IndexOutOfRangeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("axis", e.Axis).
		Int("index", e.Index).
		Int("size", e.Size).
		Str("type", "IndexOutOfRangeError")
}

// NewIndexOutOfRangeError creates an IndexOutOfRangeError with a stack trace.
func NewIndexOutOfRangeError(op string, axis, index, size int) error {
	err := &IndexOutOfRangeError{Op: op, Axis: axis, Index: index, Size: size}
	return errors.WithStack(err)
}

// AttributeMismatchError reports incompatible attribute collections during
// dataset concatenation.
type AttributeMismatchError struct {
	Op        string
	Attribute string
	Reason    string
}

func (e *AttributeMismatchError) Error() string {
	if e.Attribute != "" {
		return fmt.Sprintf("mvpa: %s: attribute %q: %s", e.Op, e.Attribute, e.Reason)
	}
	return fmt.Sprintf("mvpa: %s: %s", e.Op, e.Reason)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *AttributeMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("attribute", e.Attribute).
		Str("reason", e.Reason).
		Str("type", "AttributeMismatchError")
}

// NewAttributeMismatchError creates an AttributeMismatchError with a stack trace.
func NewAttributeMismatchError(op, attribute, reason string) error {
	err := &AttributeMismatchError{Op: op, Attribute: attribute, Reason: reason}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Mapper error kinds
//
// ===========================================================================

// NotTrainedError reports use of a mapper or learner before Fit/Train.
type NotTrainedError struct {
	Name   string
	Method string
}

func (e *NotTrainedError) Error() string {
	return fmt.Sprintf("mvpa: %s is not trained yet; call Fit() before %s()", e.Name, e.Method)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *NotTrainedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("name", e.Name).
		Str("method", e.Method).
		Str("type", "NotTrainedError")
}

// NewNotTrainedError creates a NotTrainedError with a stack trace.
func NewNotTrainedError(name, method string) error {
	err := &NotTrainedError{Name: name, Method: method}
	return errors.WithStack(err)
}

// ShapeMismatchError reports data whose feature count disagrees with the
// space a mapper was trained on.
type ShapeMismatchError struct {
	Op       string
	Expected int
	Got      int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("mvpa: %s: data has %d features, trained space has %d",
		e.Op, e.Got, e.Expected)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *ShapeMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "ShapeMismatchError")
}

// NewShapeMismatchError creates a ShapeMismatchError with a stack trace.
func NewShapeMismatchError(op string, expected, got int) error {
	err := &ShapeMismatchError{Op: op, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// DegenerateInputError reports an ill-posed mapper fit, e.g. fewer samples
// than requested components.
type DegenerateInputError struct {
	Op     string
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("mvpa: %s: degenerate input: %s", e.Op, e.Reason)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *DegenerateInputError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Str("type", "DegenerateInputError")
}

// NewDegenerateInputError creates a DegenerateInputError with a stack trace.
func NewDegenerateInputError(op, reason string) error {
	err := &DegenerateInputError{Op: op, Reason: reason}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Statistical error kinds
//
// ===========================================================================

// InsufficientSamplesError reports a partition or fold that cannot be formed,
// e.g. a target with zero representatives after balancing.
type InsufficientSamplesError struct {
	Op     string
	Target string
	Need   int
	Got    int
}

func (e *InsufficientSamplesError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("mvpa: %s: target %q has %d samples, need at least %d",
			e.Op, e.Target, e.Got, e.Need)
	}
	return fmt.Sprintf("mvpa: %s: %d samples available, need at least %d", e.Op, e.Got, e.Need)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *InsufficientSamplesError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("target", e.Target).
		Int("need", e.Need).
		Int("got", e.Got).
		Str("type", "InsufficientSamplesError")
}

// NewInsufficientSamplesError creates an InsufficientSamplesError with a stack trace.
func NewInsufficientSamplesError(op, target string, need, got int) error {
	err := &InsufficientSamplesError{Op: op, Target: target, Need: need, Got: got}
	return errors.WithStack(err)
}

// LabelCardinalityError reports a target attribute with too few distinct
// values for the requested computation.
type LabelCardinalityError struct {
	Op        string
	Attribute string
	Distinct  int
	Need      int
}

func (e *LabelCardinalityError) Error() string {
	return fmt.Sprintf("mvpa: %s: attribute %q has %d distinct values, need at least %d",
		e.Op, e.Attribute, e.Distinct, e.Need)
}

// MarshalZerologObject adds structured error fields to a zerolog event.
func (e *LabelCardinalityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("attribute", e.Attribute).
		Int("distinct", e.Distinct).
		Int("need", e.Need).
		Str("type", "LabelCardinalityError")
}

// NewLabelCardinalityError creates a LabelCardinalityError with a stack trace.
func NewLabelCardinalityError(op, attribute string, distinct, need int) error {
	err := &LabelCardinalityError{Op: op, Attribute: attribute, Distinct: distinct, Need: need}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Warning types
//
// ===========================================================================

// EmptyNeighborhoodWarning is emitted when a searchlight center has no
// member features and is skipped instead of aborting the run.
type EmptyNeighborhoodWarning struct {
	Center int
}

func (w *EmptyNeighborhoodWarning) Error() string {
	return fmt.Sprintf("searchlight center %d has an empty neighborhood and was marked missing", w.Center)
}

// MarshalZerologObject adds structured warning fields to a zerolog event.
func (w *EmptyNeighborhoodWarning) MarshalZerologObject(event *zerolog.Event) {
	event.Int("center", w.Center).
		Str("type", "EmptyNeighborhoodWarning")
}

// NewEmptyNeighborhoodWarning creates an EmptyNeighborhoodWarning.
func NewEmptyNeighborhoodWarning(center int) *EmptyNeighborhoodWarning {
	return &EmptyNeighborhoodWarning{Center: center}
}

// BalancingWarning is emitted when balancing had to discard samples.
type BalancingWarning struct {
	Discarded int
	Kept      int
}

func (w *BalancingWarning) Error() string {
	return fmt.Sprintf("balancing discarded %d of %d samples to equalize target counts",
		w.Discarded, w.Discarded+w.Kept)
}

// NewBalancingWarning creates a BalancingWarning.
func NewBalancingWarning(discarded, kept int) *BalancingWarning {
	return &BalancingWarning{Discarded: discarded, Kept: kept}
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap annotates err with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf annotates err with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates an error with a stack trace.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Shared error values
//
// ===========================================================================

var (
	// ErrEmptyData is returned when an operation receives no data at all.
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix is returned when a decomposition fails on rank-deficient data.
	ErrSingularMatrix = New("singular matrix")
)
