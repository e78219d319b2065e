// Package persist stores datasets as CSV so matrices and their attribute
// collections survive a round trip through a file byte for byte in value
// terms. The layout is record-oriented: a shape record, one record per
// attribute with a type tag, then the sample rows.
package persist

import (
	"encoding/csv"
	"io"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/neurogo/mvpa/dataset"
	"github.com/neurogo/mvpa/pkg/errors"
)

const formatVersion = "mvpa-csv-1"

// Record kinds in the serialized stream.
const (
	recHeader  = "header"
	recShape   = "shape"
	recSA      = "sa"
	recFA      = "fa"
	recA       = "a"
	recSamples = "samples"
)

// Type tags for attribute columns.
const (
	tagFloat  = "float"
	tagInt    = "int"
	tagString = "string"
)

// Save writes the dataset to w. Attributes are written in sorted name order
// so the output is deterministic.
func Save(w io.Writer, ds *dataset.Dataset) error {
	const op = "persist.Save"
	cw := csv.NewWriter(w)

	r, c := ds.Shape()
	if err := cw.Write([]string{recHeader, formatVersion}); err != nil {
		return errors.Wrap(err, op)
	}
	if err := cw.Write([]string{recShape, strconv.Itoa(r), strconv.Itoa(c)}); err != nil {
		return errors.Wrap(err, op)
	}
	for _, spec := range []struct {
		kind string
		col  *dataset.Collection
	}{
		{recSA, ds.SA()},
		{recFA, ds.FA()},
		{recA, ds.A()},
	} {
		for _, name := range spec.col.Names() {
			values, err := spec.col.Get(name)
			if err != nil {
				return errors.Wrap(err, op)
			}
			record, err := attrRecord(spec.kind, name, values)
			if err != nil {
				return errors.Wrap(err, op)
			}
			if err := cw.Write(record); err != nil {
				return errors.Wrap(err, op)
			}
		}
	}
	if err := cw.Write([]string{recSamples}); err != nil {
		return errors.Wrap(err, op)
	}
	row := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			row[j] = formatFloat(ds.Samples().At(i, j))
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, op)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), op)
}

// Load reads a dataset previously written by Save.
func Load(r io.Reader) (*dataset.Dataset, error) {
	const op = "persist.Load"
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	record, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	if len(record) != 2 || record[0] != recHeader || record[1] != formatVersion {
		return nil, errors.Newf("mvpa: %s: not a %s stream", op, formatVersion)
	}
	record, err = cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	if len(record) != 3 || record[0] != recShape {
		return nil, errors.Newf("mvpa: %s: missing shape record", op)
	}
	rows, err := strconv.Atoi(record[1])
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	cols, err := strconv.Atoi(record[2])
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	if rows < 1 || cols < 1 {
		return nil, errors.Wrap(errors.ErrEmptyData, op)
	}

	var opts []dataset.Option
	for {
		record, err = cr.Read()
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		if len(record) == 1 && record[0] == recSamples {
			break
		}
		if len(record) < 3 {
			return nil, errors.Newf("mvpa: %s: malformed attribute record %v", op, record)
		}
		kind, name, tag := record[0], record[1], record[2]
		values, err := parseValues(tag, record[3:])
		if err != nil {
			return nil, errors.Wrapf(err, "%s: attribute %q", op, name)
		}
		switch kind {
		case recSA:
			opts = append(opts, dataset.WithSampleAttr(name, values))
		case recFA:
			opts = append(opts, dataset.WithFeatureAttr(name, values))
		case recA:
			opts = append(opts, dataset.WithDatasetAttr(name, values))
		default:
			return nil, errors.Newf("mvpa: %s: unknown record kind %q", op, kind)
		}
	}

	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		record, err = cr.Read()
		if err != nil {
			return nil, errors.Wrap(err, op)
		}
		if len(record) != cols {
			return nil, errors.NewShapeMismatchError(op, cols, len(record))
		}
		for _, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrap(err, op)
			}
			data = append(data, v)
		}
	}
	return dataset.New(mat.NewDense(rows, cols, data), opts...)
}

// attrRecord serializes one attribute as kind,name,tag,values...
func attrRecord(kind, name string, values dataset.Values) ([]string, error) {
	record := []string{kind, name, ""}
	switch v := values.(type) {
	case dataset.Floats:
		record[2] = tagFloat
		for _, f := range v {
			record = append(record, formatFloat(f))
		}
	case dataset.Ints:
		record[2] = tagInt
		for _, n := range v {
			record = append(record, strconv.Itoa(n))
		}
	case dataset.Strings:
		record[2] = tagString
		record = append(record, v...)
	default:
		return nil, errors.Newf("mvpa: persist: unsupported attribute type %T", values)
	}
	return record, nil
}

func parseValues(tag string, fields []string) (dataset.Values, error) {
	switch tag {
	case tagFloat:
		out := make(dataset.Floats, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			out[i] = v
		}
		return out, nil
	case tagInt:
		out := make(dataset.Ints, len(fields))
		for i, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			out[i] = v
		}
		return out, nil
	case tagString:
		return append(dataset.Strings(nil), fields...), nil
	default:
		return nil, errors.Newf("mvpa: persist: unknown type tag %q", tag)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
