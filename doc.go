// Package mvpa provides a multivariate pattern-analysis toolkit for
// neuroimaging-style data: labeled sample-by-feature datasets, reversible
// feature-space mappers, cross-validation partition generators, pluggable
// statistical measures, and spatial searchlight analysis.
//
// A typical analysis builds a labeled dataset, optionally transforms its
// feature space through a mapper chain, and evaluates a cross-validated
// measure either on the whole dataset or repeatedly over spatial
// neighborhoods:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "gonum.org/v1/gonum/mat"
//
//	    "github.com/neurogo/mvpa/clf"
//	    "github.com/neurogo/mvpa/dataset"
//	    "github.com/neurogo/mvpa/generator"
//	    "github.com/neurogo/mvpa/measure"
//	    "github.com/neurogo/mvpa/searchlight"
//	)
//
//	func main() {
//	    samples := mat.NewDense(4, 3, []float64{
//	        0, 1, 2,
//	        3, 4, 5,
//	        6, 7, 8,
//	        9, 10, 11,
//	    })
//	    ds, err := dataset.New(samples,
//	        dataset.WithTargets("a", "a", "b", "b"),
//	        dataset.WithChunks(1, 1, 2, 2),
//	        dataset.WithFeatureAttr("x", dataset.Floats{0, 1, 2}),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    cv := measure.NewCrossValidation(clf.NewKNN(1), generator.NewNFold())
//	    sl := searchlight.New(cv)
//	    nbh, err := searchlight.NewSphere(ds, 1.0, "x")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    out, err := sl.Run(context.Background(), ds, nbh)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(out.Samples()))
//	}
//
// # Packages
//
//   - dataset: sample-by-feature matrix with lockstep attribute collections
//   - mapper: trainable, reversible feature-space transformations
//   - generator: lazy train/test partition generation with balancing
//   - measure: cross-validated and permutation-tested statistics
//   - clf: classifier capability contracts and a kNN reference backend
//   - searchlight: parallel per-neighborhood measure evaluation
//   - persist: exact tabular round-tripping of datasets
//   - config: read-once analysis settings
//   - pkg/errors: typed error kinds shared across packages
//   - pkg/log: structured logging setup
package mvpa
