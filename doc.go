// Package glucorisk is a diabetes risk-assessment library and service for Go.
//
// It trains a logistic regression model with batch gradient descent over
// z-score normalized features, evaluates it on an in-order holdout, and
// offers a training-free scorer built from fixed constants. The scores are
// illustrative and make no claim of medical validity.
//
// # Quick Start
//
// Train a model from a CSV file and score a record:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//	    "os"
//
//	    "github.com/YuminosukeSato/glucorisk/dataset"
//	    "github.com/YuminosukeSato/glucorisk/risk"
//	)
//
//	func main() {
//	    f, err := os.Open("diabetes.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer f.Close()
//
//	    table, err := dataset.ReadCSV(f)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    variant, err := dataset.Detect(table.Columns)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    model, err := risk.Train(table, variant)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // raw values in model.Features() order
//	    p, err := model.PredictProbability([]float64{148, 72, 33.6, 50})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("risk %.2f, holdout accuracy %.2f\n", p, model.Metrics().Accuracy)
//	}
//
// # Packages
//
//   - dataset: table model, dataset variants, feature extraction, 80/20 split, CSV reader
//   - preprocessing: z-score StandardScaler
//   - linear: gradient descent LogisticRegression and Sigmoid
//   - metrics: accuracy, precision, recall, F1, confusion matrix, MSE
//   - risk: Train pipeline and the immutable Model
//   - pretrained: static Scorer with fixed weights
//   - core/model: training state machine, shared interfaces, model snapshots
//   - pkg/errors: typed errors and warnings built on cockroachdb/errors
//   - pkg/log: zerolog-backed structured logging
//
// The glucorisk command (cmd/glucorisk) wraps these packages in a CLI and an
// HTTP service.
package glucorisk
