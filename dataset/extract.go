package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/glucorisk/pkg/errors"
	"github.com/YuminosukeSato/glucorisk/pkg/log"
)

// Extraction is the numeric view of a table for one variant.
// Features and Target carry the table's raw column names; Features follow the
// variant's canonical order and match the columns of X.
type Extraction struct {
	X        *mat.Dense
	Y        *mat.VecDense
	Features []string
	Target   string
}

// Len returns the number of rows.
func (e *Extraction) Len() int {
	if e.Y == nil {
		return 0
	}
	return e.Y.Len()
}

// Extract selects the variant's features and target from t and decodes every
// valid row. A row is dropped when any selected feature or the target is not a
// finite number, or when the variant's label rule rejects the target.
//
// Errors:
//   - ConfigurationError when no canonical feature is present or the target
//     column cannot be resolved
//   - NoDataError when no row survives
func Extract(t Table, v Variant) (*Extraction, error) {
	r, err := v.rule()
	if err != nil {
		return nil, err
	}

	idx := columnIndex(t.Columns)
	features := make([]string, 0, len(r.features))
	for _, f := range r.features {
		if raw, ok := idx[f]; ok {
			features = append(features, raw)
		}
	}
	if len(features) == 0 {
		return nil, errors.NewConfigurationError("Extract", "unsupported dataset format")
	}

	target, ok := resolveTarget(idx, r)
	if !ok {
		return nil, errors.NewConfigurationError("Extract", "missing target column")
	}

	k := len(features)
	data := make([]float64, 0, len(t.Rows)*k)
	labels := make([]float64, 0, len(t.Rows))
	row := make([]float64, k)

	for _, raw := range t.Rows {
		label, ok := toFloat(raw[target])
		if !ok {
			continue
		}
		if label, ok = r.label(label); !ok {
			continue
		}
		valid := true
		for j, f := range features {
			if row[j], valid = toFloat(raw[f]); !valid {
				break
			}
		}
		if !valid {
			continue
		}
		data = append(data, row...)
		labels = append(labels, label)
	}

	n := len(labels)
	log.GetLogger().Debug("dataset extracted",
		log.OperationKey, log.OperationExtract,
		log.VariantKey, v.String(),
		log.TargetKey, target,
		log.SamplesKey, n,
		log.FeaturesKey, k,
		log.DroppedRowsKey, len(t.Rows)-n,
	)
	if n == 0 {
		return nil, errors.NewNoDataError("Extract", len(t.Rows))
	}

	return &Extraction{
		X:        mat.NewDense(n, k, data),
		Y:        mat.NewVecDense(n, labels),
		Features: features,
		Target:   target,
	}, nil
}
