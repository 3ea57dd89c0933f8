// Package dataset turns a rectangular table of raw values into the feature
// matrix and label vector consumed by the risk trainer.
//
// Supported table shapes are a closed set of variants. Each variant declares
// its canonical feature list and its rule for resolving and decoding the
// target column:
//
//	VariantBasic          glucose, bloodpressure, bmi, age → outcome (0/1)
//	VariantComprehensive  21 survey indicators → diabetes012 | diabetesbinary | diabetes
//
// Column names are compared after NormalizeColumnName, so "Blood Pressure",
// "BloodPressure" and "blood_pressure" are the same feature.
package dataset
