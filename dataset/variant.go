package dataset

import (
	"strings"

	"github.com/YuminosukeSato/glucorisk/pkg/errors"
)

// Variant identifies one of the supported dataset shapes.
type Variant int

const (
	// VariantBasic is the clinical table with an Outcome label.
	VariantBasic Variant = iota + 1
	// VariantComprehensive is the lifestyle/clinical indicator survey table.
	VariantComprehensive
)

// variantRule declares the static shape of a variant.
type variantRule struct {
	name     string
	features []string
	targets  []string
	// label decodes a numeric target value; false marks the row invalid.
	label func(v float64) (float64, bool)
}

var rules = map[Variant]variantRule{
	VariantBasic: {
		name:     "basic",
		features: []string{"glucose", "bloodpressure", "bmi", "age"},
		targets:  []string{"outcome"},
		label: func(v float64) (float64, bool) {
			return v, v == 0 || v == 1
		},
	},
	VariantComprehensive: {
		name: "comprehensive",
		features: []string{
			"highbp", "highchol", "cholcheck", "bmi", "smoker", "stroke",
			"heartdiseaseorattack", "physactivity", "fruits", "veggies",
			"hvyalcoholconsump", "anyhealthcare", "nodocbccost", "genhlth",
			"menthlth", "physhlth", "diffwalk", "sex", "age", "education", "income",
		},
		targets: []string{"diabetes012", "diabetesbinary", "diabetes"},
		label: func(v float64) (float64, bool) {
			if v != 0 {
				return 1, true
			}
			return 0, true
		},
	},
}

// Variants lists every supported variant in declaration order.
func Variants() []Variant {
	return []Variant{VariantBasic, VariantComprehensive}
}

func (v Variant) rule() (variantRule, error) {
	r, ok := rules[v]
	if !ok {
		return variantRule{}, errors.NewValidationError("variant", "unknown dataset variant", int(v))
	}
	return r, nil
}

// String returns the variant name ("basic", "comprehensive").
func (v Variant) String() string {
	if r, ok := rules[v]; ok {
		return r.name
	}
	return "unknown"
}

// Features returns the canonical (normalized) feature names in weight order.
func (v Variant) Features() []string {
	r, ok := rules[v]
	if !ok {
		return nil
	}
	return append([]string(nil), r.features...)
}

// TargetCandidates returns the normalized target names tried in order.
func (v Variant) TargetCandidates() []string {
	r, ok := rules[v]
	if !ok {
		return nil
	}
	return append([]string(nil), r.targets...)
}

// MarshalText implements encoding.TextMarshaler.
func (v Variant) MarshalText() ([]byte, error) {
	if _, err := v.rule(); err != nil {
		return nil, err
	}
	return []byte(v.String()), nil
}

// ParseVariant maps "basic" or "comprehensive" (any case) to a Variant.
func ParseVariant(s string) (Variant, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, v := range Variants() {
		if rules[v].name == name {
			return v, nil
		}
	}
	return 0, errors.NewValidationError("variant", "must be one of basic, comprehensive", s)
}

// Detect resolves the variant of a header once: comprehensive when one of its
// target columns exists, basic when an outcome column exists.
func Detect(columns []string) (Variant, error) {
	idx := columnIndex(columns)
	for _, v := range []Variant{VariantComprehensive, VariantBasic} {
		if _, ok := resolveTarget(idx, rules[v]); ok {
			return v, nil
		}
	}
	return 0, errors.NewConfigurationError("Detect", "unsupported dataset format")
}

func resolveTarget(idx map[string]string, r variantRule) (string, bool) {
	for _, t := range r.targets {
		if raw, ok := idx[t]; ok {
			return raw, true
		}
	}
	return "", false
}
