// Package preprocessing provides feature normalization for the risk models.
package preprocessing

import (
	"fmt"

	"github.com/YuminosukeSato/glucorisk/core/model"
	"github.com/YuminosukeSato/glucorisk/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// minStd 未満の標準偏差は 1 として扱う
const minStd = 1e-8

// NormalizationParameters は1つの特徴量の標準化パラメータ
type NormalizationParameters struct {
	Mean float64 `json:"mean" yaml:"mean"`
	Std  float64 `json:"std" yaml:"std"`
}

// Apply は (x - mean) / std を返す
func (p NormalizationParameters) Apply(x float64) float64 {
	return (x - p.Mean) / p.Std
}

// StandardScaler は z-score 標準化を行うスケーラー
// 母標準偏差を使用し、パラメータはFit時に一度だけ計算される。
type StandardScaler struct {
	state *model.StateManager

	params []NormalizationParameters
}

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler()
//	err := scaler.Fit(XTrain)
//	XScaled, err := scaler.Transform(XTrain)
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{state: model.NewStateManager()}
}

// NewStandardScalerFromParams は既知のパラメータから学習済みスケーラーを作成する
func NewStandardScalerFromParams(params []NormalizationParameters) (*StandardScaler, error) {
	if len(params) == 0 {
		return nil, errors.NewModelError("NewStandardScalerFromParams", "empty parameters", errors.ErrEmptyData)
	}
	for i, p := range params {
		if p.Std <= 0 || !errors.IsFinite(p.Std) || !errors.IsFinite(p.Mean) {
			return nil, errors.NewValidationError(fmt.Sprintf("params[%d]", i), "mean must be finite and std positive", p)
		}
	}
	s := NewStandardScaler()
	s.params = append([]NormalizationParameters(nil), params...)
	s.state.Complete(len(params), 0)
	return s, nil
}

// Fit は訓練データから各列の平均と母標準偏差を計算する
//
// 定数列 (min == max) は平均をその値、標準偏差を 1 として保存するため、
// 変換後は正確に 0 になる。
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}
	if s.state.IsFitted() {
		return errors.NewModelError("StandardScaler.Fit", "parameters are fixed after fit", errors.ErrAlreadyTrained)
	}

	params := make([]NormalizationParameters, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		if floats.Min(col) == floats.Max(col) {
			params[j] = NormalizationParameters{Mean: col[0], Std: 1}
			continue
		}
		mean, std := stat.PopMeanStdDev(col, nil)
		if std < minStd {
			std = 1
		}
		params[j] = NormalizationParameters{Mean: mean, Std: std}
	}

	s.params = params
	s.state.Complete(c, r)
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.state.RequireFitted("StandardScaler", "Transform"); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	if c != len(s.params) {
		return nil, errors.NewDimensionError("StandardScaler.Transform", len(s.params), c, 1)
	}

	result := mat.NewDense(r, c, nil)
	result.Apply(func(i, j int, v float64) float64 {
		return s.params[j].Apply(v)
	}, X)
	return result, nil
}

// TransformRow は1行分の生の特徴量を標準化した新しいスライスを返す
func (s *StandardScaler) TransformRow(row []float64) ([]float64, error) {
	if err := s.state.RequireFitted("StandardScaler", "TransformRow"); err != nil {
		return nil, err
	}
	if len(row) != len(s.params) {
		return nil, errors.NewDimensionError("StandardScaler.TransformRow", len(s.params), len(row), 1)
	}

	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = s.params[j].Apply(v)
	}
	return out, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// Params は学習済みパラメータのコピーを返す
func (s *StandardScaler) Params() []NormalizationParameters {
	return append([]NormalizationParameters(nil), s.params...)
}

// IsFitted はFitが完了しているかを返す
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsFitted()
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.state.IsFitted() {
		return "StandardScaler()"
	}
	return fmt.Sprintf("StandardScaler(n_features=%d)", len(s.params))
}
