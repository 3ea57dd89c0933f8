package model

import (
	"encoding/json"

	"github.com/YuminosukeSato/glucorisk/pkg/errors"
)

// ModelWeights はモデルの重みを表す構造体（表示・APIレスポンス用）
// 永続化には使用しない。学習済みモデルは常にメモリ上にのみ存在する。
type ModelWeights struct {
	// ID は学習実行ごとに割り当てられるUUID
	ID string `json:"id" yaml:"id"`

	// ModelType はモデルの種類（LogisticRegression等）
	ModelType string `json:"model_type" yaml:"model_type"`

	// Version はスナップショット形式のバージョン
	Version string `json:"version" yaml:"version"`

	// Coefficients は重み係数（Featuresと同じ順序）
	Coefficients []float64 `json:"coefficients" yaml:"coefficients"`

	// Intercept は切片（バイアス）
	Intercept float64 `json:"intercept" yaml:"intercept"`

	// Features は特徴量の名前
	Features []string `json:"features" yaml:"features"`

	// Target はターゲット列の名前
	Target string `json:"target" yaml:"target"`

	// Means / Stds は学習時に計算した正規化パラメータ
	Means []float64 `json:"means" yaml:"means"`
	Stds  []float64 `json:"stds" yaml:"stds"`

	// Hyperparameters はモデルのハイパーパラメータ
	Hyperparameters map[string]interface{} `json:"hyperparameters" yaml:"hyperparameters"`

	// Metadata は追加のメタデータ（評価指標等）
	Metadata map[string]interface{} `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// IsFitted はモデルが学習済みかどうか
	IsFitted bool `json:"is_fitted" yaml:"is_fitted"`
}

// SnapshotVersion is the current ModelWeights layout version.
const SnapshotVersion = "1"

// ToJSON はModelWeightsをJSON形式にシリアライズ
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON はJSON形式からModelWeightsをデシリアライズ
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "decode model snapshot")
	}
	return nil
}

// Validate はModelWeightsの妥当性を検証
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}

	if mw.Version == "" {
		return errors.NewValidationError("version", "is required", mw.Version)
	}

	if !mw.IsFitted && len(mw.Coefficients) > 0 {
		return errors.NewValidationError("coefficients", "unfitted model should not have coefficients", len(mw.Coefficients))
	}

	if mw.IsFitted && len(mw.Coefficients) == 0 {
		return errors.NewValidationError("coefficients", "fitted model must have coefficients", 0)
	}

	k := len(mw.Coefficients)
	if len(mw.Features) != k {
		return errors.NewDimensionError("ModelWeights.Validate", k, len(mw.Features), 1)
	}
	if len(mw.Means) != k || len(mw.Stds) != k {
		return errors.NewDimensionError("ModelWeights.Validate", k, min(len(mw.Means), len(mw.Stds)), 1)
	}

	return nil
}

// Clone はModelWeightsのディープコピーを作成
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ID:              mw.ID,
		ModelType:       mw.ModelType,
		Version:         mw.Version,
		Intercept:       mw.Intercept,
		Target:          mw.Target,
		IsFitted:        mw.IsFitted,
		Coefficients:    append([]float64(nil), mw.Coefficients...),
		Features:        append([]string(nil), mw.Features...),
		Means:           append([]float64(nil), mw.Means...),
		Stds:            append([]float64(nil), mw.Stds...),
		Hyperparameters: make(map[string]interface{}, len(mw.Hyperparameters)),
		Metadata:        make(map[string]interface{}, len(mw.Metadata)),
	}

	for k, v := range mw.Hyperparameters {
		clone.Hyperparameters[k] = v
	}

	for k, v := range mw.Metadata {
		clone.Metadata[k] = v
	}

	return clone
}
