// Package metrics provides evaluation metrics for binary risk classifiers.
package metrics

import (
	"fmt"

	"github.com/YuminosukeSato/glucorisk/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ConfusionMatrix は [[TN, FP], [FN, TP]] の並びの2×2混同行列
type ConfusionMatrix [2][2]int

// TN returns the true-negative count.
func (c ConfusionMatrix) TN() int { return c[0][0] }

// FP returns the false-positive count.
func (c ConfusionMatrix) FP() int { return c[0][1] }

// FN returns the false-negative count.
func (c ConfusionMatrix) FN() int { return c[1][0] }

// TP returns the true-positive count.
func (c ConfusionMatrix) TP() int { return c[1][1] }

// Total returns the number of evaluated samples.
func (c ConfusionMatrix) Total() int {
	return c[0][0] + c[0][1] + c[1][0] + c[1][1]
}

// Report はホールドアウト評価の結果
type Report struct {
	Accuracy  float64         `json:"accuracy" yaml:"accuracy"`
	Precision float64         `json:"precision" yaml:"precision"`
	Recall    float64         `json:"recall" yaml:"recall"`
	F1        float64         `json:"f1" yaml:"f1"`
	Confusion ConfusionMatrix `json:"confusion_matrix" yaml:"confusion_matrix"`
}

// String returns a compact single-line summary.
func (r *Report) String() string {
	return fmt.Sprintf("accuracy=%.4f precision=%.4f recall=%.4f f1=%.4f confusion=%v",
		r.Accuracy, r.Precision, r.Recall, r.F1, r.Confusion)
}

// Evaluate は2値ラベルと予測からaccuracy、precision、recall、F1、混同行列を計算する
//
// 比較は完全一致で行う。分母が0になる比率は0とし、
// UndefinedMetricWarning を警告ハンドラに通知する（エラーは返さない）。
//
// パラメータ:
//   - yTrue: 正解ラベル (0 または 1)
//   - yPred: 予測ラベル (0 または 1)
//
// 戻り値:
//   - *Report: 評価結果
//   - error: 空入力・非2値は ValueError、長さ不一致は DimensionError
func Evaluate(yTrue, yPred mat.Vector) (*Report, error) {
	n := yTrue.Len()
	if n == 0 {
		return nil, errors.NewValueError("Evaluate", "empty label vector")
	}
	if yPred.Len() != n {
		return nil, errors.NewDimensionError("Evaluate", n, yPred.Len(), 0)
	}

	var cm ConfusionMatrix
	for i := 0; i < n; i++ {
		t, p := yTrue.AtVec(i), yPred.AtVec(i)
		if !isBinary(t) || !isBinary(p) {
			return nil, errors.NewValueError("Evaluate",
				fmt.Sprintf("non-binary value at index %d: label=%v prediction=%v", i, t, p))
		}
		cm[int(t)][int(p)]++
	}

	tp, fp, tn, fn := float64(cm.TP()), float64(cm.FP()), float64(cm.TN()), float64(cm.FN())

	r := &Report{Confusion: cm}
	r.Accuracy = (tp + tn) / float64(n)
	r.Precision = ratio("precision", "no positive predictions", tp, tp+fp)
	r.Recall = ratio("recall", "no positive labels", tp, tp+fn)
	r.F1 = ratio("f1", "precision and recall are both zero", 2*r.Precision*r.Recall, r.Precision+r.Recall)
	return r, nil
}

// ratio は分母が0なら警告を出して0を返す
func ratio(metric, condition string, num, den float64) float64 {
	if den == 0 {
		errors.Warn(errors.NewUndefinedMetricWarning(metric, condition, 0))
		return 0
	}
	return errors.SafeDivide(num, den)
}

func isBinary(v float64) bool {
	return v == 0 || v == 1
}
