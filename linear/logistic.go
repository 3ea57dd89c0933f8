// Package linear implements the gradient descent logistic regression trainer.
package linear

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/glucorisk/core/model"
	"github.com/YuminosukeSato/glucorisk/metrics"
	"github.com/YuminosukeSato/glucorisk/pkg/errors"
	"github.com/YuminosukeSato/glucorisk/pkg/log"
)

const (
	// DefaultLearningRate is the gradient descent step size used when none is given.
	DefaultLearningRate = 0.01
	// DefaultIterations is the number of full-batch steps used when none is given.
	DefaultIterations = 1000

	// sigmoidClamp bounds the sigmoid input to keep exp finite.
	sigmoidClamp = 250.0
)

// LossPoint is one recorded loss value.
type LossPoint struct {
	Iteration int     `json:"iteration" yaml:"iteration"`
	Loss      float64 `json:"loss" yaml:"loss"`
}

// Coefficients は学習済みの重みとバイアス
// Weights の順序は学習に使った列の順序と一致する。
type Coefficients struct {
	Weights     []float64   `json:"weights" yaml:"weights"`
	Bias        float64     `json:"bias" yaml:"bias"`
	Iterations  int         `json:"iterations" yaml:"iterations"`
	LossHistory []LossPoint `json:"loss_history,omitempty" yaml:"loss_history,omitempty"`
}

// Score returns the linear score w·x + b.
func (c *Coefficients) Score(x []float64) (float64, error) {
	if len(x) != len(c.Weights) {
		return 0, errors.NewDimensionError("Coefficients.Score", len(c.Weights), len(x), 1)
	}
	return floats.Dot(c.Weights, x) + c.Bias, nil
}

// Probability returns Sigmoid(w·x + b).
func (c *Coefficients) Probability(x []float64) (float64, error) {
	z, err := c.Score(x)
	if err != nil {
		return 0, err
	}
	return Sigmoid(z), nil
}

// Predict returns 1 when Probability(x) >= 0.5, else 0.
func (c *Coefficients) Predict(x []float64) (int, error) {
	p, err := c.Probability(x)
	if err != nil {
		return 0, err
	}
	return Classify(p), nil
}

// Sigmoid computes 1/(1+e^-z) with z clamped to [-250, 250].
func Sigmoid(z float64) float64 {
	z = errors.ClipValue(z, -sigmoidClamp, sigmoidClamp)
	return 1.0 / (1.0 + math.Exp(-z))
}

// Classify maps a probability to a 0/1 label with a 0.5 threshold.
func Classify(p float64) int {
	if p >= 0.5 {
		return 1
	}
	return 0
}

// LogisticRegression は全バッチ勾配降下法による2値ロジスティック回帰
//
// 重みとバイアスは0で初期化され、指定回数だけ更新される（早期終了なし）。
// 乱数を使わないため、同じ入力とハイパーパラメータからは常に同じ係数が得られる。
// 学習器は一度だけ使用できる: Trained 状態で Fit を再度呼ぶと ModelError を返す。
type LogisticRegression struct {
	state *model.StateManager

	learningRate float64
	iterations   int
	lossEvery    int
	lossFn       LossCallback
	logger       log.Logger

	coef *Coefficients
}

// NewLogisticRegression creates a new trainer with learning rate 0.01 and 1000 iterations.
func NewLogisticRegression(opts ...Option) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		learningRate: DefaultLearningRate,
		iterations:   DefaultIterations,
	}
	for _, opt := range opts {
		opt(lr)
	}
	if lr.logger == nil {
		lr.logger = log.GetLogger()
	}
	lr.logger = lr.logger.With(log.ModelNameKey, "LogisticRegression", log.ComponentKey, "linear")
	return lr
}

// State returns the trainer lifecycle state.
func (lr *LogisticRegression) State() model.TrainingState {
	return lr.state.State()
}

// Coefficients returns the trained coefficients or a NotFittedError.
func (lr *LogisticRegression) Coefficients() (*Coefficients, error) {
	if err := lr.state.RequireFitted("LogisticRegression", "Coefficients"); err != nil {
		return nil, err
	}
	return lr.coef, nil
}

// Hyperparameters returns the configured learning rate and iteration count.
func (lr *LogisticRegression) Hyperparameters() map[string]interface{} {
	return map[string]interface{}{
		"learning_rate": lr.learningRate,
		"iterations":    lr.iterations,
	}
}

// FitRows は行スライス形式の入力で学習する
// すべての行は同じ長さでなければならない（DimensionError）。
func (lr *LogisticRegression) FitRows(rows [][]float64, y []float64) (*Coefficients, error) {
	if len(rows) == 0 {
		return nil, errors.NewNoDataError("LogisticRegression.FitRows", 0)
	}
	k := len(rows[0])
	if k == 0 {
		return nil, errors.NewDimensionError("LogisticRegression.FitRows", 1, 0, 1)
	}
	data := make([]float64, 0, len(rows)*k)
	for _, row := range rows {
		if len(row) != k {
			return nil, errors.NewDimensionError("LogisticRegression.FitRows", k, len(row), 1)
		}
		data = append(data, row...)
	}
	if len(y) != len(rows) {
		return nil, errors.NewDimensionError("LogisticRegression.FitRows", len(rows), len(y), 0)
	}
	return lr.Fit(mat.NewDense(len(rows), k, data), mat.NewVecDense(len(y), append([]float64(nil), y...)))
}

// Fit は正規化済みの特徴量行列 X とラベル y (0 または 1) で学習する
//
// 各イテレーションで
//
//	w[j] -= lr * Σ(err_i * x_ij) / n
//	b    -= lr * Σ err_i / n
//
// を適用する。err_i = sigmoid(w·x_i + b) - y_i。
func (lr *LogisticRegression) Fit(X mat.Matrix, y mat.Vector) (coef *Coefficients, err error) {
	defer func() {
		if err != nil {
			lr.state.Abort()
		}
	}()
	defer errors.Recover(&err, "LogisticRegression.Fit")

	if err := lr.validateHyperparameters(); err != nil {
		return nil, err
	}

	n, k := X.Dims()
	if n == 0 {
		return nil, errors.NewNoDataError("LogisticRegression.Fit", 0)
	}
	if y.Len() != n {
		return nil, errors.NewDimensionError("LogisticRegression.Fit", n, y.Len(), 0)
	}
	for i := 0; i < n; i++ {
		if v := y.AtVec(i); v != 0 && v != 1 {
			return nil, errors.NewValidationError(fmt.Sprintf("y[%d]", i), "label must be 0 or 1", v)
		}
	}

	if err := lr.state.Begin("LogisticRegression.Fit"); err != nil {
		return nil, err
	}

	start := time.Now()
	lr.logger.Debug("training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, n,
		log.FeaturesKey, k,
		log.LearningRateKey, lr.learningRate,
		log.IterationsKey, lr.iterations,
	)

	labels := mat.VecDenseCopyOf(y)
	w := mat.NewVecDense(k, nil)
	b := 0.0

	var (
		z    = mat.NewVecDense(n, nil)
		p    = mat.NewVecDense(n, nil)
		diff = mat.NewVecDense(n, nil)
		grad = mat.NewVecDense(k, nil)
	)
	step := lr.learningRate / float64(n)
	var history []LossPoint

	for iter := 1; iter <= lr.iterations; iter++ {
		lr.probabilities(p, z, X, w, b)
		diff.SubVec(p, labels)

		grad.MulVec(X.T(), diff)
		w.AddScaledVec(w, -step, grad)
		b -= step * mat.Sum(diff)

		if lr.lossEvery > 0 && iter%lr.lossEvery == 0 {
			lr.probabilities(p, z, X, w, b)
			loss, err := metrics.MSE(labels, p)
			if err != nil {
				return nil, err
			}
			if err := errors.CheckScalar("loss", loss, iter); err != nil {
				return nil, err
			}
			history = append(history, LossPoint{Iteration: iter, Loss: loss})
			lr.logger.Debug("training loss", log.IterationKey, iter, log.LossKey, loss)
			if lr.lossFn != nil {
				lr.lossFn(iter, loss)
			}
		}
	}

	weights := mat.Col(nil, 0, w)
	if err := errors.CheckNumericalStability("gradient_update", append(weights, b), lr.iterations); err != nil {
		return nil, err
	}

	lr.coef = &Coefficients{
		Weights:     weights,
		Bias:        b,
		Iterations:  lr.iterations,
		LossHistory: history,
	}
	lr.state.Complete(k, n)

	lr.logger.Debug("training finished",
		log.OperationKey, log.OperationFit,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return lr.coef, nil
}

// probabilities writes sigmoid(Xw + b) into p, using z as scratch space.
func (lr *LogisticRegression) probabilities(p, z *mat.VecDense, X mat.Matrix, w *mat.VecDense, b float64) {
	z.MulVec(X, w)
	for i := 0; i < z.Len(); i++ {
		p.SetVec(i, Sigmoid(z.AtVec(i)+b))
	}
}

func (lr *LogisticRegression) validateHyperparameters() error {
	if lr.learningRate <= 0 || !errors.IsFinite(lr.learningRate) {
		return errors.NewValidationError("learning_rate", "must be a finite positive number", lr.learningRate)
	}
	if lr.iterations < 1 {
		return errors.NewValidationError("iterations", "must be at least 1", lr.iterations)
	}
	if lr.lossEvery < 0 {
		return errors.NewValidationError("loss_every", "must not be negative", lr.lossEvery)
	}
	return nil
}

// String returns a short description of the trainer configuration.
func (lr *LogisticRegression) String() string {
	return fmt.Sprintf("LogisticRegression(learning_rate=%g, iterations=%d)", lr.learningRate, lr.iterations)
}
