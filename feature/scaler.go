package feature

import (
	"fmt"
	"math"
)

// ScalerParams 是标准化器在 fit 时学到的统计量（Z-score 标准化）。
// 公式: z = (x - μ) / σ，fit 输入的每列经 Transform 后均值≈0、标准差≈1。
//
// 不变式：Transform 必须使用与数据配套的那次 fit 产出的统计量。
// 用另一份数据的统计量做变换不会报错，但会悄悄破坏客群预测，
// 因此 ScalerParams 总是和质心捆绑持久化（见 model.SegmentModel）。
type ScalerParams struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler 在样本矩阵上拟合标准化统计量。
// 缺失值（NaN）以列均值填充后再参与统计，不丢弃任何样本行；
// 常数列的标准差按 1 处理，变换后整列为 0。
func FitScaler(rows [][]float64) (ScalerParams, error) {
	if len(rows) == 0 {
		return ScalerParams{}, fmt.Errorf("fit scaler: empty input")
	}
	dim := len(rows[0])
	if dim == 0 {
		return ScalerParams{}, fmt.Errorf("fit scaler: zero-width rows")
	}

	mean := make([]float64, dim)
	std := make([]float64, dim)

	for col := 0; col < dim; col++ {
		var sum float64
		var n int
		for _, row := range rows {
			if len(row) != dim {
				return ScalerParams{}, fmt.Errorf("fit scaler: row width %d != %d", len(row), dim)
			}
			if math.IsNaN(row[col]) {
				continue
			}
			sum += row[col]
			n++
		}
		if n == 0 {
			// 整列缺失：均值取 0，后续全列按缺失填充
			mean[col] = 0
		} else {
			mean[col] = sum / float64(n)
		}

		// 缺失值按列均值计入方差（与先填充再 fit 等价）
		var sq float64
		for _, row := range rows {
			v := row[col]
			if math.IsNaN(v) {
				v = mean[col]
			}
			d := v - mean[col]
			sq += d * d
		}
		std[col] = math.Sqrt(sq / float64(len(rows)))
		if std[col] == 0 {
			std[col] = 1
		}
	}

	return ScalerParams{Mean: mean, Std: std}, nil
}

// Dim 返回统计量覆盖的特征维数。
func (p ScalerParams) Dim() int { return len(p.Mean) }

// TransformOne 用 fit 时的统计量标准化单个特征向量。
// 维度不匹配时返回错误：这是“scaler 与数据不配套”的信号，必须大声失败。
func (p ScalerParams) TransformOne(row []float64) ([]float64, error) {
	if len(row) != p.Dim() || len(p.Std) != p.Dim() {
		return nil, fmt.Errorf("scaler: dimension mismatch: row %d, params %d", len(row), p.Dim())
	}
	out := make([]float64, len(row))
	for i, v := range row {
		if math.IsNaN(v) {
			v = p.Mean[i]
		}
		out[i] = (v - p.Mean[i]) / p.Std[i]
	}
	return out, nil
}

// Transform 标准化整个样本矩阵。
func (p ScalerParams) Transform(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		t, err := p.TransformOne(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = t
	}
	return out, nil
}

// FitTransform 一次完成 fit + transform，离线训练常用。
func FitTransform(rows [][]float64) (ScalerParams, [][]float64, error) {
	params, err := FitScaler(rows)
	if err != nil {
		return ScalerParams{}, nil, err
	}
	scaled, err := params.Transform(rows)
	if err != nil {
		return ScalerParams{}, nil, err
	}
	return params, scaled, nil
}
