package feature

import (
	"math"
	"testing"
)

func TestFitScaler_TransformFitInput(t *testing.T) {
	rows := [][]float64{
		{23, 15, 81},
		{31, 17, 40},
		{45, 120, 6},
		{52, 88, 55},
		{19, 25, 73},
	}

	params, scaled, err := FitTransform(rows)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	if params.Dim() != 3 {
		t.Fatalf("Dim() = %d, want 3", params.Dim())
	}

	// 对 fit 输入再做 transform：每列均值≈0，标准差≈1
	for col := 0; col < 3; col++ {
		var sum float64
		for _, row := range scaled {
			sum += row[col]
		}
		mean := sum / float64(len(scaled))
		if math.Abs(mean) > 1e-9 {
			t.Errorf("col %d mean = %v, want ~0", col, mean)
		}

		var sq float64
		for _, row := range scaled {
			d := row[col] - mean
			sq += d * d
		}
		std := math.Sqrt(sq / float64(len(scaled)))
		if math.Abs(std-1) > 1e-9 {
			t.Errorf("col %d std = %v, want ~1", col, std)
		}
	}
}

func TestFitScaler_ImputesMissingWithColumnMean(t *testing.T) {
	rows := [][]float64{
		{10, math.NaN()},
		{20, 4},
		{30, 6},
	}

	params, err := FitScaler(rows)
	if err != nil {
		t.Fatalf("FitScaler() error = %v", err)
	}
	// 第二列均值只看非缺失值：(4+6)/2 = 5
	if params.Mean[1] != 5 {
		t.Errorf("Mean[1] = %v, want 5", params.Mean[1])
	}

	// 缺失值变换后应落在列均值处，即 0
	scaled, err := params.TransformOne(rows[0])
	if err != nil {
		t.Fatalf("TransformOne() error = %v", err)
	}
	if scaled[1] != 0 {
		t.Errorf("imputed value scaled to %v, want 0", scaled[1])
	}
}

func TestFitScaler_ConstantColumn(t *testing.T) {
	rows := [][]float64{
		{7, 1},
		{7, 2},
		{7, 3},
	}
	params, scaled, err := FitTransform(rows)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	if params.Std[0] != 1 {
		t.Errorf("constant column std = %v, want 1", params.Std[0])
	}
	for i, row := range scaled {
		if row[0] != 0 {
			t.Errorf("row %d constant column scaled to %v, want 0", i, row[0])
		}
	}
}

func TestScalerParams_DimensionMismatchFails(t *testing.T) {
	params, err := FitScaler([][]float64{{1, 2}, {3, 4}})
	if err != nil {
		t.Fatalf("FitScaler() error = %v", err)
	}
	if _, err := params.TransformOne([]float64{1, 2, 3}); err == nil {
		t.Fatal("TransformOne() with wrong width should fail")
	}
}

func TestFitScaler_EmptyInput(t *testing.T) {
	if _, err := FitScaler(nil); err == nil {
		t.Fatal("FitScaler(nil) should fail")
	}
}
