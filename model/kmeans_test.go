package model

import (
	"math/rand"
	"reflect"
	"testing"
)

// fourClusters 生成 4 个彼此远离的高斯簇。
func fourClusters(perCluster int) [][]float64 {
	centers := [][]float64{
		{0, 0, 0},
		{10, 10, 10},
		{-10, 10, 0},
		{10, -10, 5},
	}
	rng := rand.New(rand.NewSource(7))
	rows := make([][]float64, 0, 4*perCluster)
	for _, c := range centers {
		for i := 0; i < perCluster; i++ {
			rows = append(rows, []float64{
				c[0] + rng.NormFloat64()*0.3,
				c[1] + rng.NormFloat64()*0.3,
				c[2] + rng.NormFloat64()*0.3,
			})
		}
	}
	return rows
}

func TestKMeans_LabelsInRangeAndAllUsed(t *testing.T) {
	rows := fourClusters(20)

	km := NewKMeans(4)
	labels, err := km.Fit(rows)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if len(labels) != len(rows) {
		t.Fatalf("got %d labels for %d rows", len(labels), len(rows))
	}

	used := make(map[int]int)
	for _, lbl := range labels {
		if lbl < 0 || lbl >= 4 {
			t.Fatalf("label %d out of [0,4)", lbl)
		}
		used[lbl]++
	}
	// 4 个远离的簇：每个标签都应被用到
	if len(used) != 4 {
		t.Errorf("used labels = %v, want all 4", used)
	}
}

func TestKMeans_Deterministic(t *testing.T) {
	rows := fourClusters(10)

	km1 := NewKMeans(4)
	labels1, err := km1.Fit(rows)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	km2 := NewKMeans(4)
	labels2, err := km2.Fit(rows)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if !reflect.DeepEqual(labels1, labels2) {
		t.Error("same seed and input should give identical labels")
	}
	if !reflect.DeepEqual(km1.Centroids, km2.Centroids) {
		t.Error("same seed and input should give identical centroids")
	}
}

func TestKMeans_PredictNearestCentroid(t *testing.T) {
	km := &KMeans{Centroids: [][]float64{{0, 0}, {10, 10}}}

	lbl, err := km.Predict([]float64{1, 1})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if lbl != 0 {
		t.Errorf("Predict(near origin) = %d, want 0", lbl)
	}

	lbl, err = km.Predict([]float64{9, 9})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if lbl != 1 {
		t.Errorf("Predict(near (10,10)) = %d, want 1", lbl)
	}
}

func TestKMeans_Errors(t *testing.T) {
	km := NewKMeans(4)
	if _, err := km.Fit([][]float64{{1, 2}, {3, 4}}); err == nil {
		t.Error("Fit() with fewer samples than k should fail")
	}

	km = &KMeans{Centroids: [][]float64{{0, 0}}}
	if _, err := km.Predict([]float64{1, 2, 3}); err == nil {
		t.Error("Predict() with wrong width should fail")
	}

	km = &KMeans{}
	if _, err := km.Predict([]float64{1}); err == nil {
		t.Error("Predict() before Fit should fail")
	}
}
