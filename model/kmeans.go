package model

import (
	"fmt"
	"math"
	"math/rand"
)

// 默认训练参数：k=4 与种子 42 对齐离线批任务的历史产出，
// 保证重跑同一份数据得到同一组质心。
const (
	DefaultK       = 4
	DefaultSeed    = 42
	DefaultMaxIter = 100

	convergeTol = 1e-6
)

// KMeans 实现标准 k-means 聚类（Lloyd 迭代 + 固定种子的 k-means++ 初始化）。
// 输入必须是已标准化的特征矩阵；欧氏距离只在标准化空间内有意义。
type KMeans struct {
	K       int
	MaxIter int
	Seed    int64

	// Centroids 是 fit 产出的最终质心集，Predict 据此做最近质心分配。
	Centroids [][]float64
}

// NewKMeans 以默认迭代上限与种子创建聚类器。
func NewKMeans(k int) *KMeans {
	return &KMeans{K: k, MaxIter: DefaultMaxIter, Seed: DefaultSeed}
}

// Fit 在标准化样本矩阵上聚类，返回每个样本的客群标签（0..K-1）。
// 初始化使用种子固定的 k-means++（按 D² 加权采样），同一输入必然得到同一划分。
func (m *KMeans) Fit(rows [][]float64) ([]int, error) {
	if m.K <= 0 {
		return nil, fmt.Errorf("kmeans: k must be positive, got %d", m.K)
	}
	n := len(rows)
	if n < m.K {
		return nil, fmt.Errorf("kmeans: %d samples < k=%d", n, m.K)
	}
	dim := len(rows[0])
	for i, row := range rows {
		if len(row) != dim {
			return nil, fmt.Errorf("kmeans: row %d width %d != %d", i, len(row), dim)
		}
	}

	maxIter := m.MaxIter
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	rng := rand.New(rand.NewSource(m.Seed))

	centroids := initPlusPlus(rows, m.K, rng)
	labels := make([]int, n)

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, row := range rows {
			best := nearest(centroids, row)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		shift := recompute(centroids, rows, labels)

		if !changed && shift < convergeTol {
			break
		}
	}

	m.Centroids = centroids
	return labels, nil
}

// Predict 把一个新的标准化特征向量分配到最近质心对应的客群。
func (m *KMeans) Predict(row []float64) (int, error) {
	if len(m.Centroids) == 0 {
		return 0, fmt.Errorf("kmeans: not fitted")
	}
	if len(row) != len(m.Centroids[0]) {
		return 0, fmt.Errorf("kmeans: feature width %d != centroid width %d", len(row), len(m.Centroids[0]))
	}
	return nearest(m.Centroids, row), nil
}

// initPlusPlus 做 k-means++ 初始化：首个质心均匀采样，
// 其余质心按到已选质心的最小平方距离加权采样。rng 种子固定时完全确定。
func initPlusPlus(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(rows)
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, cloneRow(rows[rng.Intn(n)]))

	dist := make([]float64, n)
	for len(centroids) < k {
		var total float64
		for i, row := range rows {
			d := sqDist(row, centroids[len(centroids)-1])
			if len(centroids) == 1 || d < dist[i] {
				dist[i] = d
			}
			total += dist[i]
		}

		if total == 0 {
			// 样本全部重合：退化为重复质心
			centroids = append(centroids, cloneRow(rows[rng.Intn(n)]))
			continue
		}

		target := rng.Float64() * total
		var acc float64
		pick := n - 1
		for i, d := range dist {
			acc += d
			if acc >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, cloneRow(rows[pick]))
	}
	return centroids
}

// recompute 把每个质心移动到其成员均值处，返回最大质心位移。
// 空簇保留原质心不动。
func recompute(centroids [][]float64, rows [][]float64, labels []int) float64 {
	k := len(centroids)
	dim := len(centroids[0])
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, row := range rows {
		c := labels[i]
		counts[c]++
		for j, v := range row {
			sums[c][j] += v
		}
	}

	var maxShift float64
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			continue
		}
		var shift float64
		for j := 0; j < dim; j++ {
			nv := sums[c][j] / float64(counts[c])
			d := nv - centroids[c][j]
			shift += d * d
			centroids[c][j] = nv
		}
		if shift > maxShift {
			maxShift = shift
		}
	}
	return math.Sqrt(maxShift)
}

func nearest(centroids [][]float64, row []float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(row, centroid); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func cloneRow(row []float64) []float64 {
	out := make([]float64, len(row))
	copy(out, row)
	return out
}
