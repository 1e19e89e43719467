package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/feature"
)

// SegmentModel 是客群划分的持久化模型：scaler 统计量 + 质心集 + 特征列名。
//
// 三者必须作为同一个 blob 整体读写——scaler 与质心是同一次 fit 的配套产物，
// 搭配另一次 fit 的另一半，质心距离在错误的标准化空间里毫无意义。
// 没有版本化/迁移机制：加载到与特征列不一致的模型属于未定义行为，
// Load 校验维度并大声失败，绝不悄悄错判客群。
type SegmentModel struct {
	Features  []string             `json:"features"`
	Scaler    feature.ScalerParams `json:"scaler"`
	Centroids [][]float64          `json:"centroids"`
}

// TrainSegmentModel 离线拟合客群模型：标准化（含列均值填充）后跑 k-means。
// 返回配套的模型与每个样本的客群标签。
func TrainSegmentModel(features []string, rows [][]float64, k int, seed int64) (*SegmentModel, []int, error) {
	if len(features) == 0 {
		return nil, nil, fmt.Errorf("train segment model: no feature names")
	}
	params, scaled, err := feature.FitTransform(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("train segment model: %w", err)
	}
	if params.Dim() != len(features) {
		return nil, nil, fmt.Errorf("train segment model: %d feature names for %d columns", len(features), params.Dim())
	}

	km := NewKMeans(k)
	km.Seed = seed
	labels, err := km.Fit(scaled)
	if err != nil {
		return nil, nil, fmt.Errorf("train segment model: %w", err)
	}

	return &SegmentModel{
		Features:  features,
		Scaler:    params,
		Centroids: km.Centroids,
	}, labels, nil
}

// K 返回客群数。
func (m *SegmentModel) K() int { return len(m.Centroids) }

// Predict 把一份客户画像分配到最近的客群。
// 画像缺失字段由 CustomerProfile.Vector 代入文档化的默认值（冷启动）。
func (m *SegmentModel) Predict(profile *core.CustomerProfile) (int, error) {
	if m == nil || len(m.Centroids) == 0 {
		return core.SegmentUnknown, core.ErrModelUnavailable
	}
	scaled, err := m.Scaler.TransformOne(profile.Vector())
	if err != nil {
		return core.SegmentUnknown, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, err.Error())
	}
	km := &KMeans{Centroids: m.Centroids}
	return km.Predict(scaled)
}

// validate 校验 scaler、质心、特征列三者的维度一致。
func (m *SegmentModel) validate() error {
	if len(m.Centroids) == 0 {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model: no centroids")
	}
	dim := m.Scaler.Dim()
	if dim == 0 || dim != len(m.Scaler.Std) {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput, "model: malformed scaler params")
	}
	if len(m.Features) != dim {
		return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("model: %d feature names for scaler dim %d", len(m.Features), dim))
	}
	for i, c := range m.Centroids {
		if len(c) != dim {
			return core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
				fmt.Sprintf("model: centroid %d width %d != scaler dim %d", i, len(c), dim))
		}
	}
	return nil
}

// Save 把模型整体写入一个 JSON 文件。
func (m *SegmentModel) Save(path string) error {
	if err := m.validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("save segment model: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadSegmentModel 从文件加载模型并校验维度一致性。
// 文件缺失返回 UNAVAILABLE（调用方降级），内容不一致返回 INVALID_INPUT（大声失败）。
func LoadSegmentModel(path string) (*SegmentModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.ErrModelUnavailable
	}
	return decodeSegmentModel(data)
}

// SaveToStore 把模型整体写入 Store 中的单个 key。
func (m *SegmentModel) SaveToStore(ctx context.Context, s core.Store, key string) error {
	if err := m.validate(); err != nil {
		return err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("save segment model: %w", err)
	}
	return s.Set(ctx, key, data)
}

// LoadSegmentModelFromStore 从 Store 加载模型。key 缺失返回 UNAVAILABLE。
func LoadSegmentModelFromStore(ctx context.Context, s core.Store, key string) (*SegmentModel, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return nil, core.ErrModelUnavailable
	}
	return decodeSegmentModel(data)
}

func decodeSegmentModel(data []byte) (*SegmentModel, error) {
	var m SegmentModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, core.NewDomainError(core.ModuleModel, core.ErrorCodeInvalidInput,
			fmt.Sprintf("model: decode: %v", err))
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
