// Package feast 对接 Feast Feature Store，为推荐链路提供在线客户画像特征。
//
// Feast 是一个开源的 Feature Store，离线侧物化客户属性（年龄、年收入、
// 消费评分），在线侧通过 Feature Server 低延迟读取。推荐核心只消费
// 在线特征；训练数据走离线 CSV 导出，不经过这里。
//
// 参考：https://github.com/feast-dev/feast
package feast

import "context"

// Client 是 Feast 在线特征读取的客户端接口。
// 领域层依赖此接口，GrpcClient 是基础设施层实现，可替换。
type Client interface {
	// GetOnlineFeatures 获取在线特征。
	// features 形如 ["customer_stats:age"]，每个 EntityRow 对应返回一个 FeatureVector。
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求。
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表，例如 ["customer_stats:age", "customer_stats:annual_income"]
	Features []string

	// EntityRows 实体行，例如 [{"customer_id": 1001}]
	EntityRows []map[string]any

	// Project 项目名称（可选，为空时用客户端默认值）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应。
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 特征向量列表，与请求的实体行一一对应
	FeatureVectors []FeatureVector
}

// FeatureVector 是单个实体的特征值集合。
type FeatureVector struct {
	// Values 特征值，key 为特征名称
	Values map[string]any

	// EntityRow 对应的实体行
	EntityRow map[string]any
}
