package feast

import (
	"context"

	"github.com/dressly/dresskit/core"
	"github.com/dressly/dresskit/pkg/conv"
)

// 默认的画像特征配置。特征视图离线侧由客户导出表物化而来。
const (
	DefaultEntityKey = "customer_id"

	featureAge           = "customer_stats:age"
	featureAnnualIncome  = "customer_stats:annual_income"
	featureSpendingScore = "customer_stats:spending_score"
)

// ProfileProvider 从 Feast 在线存储拉取客户画像，供编排层在没有
// 预计算客群标签、请求又未携带画像时做在线客群预测。
//
// 拉不到的字段留 0，下游 CustomerProfile.Vector 会代入冷启动默认值。
type ProfileProvider struct {
	Client Client
	// EntityKey 实体主键名，为空时用 DefaultEntityKey
	EntityKey string
}

// Profile 拉取一个客户的画像特征。
func (p *ProfileProvider) Profile(ctx context.Context, userID int64) (*core.CustomerProfile, error) {
	entityKey := p.EntityKey
	if entityKey == "" {
		entityKey = DefaultEntityKey
	}

	resp, err := p.Client.GetOnlineFeatures(ctx, &GetOnlineFeaturesRequest{
		Features:   []string{featureAge, featureAnnualIncome, featureSpendingScore},
		EntityRows: []map[string]any{{entityKey: userID}},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.FeatureVectors) == 0 {
		return &core.CustomerProfile{}, nil
	}

	values := resp.FeatureVectors[0].Values
	profile := &core.CustomerProfile{}
	if v, ok := conv.ToFloat64(values[featureAge]); ok {
		profile.Age = v
	}
	if v, ok := conv.ToFloat64(values[featureAnnualIncome]); ok {
		profile.AnnualIncome = v
	}
	if v, ok := conv.ToFloat64(values[featureSpendingScore]); ok {
		profile.SpendingScore = v
	}
	return profile, nil
}
