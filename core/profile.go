package core

// 冷启动默认画像：调用方画像字段缺失时用这组值顶上，
// 保证没有任何画像数据的用户也能得到一个客群预测，而不是直接失败。
const (
	DefaultAge           = 30.0
	DefaultAnnualIncome  = 50.0 // 单位 k$
	DefaultSpendingScore = 50.0 // 1-100
)

// CustomerProfile 是客户的数值画像，离线聚类与在线客群预测共用同一组特征。
// 字段为 0 视为缺失（Dressly 的数据里这三项不会取 0），Vector 会代入默认值。
type CustomerProfile struct {
	Age           float64
	AnnualIncome  float64
	SpendingScore float64
}

// Vector 按固定顺序 [age, annual_income, spending_score] 导出特征向量。
// 顺序必须与训练时的特征列一致，客群模型按此顺序对齐 scaler 统计量与质心。
func (p *CustomerProfile) Vector() []float64 {
	age, income, score := DefaultAge, DefaultAnnualIncome, DefaultSpendingScore
	if p != nil {
		if p.Age != 0 {
			age = p.Age
		}
		if p.AnnualIncome != 0 {
			income = p.AnnualIncome
		}
		if p.SpendingScore != 0 {
			score = p.SpendingScore
		}
	}
	return []float64{age, income, score}
}

// ProfileFeatureNames 是画像特征的规范列名，与 Vector 的输出顺序一一对应。
func ProfileFeatureNames() []string {
	return []string{"age", "annual_income", "spending_score"}
}
