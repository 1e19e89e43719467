package core

// RankSignal 表示目录快照可用的兜底排序信号。
// 目录导出里 popularity / rating 列是可选的，缺列时对应的排序分支直接失效，
// 因此用显式枚举代替“看看有没有这一列”的隐式判断。
type RankSignal int

const (
	// SignalNone 表示快照既无 popularity 也无 rating，只能走确定性洗牌。
	SignalNone RankSignal = iota
	// SignalPopularity 表示快照带 popularity 列，按热度降序兜底。
	SignalPopularity
	// SignalRating 表示快照只带 rating 列，按评分降序兜底。
	SignalRating
)

func (s RankSignal) String() string {
	switch s {
	case SignalPopularity:
		return "popularity"
	case SignalRating:
		return "rating"
	default:
		return "none"
	}
}

// Product 是商品记录：目录导出的一行。
// Popularity / Rating / Segment 三个可选字段用 value + Has 标志成对出现，
// 读取前必须检查标志位；零值本身不代表“缺失”。
type Product struct {
	ID       int64
	Title    string
	Category string
	Color    string
	Price    float64

	// 可选注解列
	Popularity    float64
	HasPopularity bool
	Rating        float64
	HasRating     bool

	// Segment 是离线聚类 join 到商品行上的客群标签（0..k-1）。
	Segment    int
	HasSegment bool
}
