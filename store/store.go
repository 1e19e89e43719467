package store

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store 和 core.KeyValueStore 接口。
//
// 推荐核心的持久化数据（客群模型 blob、分配表 Hash、热门商品 zset、
// 用户行为历史）都经由这两个接口读写：
//
//	var s core.Store = NewMemoryStore()
//	var kv core.KeyValueStore = NewMemoryStore()
