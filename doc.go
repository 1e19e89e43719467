// Package dresskit 是 Dressly 裙装商城的推荐与客群划分核心（Dress Kit）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - Labels-first: labels 全链路透传与标准化 merge，支持 explain / 观测 / 策略驱动
// - 离线在线分离: segtrain 批量拟合客群模型（scaler + k-means 质心），
//   在线编排层只读加载，按请求过滤、打分、截断
package dresskit

import "github.com/dressly/dresskit/pipeline"

// 轻量 facade：便于用户直接 import "dresskit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall = pipeline.KindRecall
	KindFilter = pipeline.KindFilter
	KindRank   = pipeline.KindRank
	KindReRank = pipeline.KindReRank
)
