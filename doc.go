// Package bookrec 是一个图书推荐引擎（Book Recommender）。
//
// 设计要点：
// - 构建期一次性预处理目录并拟合 TF-IDF 向量空间，查询期只读共享状态
// - Pipeline-first: 推荐逻辑通过 Node 串联（Filter → Rank → ReRank）
// - Labels-first: 每条结果携带 score_source 等标签，支持 explain / 规则过滤
// - 快照可移植：词表 + 文档频率 + 文档向量的显式 schema，save/load 往返等价
package bookrec

import "github.com/rushteam/bookrec/pipeline"

// 轻量 facade：便于用户直接 import "bookrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
