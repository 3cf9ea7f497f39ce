// Package moviekit 是一个基于 MovieLens 100k 的电影推荐工具包（Movie Kit）。
//
// 设计要点：
// - 一次加载，只读共享：数据集与两张矩阵在启动时构建，之后无锁并发打分
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → ReRank）
// - 两种可互换的打分策略：内容关键词匹配（content）与基于物品的协同过滤（collaborative）
// - 热门兜底（toprated）：任何一路给不出结果时按平均评分回退
package moviekit

import "github.com/moviekit/moviekit/pipeline"

// 轻量 facade：便于用户直接 import "moviekit" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
