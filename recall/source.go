// Package recall 提供三个召回源：内容匹配（content）、基于物品的协同过滤
// （collaborative）与热门兜底（toprated），以及并发 fan-out 合并。
// 召回源对启动时构建好的数据结构做纯读，不持有任何可变状态。
package recall

import (
	"context"

	"github.com/moviekit/moviekit/core"
	"github.com/moviekit/moviekit/dataset"
)

// Source 表示一个可复用的召回源（内容/协同过滤/热门）。
// 可以把它理解为“可并发 fan-out 的策略单元”。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// Catalog 是召回源需要的电影目录只读视图，由 dataset.Dataset 实现。
// Row 是 ID 到表内行位置的显式映射：相似度矩阵只能经它索引。
type Catalog interface {
	AllMovies() []dataset.Movie
	Row(movieID int64) (int, bool)
}

// 各召回源共用的默认值。
const (
	defaultTopK = 5
)

// topK 解析本次召回的返回条数：节点配置优先，其次请求 N，最后默认值。
func topK(configured int, rctx *core.RecommendContext) int {
	if configured > 0 {
		return configured
	}
	if rctx != nil && rctx.N > 0 {
		return rctx.N
	}
	return defaultTopK
}
