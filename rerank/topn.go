// Package rerank 提供排序结果上的重排节点：TopN 截断与类型多样性。
package rerank

import (
	"context"

	"github.com/moviekit/moviekit/core"
	"github.com/moviekit/moviekit/pipeline"
)

// TopN 是截断节点，保留前 N 个候选。
// 通常放在召回/过滤之后，用于控制返回条数。
type TopN struct {
	// N 要保留的条数；<=0 时取请求的 N；仍 <=0 则不截断。
	N int
}

func (n *TopN) Name() string {
	return "rerank.topn"
}

func (n *TopN) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopN) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.N
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
