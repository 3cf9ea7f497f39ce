// Package pipeline 提供 moviekit 的核心编排抽象：把推荐逻辑拆成可组合的 Node 链
// （Recall → Filter → ReRank → PostProcess），并支持从 YAML/JSON 配置构建。
package pipeline

import (
	"context"

	"github.com/moviekit/moviekit/core"
)

// Pipeline 按顺序执行 Node 链，前一个节点的输出是后一个节点的输入。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
