package rerank

import (
	"context"

	"github.com/moviekit/moviekit/core"
	"github.com/moviekit/moviekit/pipeline"
)

// Diversity 是一个简单的多样性重排：按标签去重，每个标签值只保留首个候选。
// 用类型标签（"genres"）时即“每个类型组合最多一部”。
// 标签来源优先级：
//   - label[LabelKey].Value
//   - meta[LabelKey] (string)
type Diversity struct {
	LabelKey string // 默认 "genres"
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	key := n.LabelKey
	if key == "" {
		key = "genres"
	}

	seen := make(map[string]bool, len(items))
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}

		tag := ""
		if it.Labels != nil {
			if lbl, ok := it.Labels[key]; ok {
				tag = lbl.Value
			}
		}
		if tag == "" && it.Meta != nil {
			if v, ok := it.Meta[key]; ok {
				if s, ok := v.(string); ok {
					tag = s
				}
			}
		}

		if tag == "" {
			out = append(out, it)
			continue
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, it)
	}
	return out, nil
}
