// Package config 把 YAML/JSON 的 Pipeline 配置翻译成 moviekit 的 Node 实例。
// 与通用配置不同，召回/过滤节点需要启动时构建好的数据结构（电影目录、
// 相似度矩阵、评分矩阵），因此工厂由 Deps 闭包注入这些句柄。
package config

import (
	"fmt"
	"time"

	"github.com/moviekit/moviekit/core"
	"github.com/moviekit/moviekit/dataset"
	"github.com/moviekit/moviekit/filter"
	"github.com/moviekit/moviekit/pipeline"
	"github.com/moviekit/moviekit/pkg/conv"
	"github.com/moviekit/moviekit/recall"
	"github.com/moviekit/moviekit/rerank"
	"github.com/moviekit/moviekit/similarity"
)

// Deps 是构建节点所需的运行期依赖。
type Deps struct {
	Dataset *dataset.Dataset
	Sim     *similarity.GenreSimilarity
	Matrix  *similarity.UserItemMatrix
	Store   core.Store // 可选，预计算榜单/黑名单
}

// DefaultFactory 返回一个包含所有内置 Node 的工厂。
func DefaultFactory(deps Deps) *pipeline.NodeFactory {
	factory := pipeline.NewNodeFactory()

	factory.Register("recall.content", func(cfg map[string]any) (pipeline.Node, error) {
		return buildContentNode(deps, cfg), nil
	})
	factory.Register("recall.collaborative", func(cfg map[string]any) (pipeline.Node, error) {
		return buildCollaborativeNode(deps, cfg), nil
	})
	factory.Register("recall.toprated", func(cfg map[string]any) (pipeline.Node, error) {
		return buildTopRatedNode(deps, cfg), nil
	})
	factory.Register("recall.fanout", func(cfg map[string]any) (pipeline.Node, error) {
		return buildFanoutNode(deps, cfg)
	})
	factory.Register("filter", func(cfg map[string]any) (pipeline.Node, error) {
		return buildFilterNode(deps, cfg)
	})
	factory.Register("rerank.topn", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.TopN{N: conv.ConfigGetInt(cfg, "n", 0)}, nil
	})
	factory.Register("rerank.diversity", func(cfg map[string]any) (pipeline.Node, error) {
		return &rerank.Diversity{LabelKey: conv.ConfigGet[string](cfg, "label_key", "genres")}, nil
	})

	return factory
}

func buildContentNode(deps Deps, cfg map[string]any) *recall.ContentRecall {
	return &recall.ContentRecall{
		Catalog:        deps.Dataset,
		TopK:           conv.ConfigGetInt(cfg, "top_k", 0),
		MinRatingCount: conv.ConfigGetInt(cfg, "min_rating_count", 0),
	}
}

func buildCollaborativeNode(deps Deps, cfg map[string]any) *recall.ItemCF {
	return &recall.ItemCF{
		Catalog: deps.Dataset,
		Sim:     deps.Sim,
		Matrix:  deps.Matrix,
		TopK:    conv.ConfigGetInt(cfg, "top_k", 0),
	}
}

func buildTopRatedNode(deps Deps, cfg map[string]any) *recall.TopRated {
	node := &recall.TopRated{
		Catalog:    deps.Dataset,
		TopK:       conv.ConfigGetInt(cfg, "top_k", 0),
		MinRatings: conv.ConfigGetInt(cfg, "min_ratings", 0),
	}
	if key := conv.ConfigGet[string](cfg, "store_key", ""); key != "" {
		node.Store = deps.Store
		node.Key = key
	}
	return node
}

func buildFanoutNode(deps Deps, cfg map[string]any) (pipeline.Node, error) {
	sourcesConfig, ok := cfg["sources"].([]any)
	if !ok {
		return nil, fmt.Errorf("sources not found or invalid")
	}

	sources := make([]recall.Source, 0, len(sourcesConfig))
	for _, sc := range sourcesConfig {
		sourceMap, ok := sc.(map[string]any)
		if !ok {
			continue
		}
		switch sourceType := conv.ConfigGet[string](sourceMap, "type", ""); sourceType {
		case "content":
			sources = append(sources, buildContentNode(deps, sourceMap))
		case "collaborative":
			sources = append(sources, buildCollaborativeNode(deps, sourceMap))
		case "toprated":
			sources = append(sources, buildTopRatedNode(deps, sourceMap))
		default:
			return nil, fmt.Errorf("unknown source type: %s", sourceType)
		}
	}

	fanout := &recall.Fanout{
		Sources:       sources,
		Dedup:         conv.ConfigGet(cfg, "dedup", true),
		MergeStrategy: conv.ConfigGet[string](cfg, "merge_strategy", ""),
	}
	if sec := conv.ConfigGetInt(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	if n := conv.ConfigGetInt(cfg, "max_concurrent", 0); n > 0 {
		fanout.MaxConcurrent = n
	}
	return fanout, nil
}

func buildFilterNode(deps Deps, cfg map[string]any) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]any)
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]any)
		if !ok {
			continue
		}
		switch filterType := conv.ConfigGet[string](filterMap, "type", ""); filterType {
		case "min_ratings":
			filters = append(filters, &filter.MinRatingsFilter{
				Catalog: deps.Dataset,
				Min:     conv.ConfigGetInt(filterMap, "min", 0),
			})
		case "blacklist":
			filters = append(filters, &filter.BlacklistFilter{
				MovieIDs: conv.SliceAnyToInt64(filterMap["movie_ids"]),
				Store:    deps.Store,
				Key:      conv.ConfigGet[string](filterMap, "key", ""),
			})
		case "rule":
			rule, err := filter.NewRuleFilter(conv.ConfigGet[string](filterMap, "expr", ""))
			if err != nil {
				return nil, fmt.Errorf("rule filter: %w", err)
			}
			filters = append(filters, rule)
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}
