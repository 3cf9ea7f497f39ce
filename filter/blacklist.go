package filter

import (
	"context"
	"encoding/json"

	"github.com/moviekit/moviekit/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉黑名单中的电影。
// 黑名单可以是内存列表，也可以从 Store 按 key 读 JSON 数组（两者可同时配置）。
type BlacklistFilter struct {
	// MovieIDs 是内存中的黑名单电影 ID 列表
	MovieIDs []int64

	// Store/Key 可选，从存储读取黑名单
	Store core.Store
	Key   string
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}

	for _, id := range f.MovieIDs {
		if item.ID == id {
			return true, nil
		}
	}

	if f.Store != nil && f.Key != "" {
		data, err := f.Store.Get(ctx, f.Key)
		if err == nil {
			var ids []int64
			if json.Unmarshal(data, &ids) == nil {
				for _, id := range ids {
					if item.ID == id {
						return true, nil
					}
				}
			}
		}
	}
	return false, nil
}
