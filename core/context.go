package core

import "github.com/moviekit/moviekit/pkg/utils"

// 推荐方式。content 按偏好文本做内容匹配，collaborative 按用户评分做协同过滤，
// hybrid 并发跑两路召回后合并。
const (
	MethodContent       = "content"
	MethodCollaborative = "collaborative"
	MethodHybrid        = "hybrid"
)

// RecommendContext 承载一次推荐请求的用户与场景信息，贯穿整个 Pipeline 透传。
// 所有字段在请求期间只读。
type RecommendContext struct {
	// UserID 是 MovieLens 用户 ID；0 表示匿名用户（协同过滤会退化为热门兜底）。
	UserID int64

	// Preferences 是自由文本偏好，内容召回据此做类型/标题关键词匹配。
	Preferences string

	// Method 见上方常量，空值按 content 处理。
	Method string

	// N 是期望返回的条数，<=0 时由各节点取默认值。
	N int

	// Labels 是请求级标签，可驱动过滤与重排行为。
	Labels map[string]utils.Label

	// Params 请求级扩展参数（如 min_ratings、filter 表达式等）。
	Params map[string]any
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
