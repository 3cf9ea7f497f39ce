package filter

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/moviekit/moviekit/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// getCELEnv 获取或创建 CEL 环境，定义表达式可见的变量。
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// RuleFilter 按 CEL (Common Expression Language) 表达式过滤候选：
// 表达式求值为 true 的电影被移除。表达式在构造时编译一次，之后复用。
//
// 表达式语法（CEL 标准语法）：
//   - label.recall_source == "toprated"
//   - label.genres.contains("Horror")
//   - item.score < 0.5
//   - label.genres.contains("Children") && item.score < 1.0
//
// 注意：访问不存在的 key 会报错，可用 label.key != null 先做存在性检查。
type RuleFilter struct {
	expr string
	prg  cel.Program
}

// NewRuleFilter 编译表达式并返回过滤器；表达式非法时返回错误。
// 空表达式是合法的空过滤器（不过滤任何候选）。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	f := &RuleFilter{expr: expr}
	if expr == "" {
		return f, nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	f.prg = prg
	return f, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.prg == nil || item == nil {
		return false, nil
	}

	out, _, err := f.prg.Eval(buildInput(rctx, item))
	if err != nil {
		// 表达式访问了缺失的 key 等运行时错误：不过滤，交由调用方观测
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据。
// label 作为顶层访问器直接暴露 Label 的 Value，例如 label.recall_source。
func buildInput(rctx *core.RecommendContext, item *core.Item) map[string]any {
	labels := make(map[string]any, len(item.Labels))
	labelAccessor := make(map[string]any, len(item.Labels))
	for k, v := range item.Labels {
		labels[k] = map[string]any{"value": v.Value, "source": v.Source}
		labelAccessor[k] = v.Value
	}

	itemInput := map[string]any{
		"id":     item.ID,
		"score":  item.Score,
		"meta":   item.Meta,
		"labels": labels,
	}

	rctxInput := map[string]any{}
	if rctx != nil {
		rctxInput = map[string]any{
			"user_id":     rctx.UserID,
			"preferences": rctx.Preferences,
			"method":      rctx.Method,
			"params":      rctx.Params,
		}
	}

	return map[string]any{
		"item":  itemInput,
		"label": labelAccessor,
		"rctx":  rctxInput,
	}
}
