package recall

import (
	"context"
	"errors"
	"testing"

	"github.com/moviekit/moviekit/core"
)

// fakeSource 是固定返回值的召回源，用于合并策略测试。
type fakeSource struct {
	name  string
	items []*core.Item
	err   error
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Recall(_ context.Context, _ *core.RecommendContext) ([]*core.Item, error) {
	return s.items, s.err
}

func scoredItem(id int64, score float64) *core.Item {
	it := core.NewItem(id)
	it.Score = score
	return it
}

func TestFanoutUnion(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&fakeSource{name: "a", items: []*core.Item{scoredItem(1, 1), scoredItem(2, 2)}},
			&fakeSource{name: "b", items: []*core.Item{scoredItem(2, 3), scoredItem(3, 4)}},
		},
		MergeStrategy: "union",
	}
	items, err := fanout.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	// union 不去重
	if len(items) != 4 {
		t.Fatalf("items = %v, want 4 entries", itemIDs(items))
	}
}

func TestFanoutMergeByPriority(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&fakeSource{name: "a", items: []*core.Item{scoredItem(2, 0.5)}},
			&fakeSource{name: "b", items: []*core.Item{scoredItem(2, 0.9), scoredItem(3, 0.1)}},
		},
		Dedup:         true,
		MergeStrategy: "priority",
		MaxConcurrent: 1, // 串行执行保证合并输入顺序确定
	}
	items, err := fanout.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	assertIDs(t, items, 2, 3)

	// 重复 ID 保留优先级更高（Sources 索引更小）的那份，标签按合并规则累积
	if items[0].Score != 0.5 {
		t.Errorf("item 2 score = %v, want 0.5 from source a", items[0].Score)
	}
	if items[0].Label("recall_source") != "a|b" {
		t.Errorf("item 2 recall_source = %q, want merged %q", items[0].Label("recall_source"), "a|b")
	}
}

func TestFanoutMergeFirst(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&fakeSource{name: "a", items: []*core.Item{scoredItem(1, 1), scoredItem(2, 0.5)}},
			&fakeSource{name: "b", items: []*core.Item{scoredItem(2, 0.9), scoredItem(3, 0.1)}},
		},
		Dedup:         true,
		MaxConcurrent: 1,
	}
	items, err := fanout.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	assertIDs(t, items, 1, 2, 3)
	if items[1].Score != 0.5 {
		t.Errorf("item 2 score = %v, want first-seen 0.5", items[1].Score)
	}
}

func TestFanoutSourceErrorSwallowed(t *testing.T) {
	fanout := &Fanout{
		Sources: []Source{
			&fakeSource{name: "broken", err: errors.New("boom")},
			&fakeSource{name: "ok", items: []*core.Item{scoredItem(7, 1)}},
		},
		Dedup: true,
	}
	items, err := fanout.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	// 单路失败不影响整体结果
	assertIDs(t, items, 7)
	if items[0].Label("recall_source") != "ok" {
		t.Errorf("recall_source = %q, want %q", items[0].Label("recall_source"), "ok")
	}
}

func TestFanoutNoSources(t *testing.T) {
	fanout := &Fanout{}
	items, err := fanout.Process(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if items != nil {
		t.Fatalf("items = %v, want nil", itemIDs(items))
	}
}
