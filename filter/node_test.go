package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/moviekit/moviekit/core"
	"github.com/moviekit/moviekit/dataset"
)

type fakeFilter struct {
	name string
	hit  func(item *core.Item) bool
	err  error
}

func (f *fakeFilter) Name() string { return f.name }

func (f *fakeFilter) ShouldFilter(_ context.Context, _ *core.RecommendContext, item *core.Item) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.hit(item), nil
}

func TestFilterNode(t *testing.T) {
	node := &FilterNode{Filters: []Filter{
		&fakeFilter{name: "even", hit: func(it *core.Item) bool { return it.ID%2 == 0 }},
	}}

	items := []*core.Item{core.NewItem(1), core.NewItem(2), core.NewItem(3), nil}
	out, err := node.Process(context.Background(), nil, items)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 2 || out[0].ID != 1 || out[1].ID != 3 {
		t.Fatalf("out = %v", ids(out))
	}

	// 被移除的条目带上过滤标记与原因
	if items[1].Label("filtered") != "true" {
		t.Error("filtered item must carry the filtered label")
	}
	if items[1].Labels["filtered"].Source != "even" {
		t.Errorf("filtered source = %q, want %q", items[1].Labels["filtered"].Source, "even")
	}
}

func TestFilterNodeErroredFilterSkipped(t *testing.T) {
	node := &FilterNode{Filters: []Filter{
		&fakeFilter{name: "broken", err: errors.New("boom")},
		&fakeFilter{name: "odd", hit: func(it *core.Item) bool { return it.ID%2 == 1 }},
	}}

	out, err := node.Process(context.Background(), nil, []*core.Item{core.NewItem(1), core.NewItem(2)})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	// 出错的过滤器被跳过，后续过滤器照常生效
	if len(out) != 1 || out[0].ID != 2 {
		t.Fatalf("out = %v", ids(out))
	}
}

func TestMinRatingsFilter(t *testing.T) {
	ds := dataset.New([]dataset.Movie{
		{ID: 1, Title: "Popular (1990)"},
		{ID: 2, Title: "Obscure (1991)"},
	}, []dataset.Rating{
		{UserID: 1, MovieID: 1, Rating: 4},
		{UserID: 2, MovieID: 1, Rating: 4},
		{UserID: 3, MovieID: 1, Rating: 4},
		{UserID: 1, MovieID: 2, Rating: 5},
	}, nil)

	f := &MinRatingsFilter{Catalog: ds, Min: 2}
	tests := []struct {
		id   int64
		want bool
	}{
		{1, false},
		{2, true},
		{99, true}, // 目录中不存在的 ID 一律过滤
	}
	for _, tt := range tests {
		got, err := f.ShouldFilter(context.Background(), nil, core.NewItem(tt.id))
		if err != nil {
			t.Fatalf("ShouldFilter(%d): %v", tt.id, err)
		}
		if got != tt.want {
			t.Errorf("ShouldFilter(%d) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestBlacklistFilter(t *testing.T) {
	f := &BlacklistFilter{MovieIDs: []int64{5, 7}}

	for _, tt := range []struct {
		id   int64
		want bool
	}{{5, true}, {7, true}, {6, false}} {
		got, err := f.ShouldFilter(context.Background(), nil, core.NewItem(tt.id))
		if err != nil {
			t.Fatalf("ShouldFilter(%d): %v", tt.id, err)
		}
		if got != tt.want {
			t.Errorf("ShouldFilter(%d) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func ids(items []*core.Item) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
