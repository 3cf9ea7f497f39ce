package rerank

import (
	"context"
	"testing"

	"github.com/moviekit/moviekit/core"
	"github.com/moviekit/moviekit/pkg/utils"
)

func items(ids ...int64) []*core.Item {
	out := make([]*core.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, core.NewItem(id))
	}
	return out
}

func TestTopN(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		rctxN   int
		in      []*core.Item
		wantLen int
	}{
		{"truncate by node", 2, 0, items(1, 2, 3), 2},
		{"truncate by request", 0, 2, items(1, 2, 3), 2},
		{"node wins over request", 1, 3, items(1, 2, 3), 1},
		{"no limit", 0, 0, items(1, 2, 3), 3},
		{"fewer than limit", 5, 0, items(1, 2), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &TopN{N: tt.n}
			out, err := node.Process(context.Background(), &core.RecommendContext{N: tt.rctxN}, tt.in)
			if err != nil {
				t.Fatalf("Process: %v", err)
			}
			if len(out) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(out), tt.wantLen)
			}
			// 截断保序
			for i := range out {
				if out[i].ID != tt.in[i].ID {
					t.Errorf("out[%d] = %d, want %d", i, out[i].ID, tt.in[i].ID)
				}
			}
		})
	}
}

func TestDiversity(t *testing.T) {
	tag := func(id int64, genres string) *core.Item {
		it := core.NewItem(id)
		if genres != "" {
			it.PutLabel("genres", utils.Label{Value: genres, Source: "recall"})
		}
		return it
	}

	node := &Diversity{}
	in := []*core.Item{
		tag(1, "Action, Sci-Fi"),
		tag(2, "Comedy"),
		tag(3, "Action, Sci-Fi"), // 与 1 同标签，被去掉
		tag(4, ""),               // 无标签总是保留
		tag(5, ""),
		tag(6, "Comedy"), // 与 2 同标签
	}
	out, err := node.Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := []int64{1, 2, 4, 5}
	if len(out) != len(want) {
		t.Fatalf("len = %d, want %d", len(out), len(want))
	}
	for i, id := range want {
		if out[i].ID != id {
			t.Errorf("out[%d] = %d, want %d", i, out[i].ID, id)
		}
	}
}

func TestDiversityMetaFallback(t *testing.T) {
	a := core.NewItem(1)
	a.Meta["category"] = "x"
	b := core.NewItem(2)
	b.Meta["category"] = "x"

	node := &Diversity{LabelKey: "category"}
	out, err := node.Process(context.Background(), nil, []*core.Item{a, b})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 1 || out[0].ID != 1 {
		t.Fatalf("out len = %d, want the first item only", len(out))
	}
}
