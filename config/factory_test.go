package config

import (
	"context"
	"testing"
	"time"

	"github.com/moviekit/moviekit/dataset"
	"github.com/moviekit/moviekit/recall"
	"github.com/moviekit/moviekit/similarity"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	movies := []dataset.Movie{
		{ID: 1, Title: "A (1990)"},
		{ID: 2, Title: "B (1991)"},
	}
	ds := dataset.New(movies, []dataset.Rating{
		{UserID: 1, MovieID: 1, Rating: 4},
		{UserID: 1, MovieID: 2, Rating: 5},
	}, nil)

	sim, err := similarity.BuildGenreSimilarity(context.Background(), ds.Movies)
	if err != nil {
		t.Fatalf("BuildGenreSimilarity: %v", err)
	}
	return Deps{
		Dataset: ds,
		Sim:     sim,
		Matrix:  similarity.BuildUserItemMatrix(ds.Ratings),
	}
}

func TestDefaultFactoryBuildsAllNodeTypes(t *testing.T) {
	factory := DefaultFactory(testDeps(t))

	tests := []struct {
		nodeType string
		cfg      map[string]any
	}{
		{"recall.content", map[string]any{"top_k": 10, "min_rating_count": 3}},
		{"recall.collaborative", map[string]any{"top_k": 10}},
		{"recall.toprated", map[string]any{"min_ratings": 5}},
		{"rerank.topn", map[string]any{"n": 5}},
		{"rerank.diversity", nil},
		{"filter", map[string]any{"filters": []any{
			map[string]any{"type": "min_ratings", "min": 5},
			map[string]any{"type": "blacklist", "movie_ids": []any{1, 2}},
			map[string]any{"type": "rule", "expr": `item.score < 0.1`},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.nodeType, func(t *testing.T) {
			node, err := factory.Build(tt.nodeType, tt.cfg)
			if err != nil {
				t.Fatalf("Build(%s): %v", tt.nodeType, err)
			}
			if node == nil {
				t.Fatal("node is nil")
			}
		})
	}
}

func TestDefaultFactoryContentConfig(t *testing.T) {
	factory := DefaultFactory(testDeps(t))
	node, err := factory.Build("recall.content", map[string]any{"top_k": 7, "min_rating_count": 3})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	content, ok := node.(*recall.ContentRecall)
	if !ok {
		t.Fatalf("node type = %T", node)
	}
	if content.TopK != 7 || content.MinRatingCount != 3 {
		t.Errorf("content = %+v", content)
	}
}

func TestDefaultFactoryFanout(t *testing.T) {
	factory := DefaultFactory(testDeps(t))
	node, err := factory.Build("recall.fanout", map[string]any{
		"dedup":          true,
		"merge_strategy": "priority",
		"timeout":        2,
		"max_concurrent": 4,
		"sources": []any{
			map[string]any{"type": "content", "top_k": 10},
			map[string]any{"type": "collaborative"},
			map[string]any{"type": "toprated", "min_ratings": 5},
		},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fanout, ok := node.(*recall.Fanout)
	if !ok {
		t.Fatalf("node type = %T", node)
	}
	if len(fanout.Sources) != 3 {
		t.Errorf("sources = %d, want 3", len(fanout.Sources))
	}
	if !fanout.Dedup || fanout.MergeStrategy != "priority" {
		t.Errorf("fanout = %+v", fanout)
	}
	if fanout.Timeout != 2*time.Second || fanout.MaxConcurrent != 4 {
		t.Errorf("timeout/concurrency = %v/%d", fanout.Timeout, fanout.MaxConcurrent)
	}
}

func TestDefaultFactoryErrors(t *testing.T) {
	factory := DefaultFactory(testDeps(t))

	tests := []struct {
		name     string
		nodeType string
		cfg      map[string]any
	}{
		{"unknown node", "recall.magic", nil},
		{"fanout without sources", "recall.fanout", map[string]any{}},
		{"fanout unknown source", "recall.fanout", map[string]any{
			"sources": []any{map[string]any{"type": "magic"}},
		}},
		{"filter without filters", "filter", map[string]any{}},
		{"filter unknown type", "filter", map[string]any{
			"filters": []any{map[string]any{"type": "magic"}},
		}},
		{"filter bad rule", "filter", map[string]any{
			"filters": []any{map[string]any{"type": "rule", "expr": "label.genres =="}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := factory.Build(tt.nodeType, tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDefaultFactoryTopRatedStoreKey(t *testing.T) {
	deps := testDeps(t)
	factory := DefaultFactory(deps)
	node, err := factory.Build("recall.toprated", map[string]any{"store_key": "toprated:movies"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	top, ok := node.(*recall.TopRated)
	if !ok {
		t.Fatalf("node type = %T", node)
	}
	if top.Key != "toprated:movies" {
		t.Errorf("key = %q", top.Key)
	}
}
