// Package similarity 负责在启动时一次性构建打分所需的两张矩阵：
// 电影×电影的类型余弦相似度矩阵，以及用户×电影的稠密评分矩阵。
// 两者构建完成后只读，打分调用无锁并发读取。
package similarity

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/moviekit/moviekit/dataset"
)

// GenreSimilarity 是按电影表行位置索引的对称相似度矩阵。
// 值域 [0,1]；按 ID 查找必须先经 dataset.Dataset.Row 换算行位置。
type GenreSimilarity struct {
	sim [][]float64
}

// BuildGenreSimilarity 由电影表的 19 维类型向量计算两两余弦相似度。
// 行计算只读共享输入、各写各行，用 errgroup 并发；结果与串行完全一致。
// 全 0 类型向量与任何向量（含自身）的相似度定义为 0，不产生 NaN。
func BuildGenreSimilarity(ctx context.Context, movies []dataset.Movie) (*GenreSimilarity, error) {
	n := len(movies)

	vectors := make([][dataset.NumGenres]float64, n)
	norms := make([]float64, n)
	for i := range movies {
		var norm float64
		for g, on := range movies[i].Genres {
			if on {
				vectors[i][g] = 1
				norm++
			}
		}
		norms[i] = math.Sqrt(norm)
	}

	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
	}

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		row := i
		eg.Go(func() error {
			for j := 0; j <= row; j++ {
				v := cosine(vectors[row], vectors[j], norms[row], norms[j])
				sim[row][j] = v
				sim[j][row] = v // 对称性由同一次计算保证
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &GenreSimilarity{sim: sim}, nil
}

// Size 返回矩阵维度（等于电影表行数）。
func (s *GenreSimilarity) Size() int {
	return len(s.sim)
}

// At 返回行位置 (i, j) 的相似度；越界返回 0。
func (s *GenreSimilarity) At(i, j int) float64 {
	if i < 0 || j < 0 || i >= len(s.sim) || j >= len(s.sim) {
		return 0
	}
	return s.sim[i][j]
}

// cosine 计算两个非负向量的余弦相似度，任一范数为 0 时返回 0。
func cosine(a, b [dataset.NumGenres]float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for k := 0; k < dataset.NumGenres; k++ {
		dot += a[k] * b[k]
	}
	return dot / (normA * normB)
}
