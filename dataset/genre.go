package dataset

// NumGenres 是 MovieLens 100k 的类型维度：u.item 每行末尾有 19 个 0/1 类型列。
const NumGenres = 19

// Genres 是 u.item 类型列的固定顺序（源数据文档约定，不可调整）。
// 第 0 位 "unknown" 是哨兵类型：一部电影可以不属于任何类型。
var Genres = [NumGenres]string{
	"unknown", "Action", "Adventure", "Animation", "Children", "Comedy",
	"Crime", "Documentary", "Drama", "Fantasy", "Film-Noir", "Horror",
	"Musical", "Mystery", "Romance", "Sci-Fi", "Thriller", "War", "Western",
}

// GenreNames 返回类型名列表的副本（供 stats 等只读场景使用）。
func GenreNames() []string {
	out := make([]string, NumGenres)
	copy(out, Genres[:])
	return out
}

// IsGenre 判断 name 是否为 19 个类型名之一（大小写敏感，与源数据一致）。
func IsGenre(name string) bool {
	for _, g := range Genres {
		if g == name {
			return true
		}
	}
	return false
}
