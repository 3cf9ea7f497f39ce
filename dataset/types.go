package dataset

// Movie 是 u.item 的一行加上预处理派生字段。
// 加载完成后全程只读；每个 ID 只有一行。
type Movie struct {
	ID          int64
	Title       string // 原始标题，通常带 "(年份)" 后缀
	ReleaseDate string
	IMDbURL     string

	// Genres 是 19 个类型开关，顺序与 Genres 列表一致。
	Genres [NumGenres]bool

	// 以下为预处理派生字段，见 preprocess.go。
	Year        string  // 4 位年份，标题无年份后缀时为空
	CleanTitle  string  // 去掉年份后缀的标题
	GenreLabel  string  // 激活类型名按固定顺序以 ", " 连接；无类型时为空串
	AvgRating   float64 // 平均评分；无评分时取中性默认值 3.0
	RatingCount int     // 评分条数；无评分时为 0
}

// HasGenre 判断电影是否带有指定类型开关。
func (m *Movie) HasGenre(name string) bool {
	for i, g := range Genres {
		if g == name {
			return m.Genres[i]
		}
	}
	return false
}

// Rating 是 u.data 的一行：一次评分事件。
// 同一 (user, movie) 是否重复由源数据保证，加载层不做去重。
type Rating struct {
	UserID    int64
	MovieID   int64
	Rating    float64 // 1–5
	Timestamp int64
}

// User 是 u.user 的一行：用户人口统计信息。
// 打分逻辑目前不使用这些字段，仅在 stats 中计数。
type User struct {
	ID         int64
	Age        int
	Gender     string
	Occupation string
	ZipCode    string
}
