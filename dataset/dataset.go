// Package dataset 负责把 MovieLens 100k 的三个定长分隔文件解析为内存表，
// 并派生打分所需的电影特征（年份、干净标题、类型标签、评分聚合）。
// 加载在进程启动时做一次，之后所有结构只读，可被并发打分调用无锁共享。
package dataset

// Dataset 是加载完成的三张表与索引。
// 所有字段在 New 返回后不再修改。
type Dataset struct {
	Movies  []Movie
	Ratings []Rating
	Users   []User

	// rowByID 是 movieID → Movies 下标的显式映射。
	// 相似度矩阵按表内行位置索引，所有按 ID 的查找必须走这张映射，
	// 不允许用 id-1 做行位置代理（ID 不保证稠密连续）。
	rowByID map[int64]int
}

// New 用三张表构建 Dataset：建立 ID 索引并执行预处理。
// 测试可以直接用构造好的小表调用，不必落盘。
func New(movies []Movie, ratings []Rating, users []User) *Dataset {
	d := &Dataset{
		Movies:  movies,
		Ratings: ratings,
		Users:   users,
		rowByID: make(map[int64]int, len(movies)),
	}
	for i := range d.Movies {
		d.rowByID[d.Movies[i].ID] = i
	}
	preprocess(d)
	return d
}

// Row 返回 movieID 对应的表内行位置。
func (d *Dataset) Row(movieID int64) (int, bool) {
	row, ok := d.rowByID[movieID]
	return row, ok
}

// MovieByID 按 ID 查电影。
func (d *Dataset) MovieByID(movieID int64) (*Movie, bool) {
	row, ok := d.rowByID[movieID]
	if !ok {
		return nil, false
	}
	return &d.Movies[row], true
}

// AllMovies 返回电影表（表内行序）。调用方必须只读。
func (d *Dataset) AllMovies() []Movie {
	return d.Movies
}
