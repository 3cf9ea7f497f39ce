package similarity

import (
	"sort"

	"github.com/moviekit/moviekit/dataset"
)

// UserItemMatrix 是评分事件透视出的稠密矩阵：行是至少评过一部电影的用户，
// 列是至少被评过一次的电影，单元格是评分，缺席用 0 编码。
// 0 可以安全表示“未评分”，因为评分量表是 1–5、不含 0。
type UserItemMatrix struct {
	cells [][]float64

	rowByUser  map[int64]int
	colByMovie map[int64]int

	// movieIDs 是列对应的电影 ID，升序；协同过滤按此顺序遍历候选，
	// 保证同分候选的排序结果确定。
	movieIDs []int64
}

// BuildUserItemMatrix 把评分事件透视为稠密矩阵。
// 同一 (user, movie) 出现多次时取最后一条（源数据保证唯一，这里不强加约束）。
func BuildUserItemMatrix(ratings []dataset.Rating) *UserItemMatrix {
	userSet := make(map[int64]struct{})
	movieSet := make(map[int64]struct{})
	for _, r := range ratings {
		userSet[r.UserID] = struct{}{}
		movieSet[r.MovieID] = struct{}{}
	}

	userIDs := sortedIDs(userSet)
	movieIDs := sortedIDs(movieSet)

	m := &UserItemMatrix{
		cells:      make([][]float64, len(userIDs)),
		rowByUser:  make(map[int64]int, len(userIDs)),
		colByMovie: make(map[int64]int, len(movieIDs)),
		movieIDs:   movieIDs,
	}
	for i, id := range userIDs {
		m.rowByUser[id] = i
		m.cells[i] = make([]float64, len(movieIDs))
	}
	for j, id := range movieIDs {
		m.colByMovie[id] = j
	}
	for _, r := range ratings {
		m.cells[m.rowByUser[r.UserID]][m.colByMovie[r.MovieID]] = r.Rating
	}
	return m
}

// HasUser 判断用户是否在矩阵中（即评过至少一部电影）。
func (m *UserItemMatrix) HasUser(userID int64) bool {
	_, ok := m.rowByUser[userID]
	return ok
}

// Rating 返回用户对电影的评分，未评分（或任一 ID 不在矩阵中）返回 0。
func (m *UserItemMatrix) Rating(userID, movieID int64) float64 {
	row, ok := m.rowByUser[userID]
	if !ok {
		return 0
	}
	col, ok := m.colByMovie[movieID]
	if !ok {
		return 0
	}
	return m.cells[row][col]
}

// UserRatings 返回用户评过分（评分 > 0）的电影及评分。
func (m *UserItemMatrix) UserRatings(userID int64) map[int64]float64 {
	row, ok := m.rowByUser[userID]
	if !ok {
		return nil
	}
	out := make(map[int64]float64)
	for col, v := range m.cells[row] {
		if v > 0 {
			out[m.movieIDs[col]] = v
		}
	}
	return out
}

// MovieIDs 返回矩阵的列电影 ID（升序）。调用方必须只读。
func (m *UserItemMatrix) MovieIDs() []int64 {
	return m.movieIDs
}

// Users 返回矩阵的用户行数。
func (m *UserItemMatrix) Users() int {
	return len(m.cells)
}

func sortedIDs(set map[int64]struct{}) []int64 {
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
