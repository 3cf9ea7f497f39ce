package dataset

import (
	"regexp"
	"strings"
)

// yearPattern 匹配标题中的 "(1995)" 样式年份。
var yearPattern = regexp.MustCompile(`\((\d{4})\)`)

// cleanPattern 匹配年份后缀及其前导空白，用于得到干净标题。
var cleanPattern = regexp.MustCompile(`\s*\(\d{4}\)`)

// defaultAvgRating 是无评分电影的中性默认均分：落在 1–5 量表正中，
// 不做任何贝叶斯平滑，有评分的电影严格按已有评分求均值。
const defaultAvgRating = 3.0

// preprocess 派生每部电影的年份、干净标题、类型标签与评分聚合。
// 只在 New 中调用一次，之后表只读。
func preprocess(d *Dataset) {
	type agg struct {
		sum   float64
		count int
	}
	stats := make(map[int64]agg, len(d.Movies))
	for _, r := range d.Ratings {
		a := stats[r.MovieID]
		a.sum += r.Rating
		a.count++
		stats[r.MovieID] = a
	}

	for i := range d.Movies {
		m := &d.Movies[i]
		m.Year = extractYear(m.Title)
		m.CleanTitle = cleanTitle(m.Title)
		m.GenreLabel = genreLabel(m.Genres)

		if a, ok := stats[m.ID]; ok && a.count > 0 {
			m.AvgRating = a.sum / float64(a.count)
			m.RatingCount = a.count
		} else {
			m.AvgRating = defaultAvgRating
			m.RatingCount = 0
		}
	}
}

// extractYear 取标题中第一个 4 位括号年份；没有则返回空串，不算错误。
func extractYear(title string) string {
	if m := yearPattern.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return ""
}

// cleanTitle 去掉标题中的年份后缀。
func cleanTitle(title string) string {
	return cleanPattern.ReplaceAllString(title, "")
}

// genreLabel 把激活的类型名按固定顺序以 ", " 连接。
// 全 0（仅 unknown 哨兵可能如此）时返回空串，这是合法状态。
func genreLabel(flags [NumGenres]bool) string {
	var active []string
	for i, on := range flags {
		if on {
			active = append(active, Genres[i])
		}
	}
	return strings.Join(active, ", ")
}
