package recommender

import (
	"fmt"
	"math"
	"strings"

	"github.com/moviekit/moviekit/core"
	"github.com/moviekit/moviekit/dataset"
)

// Request 是一次推荐请求。
type Request struct {
	Preferences string `json:"preferences"`
	Method      string `json:"method"`
	UserID      int64  `json:"user_id,omitempty"`
	N           int    `json:"n,omitempty"`
}

// Record 是对外暴露的推荐记录，字段固定。
type Record struct {
	Title       string  `json:"title"`
	Year        string  `json:"year"` // 未知年份为 "N/A"
	Genres      string  `json:"genres"`
	Description string  `json:"description"`
	Rating      float64 `json:"rating"` // 保留 1 位小数
	RatingCount int     `json:"rating_count"`
	Reason      string  `json:"reason"`
}

// MovieSummary 是电影列表接口的条目。
type MovieSummary struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Year        string  `json:"year"`
	Genres      string  `json:"genres"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"rating_count"`
}

// Stats 是数据集统计信息。
type Stats struct {
	TotalMovies  int            `json:"total_movies"`
	TotalRatings int            `json:"total_ratings"`
	TotalUsers   int            `json:"total_users"`
	Genres       []string       `json:"genres"`
	AvgRating    float64        `json:"avg_rating"`
	TopGenres    map[string]int `json:"top_genres"`
}

// newRecord 由电影与召回来源构建推荐记录。
func newRecord(m *dataset.Movie, source string) Record {
	return Record{
		Title:       m.CleanTitle,
		Year:        yearOrNA(m.Year),
		Genres:      m.GenreLabel,
		Description: fmt.Sprintf("%s film from %s", m.GenreLabel, yearOrUnknown(m.Year)),
		Rating:      round1(m.AvgRating),
		RatingCount: m.RatingCount,
		Reason:      reasonFor(m, source),
	}
}

// reasonFor 按召回来源给出解释文案。
func reasonFor(m *dataset.Movie, source string) string {
	switch {
	case strings.Contains(source, "content"):
		return fmt.Sprintf("Matches your preferences for %s", m.GenreLabel)
	case strings.Contains(source, "collaborative"):
		return "Based on similar movies you might like"
	default:
		return fmt.Sprintf("Highly rated by %d users", m.RatingCount)
	}
}

func sourceOf(it *core.Item) string {
	return it.Label("recall_source")
}

func yearOrNA(year string) string {
	if year == "" {
		return "N/A"
	}
	return year
}

func yearOrUnknown(year string) string {
	if year == "" {
		return "unknown year"
	}
	return year
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
