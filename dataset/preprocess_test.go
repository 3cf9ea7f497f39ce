package dataset

import (
	"strings"
	"testing"
)

func TestExtractYear(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Toy Story (1995)", "1995"},
		{"Star Wars (1977)", "1977"},
		{"unknown", ""},
		{"Heat", ""},
		{"Brothers McMullen, The (1995)", "1995"},
		// 取第一个括号年份
		{"Ran (1985) (1999)", "1985"},
	}
	for _, tt := range tests {
		if got := extractYear(tt.title); got != tt.want {
			t.Errorf("extractYear(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Toy Story (1995)", "Toy Story"},
		{"unknown", "unknown"},
		{"GoldenEye (1995)", "GoldenEye"},
	}
	for _, tt := range tests {
		if got := cleanTitle(tt.title); got != tt.want {
			t.Errorf("cleanTitle(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestGenreLabelRoundTrip(t *testing.T) {
	var flags [NumGenres]bool
	flags[1] = true  // Action
	flags[15] = true // Sci-Fi
	flags[16] = true // Thriller

	label := genreLabel(flags)
	if label != "Action, Sci-Fi, Thriller" {
		t.Fatalf("label = %q", label)
	}

	// 标签按 ", " 切回去应恢复原始集合
	for _, name := range strings.Split(label, ", ") {
		if !IsGenre(name) {
			t.Errorf("%q is not a genre name", name)
		}
	}

	var zero [NumGenres]bool
	if got := genreLabel(zero); got != "" {
		t.Errorf("empty flags label = %q, want empty", got)
	}
}

func TestPreprocessDefaults(t *testing.T) {
	movies := []Movie{
		{ID: 1, Title: "Rated (1990)"},
		{ID: 2, Title: "Unrated (1991)"},
	}
	ratings := []Rating{
		{UserID: 1, MovieID: 1, Rating: 4},
		{UserID: 2, MovieID: 1, Rating: 5},
	}
	ds := New(movies, ratings, nil)

	m1, _ := ds.MovieByID(1)
	if m1.AvgRating != 4.5 || m1.RatingCount != 2 {
		t.Errorf("rated movie avg/count = %v/%d, want 4.5/2", m1.AvgRating, m1.RatingCount)
	}

	m2, _ := ds.MovieByID(2)
	if m2.AvgRating != 3.0 || m2.RatingCount != 0 {
		t.Errorf("unrated movie avg/count = %v/%d, want 3.0/0", m2.AvgRating, m2.RatingCount)
	}
}

func TestRowMapSparseIDs(t *testing.T) {
	// ID 不连续时行位置映射必须仍然正确，不能退化为 id-1
	movies := []Movie{
		{ID: 10, Title: "A (1990)"},
		{ID: 3, Title: "B (1991)"},
		{ID: 700, Title: "C (1992)"},
	}
	ds := New(movies, nil, nil)

	for i, m := range movies {
		row, ok := ds.Row(m.ID)
		if !ok || row != i {
			t.Errorf("Row(%d) = %d, %v; want %d, true", m.ID, row, ok, i)
		}
	}
	if _, ok := ds.Row(1); ok {
		t.Error("Row(1) should not exist")
	}
}
