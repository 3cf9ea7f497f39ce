package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/moviekit/moviekit/core"
)

// writeFixture 在临时目录写一份 ml-100k 风格的小数据集。
// u.item 按 Latin-1 写入（0xe9 = é），验证加载时的转码。
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	item := "1|Toy Story (1995)|01-Jan-1995||http://imdb.com/1|0|0|0|1|1|1|0|0|0|0|0|0|0|0|0|0|0|0|0\n" +
		"2|GoldenEye (1995)|01-Jan-1995||http://imdb.com/2|0|1|1|0|0|0|0|0|0|0|0|0|0|0|0|0|1|0|0\n" +
		"3|L\xe9on (1994)|18-Nov-1994||http://imdb.com/3|0|1|0|0|0|0|1|0|1|0|0|0|0|0|0|0|1|0|0\n" +
		"7|unknown|||\n" // 格式残缺的行应被跳过

	data := "1\t1\t5\t874965758\n" +
		"1\t2\t3\t876893171\n" +
		"2\t1\t4\t888550871\n"

	user := "1|24|M|technician|85711\n" +
		"2|53|F|other|94043\n"

	files := map[string]string{itemFile: item, dataFile: data, userFile: user}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	ds, err := Load(writeFixture(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := len(ds.Movies), 3; got != want {
		t.Fatalf("movies = %d, want %d", got, want)
	}
	if got, want := len(ds.Ratings), 3; got != want {
		t.Fatalf("ratings = %d, want %d", got, want)
	}
	if got, want := len(ds.Users), 2; got != want {
		t.Fatalf("users = %d, want %d", got, want)
	}

	// Latin-1 标题转码为 UTF-8
	m, ok := ds.MovieByID(3)
	if !ok {
		t.Fatal("movie 3 not found")
	}
	if m.Title != "Léon (1994)" {
		t.Errorf("title = %q, want %q", m.Title, "Léon (1994)")
	}
	if m.CleanTitle != "Léon" {
		t.Errorf("clean title = %q, want %q", m.CleanTitle, "Léon")
	}
	if m.Year != "1994" {
		t.Errorf("year = %q, want %q", m.Year, "1994")
	}
	if m.GenreLabel != "Action, Crime, Drama, Thriller" {
		t.Errorf("genre label = %q", m.GenreLabel)
	}

	if row, ok := ds.Row(2); !ok || row != 1 {
		t.Errorf("Row(2) = %d, %v; want 1, true", row, ok)
	}
	if _, ok := ds.Row(7); ok {
		t.Error("Row(7) should not exist, malformed line must be skipped")
	}
}

func TestLoadRatingAggregates(t *testing.T) {
	ds, err := Load(writeFixture(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	m1, _ := ds.MovieByID(1)
	if m1.RatingCount != 2 {
		t.Errorf("movie 1 rating count = %d, want 2", m1.RatingCount)
	}
	if m1.AvgRating != 4.5 {
		t.Errorf("movie 1 avg = %v, want 4.5", m1.AvgRating)
	}

	// 无评分电影取中性默认值
	m3, _ := ds.MovieByID(3)
	if m3.AvgRating != 3.0 || m3.RatingCount != 0 {
		t.Errorf("movie 3 avg/count = %v/%d, want 3.0/0", m3.AvgRating, m3.RatingCount)
	}
}

func TestLoadDatasetNotFound(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
	}{
		{
			name:  "missing directory",
			setup: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope") },
		},
		{
			name: "missing ratings file",
			setup: func(t *testing.T) string {
				dir := writeFixture(t)
				os.Remove(filepath.Join(dir, dataFile))
				return dir
			},
		},
		{
			name: "missing users file",
			setup: func(t *testing.T) string {
				dir := writeFixture(t)
				os.Remove(filepath.Join(dir, userFile))
				return dir
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.setup(t))
			if err == nil {
				t.Fatal("expected error")
			}
			if !core.IsDatasetNotFound(err) {
				t.Errorf("error = %v, want DATASET_NOT_FOUND", err)
			}
		})
	}
}
