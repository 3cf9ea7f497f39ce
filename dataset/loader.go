package dataset

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/moviekit/moviekit/core"
)

// 固定文件名，见 MovieLens 100k README。
const (
	itemFile = "u.item" // 电影元数据：竖线分隔，5 个前导列 + 19 个类型列，Latin-1 编码
	dataFile = "u.data" // 评分事件：制表符分隔 user id / item id / rating / timestamp
	userFile = "u.user" // 用户信息：竖线分隔 id / age / gender / occupation / zip
)

// Load 从 dir 加载 MovieLens 100k 数据集并完成预处理。
// 目录或任一文件缺失时返回 DATASET_NOT_FOUND，不做部分加载。
func Load(dir string) (*Dataset, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, core.NewDomainErrorf(core.ModuleDataset, core.ErrorCodeDatasetNotFound,
			"dataset: data directory %q not found", dir)
	}

	movies, err := loadMovies(filepath.Join(dir, itemFile))
	if err != nil {
		return nil, err
	}
	ratings, err := loadRatings(filepath.Join(dir, dataFile))
	if err != nil {
		return nil, err
	}
	users, err := loadUsers(filepath.Join(dir, userFile))
	if err != nil {
		return nil, err
	}

	return New(movies, ratings, users), nil
}

func openDatasetFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.NewDomainErrorf(core.ModuleDataset, core.ErrorCodeDatasetNotFound,
			"dataset: required file %q not found", path)
	}
	return f, nil
}

// loadMovies 解析 u.item。
// 每行格式：movie id | title | release date | video release date | IMDb URL | 19 个 0/1 类型列。
// 文件是 Latin-1 编码（部分标题含重音字符），读取时转码为 UTF-8。
func loadMovies(path string) ([]Movie, error) {
	f, err := openDatasetFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	movies := make([]Movie, 0, 1700)
	sc := bufio.NewScanner(charmap.ISO8859_1.NewDecoder().Reader(f))
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 5+NumGenres {
			continue
		}

		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		m := Movie{
			ID:          id,
			Title:       fields[1],
			ReleaseDate: fields[2],
			IMDbURL:     fields[4],
		}
		for i := 0; i < NumGenres; i++ {
			m.Genres[i] = fields[5+i] == "1"
		}
		movies = append(movies, m)
	}
	return movies, sc.Err()
}

// loadRatings 解析 u.data：user id \t item id \t rating \t timestamp。
func loadRatings(path string) ([]Rating, error) {
	f, err := openDatasetFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ratings := make([]Rating, 0, 100000)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		userID, err1 := strconv.ParseInt(fields[0], 10, 64)
		movieID, err2 := strconv.ParseInt(fields[1], 10, 64)
		value, err3 := strconv.ParseFloat(fields[2], 64)
		ts, err4 := strconv.ParseInt(fields[3], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		ratings = append(ratings, Rating{
			UserID:    userID,
			MovieID:   movieID,
			Rating:    value,
			Timestamp: ts,
		})
	}
	return ratings, sc.Err()
}

// loadUsers 解析 u.user：id | age | gender | occupation | zip code。
func loadUsers(path string) ([]User, error) {
	f, err := openDatasetFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	users := make([]User, 0, 1000)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Split(sc.Text(), "|")
		if len(fields) < 5 {
			continue
		}
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		age, _ := strconv.Atoi(fields[1])
		users = append(users, User{
			ID:         id,
			Age:        age,
			Gender:     fields[2],
			Occupation: fields[3],
			ZipCode:    fields[4],
		})
	}
	return users, sc.Err()
}
