package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/moviekit/moviekit/config"
	"github.com/moviekit/moviekit/core"
	"github.com/moviekit/moviekit/pipeline"
	"github.com/moviekit/moviekit/recommender"
	"github.com/moviekit/moviekit/store"
)

func main() {
	// .env 可选，不存在时直接用进程环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	var (
		dataDir      = flag.String("data", envOr("MOVIEKIT_DATA", "ml-100k"), "MovieLens 100k data directory")
		addr         = flag.String("addr", "", "listen address (defaults to :$PORT or :8080)")
		pipelinePath = flag.String("pipeline", os.Getenv("MOVIEKIT_PIPELINE"), "optional post-pipeline YAML config")
	)
	flag.Parse()

	opts, kvStore := storeOptions()
	rec, err := recommender.New(context.Background(), *dataDir, opts...)
	if err != nil {
		// 数据集缺失时直接退出：未初始化的打分器绝不对外服务
		log.Fatalf("initialize recommender: %v", err)
	}
	log.Printf("recommender initialized: %d movies, %d ratings, %d users",
		len(rec.Dataset().Movies), len(rec.Dataset().Ratings), len(rec.Dataset().Users))

	if *pipelinePath != "" {
		post, err := loadPostPipeline(*pipelinePath, rec, kvStore)
		if err != nil {
			log.Fatalf("load pipeline config: %v", err)
		}
		rec, err = recommender.NewFromDataset(context.Background(), rec.Dataset(),
			append(opts, recommender.WithPostPipeline(post))...)
		if err != nil {
			log.Fatalf("initialize recommender: %v", err)
		}
		log.Printf("post pipeline loaded from %s", *pipelinePath)
	}

	router := gin.Default()
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/recommend", handleRecommend(rec))
		api.GET("/stats", handleStats(rec))
		api.GET("/movies", handleMovies(rec))
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":                  "ok",
				"recommender_initialized": rec != nil,
			})
		})
	}

	listen := *addr
	if listen == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		listen = ":" + port
	}
	log.Printf("listening on %s", listen)
	if err := router.Run(listen); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// storeOptions 按 REDIS_ADDR 决定是否接入预计算榜单存储。
func storeOptions() ([]recommender.Option, core.Store) {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		return nil, nil
	}
	kv, err := store.NewRedisStore(redisAddr, 0)
	if err != nil {
		log.Printf("redis unavailable at %s, falling back to in-memory ranking: %v", redisAddr, err)
		return nil, nil
	}
	key := envOr("MOVIEKIT_HOT_KEY", "toprated:movies")
	return []recommender.Option{recommender.WithHotStore(kv, key)}, kv
}

func loadPostPipeline(path string, rec *recommender.Recommender, kvStore core.Store) (*pipeline.Pipeline, error) {
	cfg, err := pipeline.LoadFromYAML(path)
	if err != nil {
		return nil, err
	}
	factory := config.DefaultFactory(config.Deps{
		Dataset: rec.Dataset(),
		Sim:     rec.Sim(),
		Matrix:  rec.Matrix(),
		Store:   kvStore,
	})
	return cfg.BuildPipeline(factory)
}

func handleRecommend(rec *recommender.Recommender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req recommender.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		recs, err := rec.Recommend(c.Request.Context(), req)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		method := req.Method
		if method == "" {
			method = core.MethodContent
		}
		c.JSON(http.StatusOK, gin.H{
			"recommendations": recs,
			"method":          method,
		})
	}
}

func handleStats(rec *recommender.Recommender) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := rec.Stats(c.Request.Context())
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func handleMovies(rec *recommender.Recommender) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		movies, err := rec.ListMovies(c.Request.Context(), c.Query("genre"), limit)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"movies": movies})
	}
}

// statusFor 把领域错误映射为 HTTP 状态码。
func statusFor(err error) int {
	switch {
	case core.IsInvalidRequest(err):
		return http.StatusBadRequest
	case core.IsNotInitialized(err), core.IsDatasetNotFound(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
