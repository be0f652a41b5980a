package server

import (
	"context"
	"net/http"
	"time"

	"anoa.com/learnify/internal/config"
	"anoa.com/learnify/internal/logger"
	"anoa.com/learnify/internal/middleware"
	"anoa.com/learnify/pkg/cache"
	"anoa.com/learnify/pkg/response"
	"anoa.com/learnify/pkg/storage"

	lessonHttp "anoa.com/learnify/internal/modules/lesson/delivery/http"
	lessonRepo "anoa.com/learnify/internal/modules/lesson/repository"
	lessonService "anoa.com/learnify/internal/modules/lesson/service"

	searchHttp "anoa.com/learnify/internal/modules/search/delivery/http"
	"anoa.com/learnify/internal/modules/search/indexer"
	searchRepo "anoa.com/learnify/internal/modules/search/repository"
	searchService "anoa.com/learnify/internal/modules/search/service"

	statHttp "anoa.com/learnify/internal/modules/stat/delivery/http"
	statService "anoa.com/learnify/internal/modules/stat/service"

	topicHttp "anoa.com/learnify/internal/modules/topic/delivery/http"
	topicRepo "anoa.com/learnify/internal/modules/topic/repository"
	topicService "anoa.com/learnify/internal/modules/topic/service"

	uploadHttp "anoa.com/learnify/internal/modules/upload/delivery/http"
	uploadService "anoa.com/learnify/internal/modules/upload/service"

	userHttp "anoa.com/learnify/internal/modules/user/delivery/http"
	userRepo "anoa.com/learnify/internal/modules/user/repository"
	userService "anoa.com/learnify/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const Version = "1.0.0"

// Deps carries the optional integrations. Nil fields disable the feature.
type Deps struct {
	Cache   cache.Cache
	Indexer indexer.Indexer
	Storage storage.ImageStorage
	// Ping reports the health of auxiliary services such as Redis.
	Ping map[string]func(context.Context) error
}

type Server struct {
	engine  *gin.Engine
	db      *gorm.DB
	cfg     *config.Config
	log     logger.Logger
	ping    map[string]func(context.Context) error
	started time.Time
}

func NewServer(cfg *config.Config, log logger.Logger, db *gorm.DB, deps Deps) *Server {
	if deps.Cache == nil {
		deps.Cache = cache.New(nil)
	}
	if deps.Indexer == nil {
		deps.Indexer = indexer.Nop()
	}

	userRepo := userRepo.NewUserRepository(db)
	topicRepo := topicRepo.NewTopicRepository(db)
	lessonRepo := lessonRepo.NewLessonRepository(db)

	authSvc := userService.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := userHttp.NewAuthHandler(authSvc)

	topicSvc := topicService.NewService(topicRepo, lessonRepo, deps.Cache, cfg.CacheTTL, deps.Indexer, log)
	topicHandler := topicHttp.NewTopicHandler(topicSvc)

	lessonSvc := lessonService.NewService(lessonRepo, topicRepo, deps.Cache, deps.Indexer, log)
	lessonHandler := lessonHttp.NewLessonHandler(lessonSvc)

	searchSvc := searchService.NewService(searchRepo.NewSearchRepository(db), topicRepo, log)
	searchHandler := searchHttp.NewSearchHandler(searchSvc)

	statSvc := statService.NewStatService(topicRepo, lessonRepo, userRepo)
	statHandler := statHttp.NewStatHandler(statSvc)

	uploadSvc := uploadService.NewUploadService(deps.Storage, log)
	uploadHandler := uploadHttp.NewUploadHandler(uploadSvc)

	s := &Server{
		db:      db,
		cfg:     cfg,
		log:     log,
		ping:    deps.Ping,
		started: time.Now(),
	}

	router := gin.New()
	router.MaxMultipartMemory = uploadService.MaxImageSize

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log, "/api/health"))

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	router.GET("/", s.welcome)

	api := router.Group("/api")
	api.GET("/health", s.health)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", authMiddleware.RequireAuth(), authHandler.Me)
	}

	topics := api.Group("/topics")
	{
		topics.GET("", topicHandler.ListPublished)
		topics.GET("/:slug", topicHandler.GetPublishedBySlug)
	}

	lessons := api.Group("/lessons")
	{
		lessons.GET("", lessonHandler.ListPublished)
		lessons.GET("/topic/:topicSlug", lessonHandler.ListByTopicSlug)
		lessons.GET("/:slug", lessonHandler.GetPublishedBySlug)
	}

	search := api.Group("/search")
	{
		search.GET("", searchHandler.Search)
		search.GET("/advanced", searchHandler.AdvancedSearch)
		search.GET("/suggestions", searchHandler.Suggestions)
	}

	admin := api.Group("/admin")
	admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
	{
		admin.GET("/topics", topicHandler.ListAll)
		admin.POST("/topics", topicHandler.Create)
		admin.GET("/topics/:id", topicHandler.GetByID)
		admin.PUT("/topics/:id", topicHandler.Update)
		admin.DELETE("/topics/:id", topicHandler.Delete)

		admin.GET("/lessons", lessonHandler.ListAll)
		admin.POST("/lessons", lessonHandler.Create)
		admin.GET("/lessons/:id", lessonHandler.GetByID)
		admin.PUT("/lessons/:id", lessonHandler.Update)
		admin.DELETE("/lessons/:id", lessonHandler.Delete)

		admin.GET("/stats", statHandler.GetDashboardStats)

		admin.POST("/uploads", uploadHandler.UploadImage)
		admin.DELETE("/uploads", uploadHandler.DeleteImage)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route not found",
			"path":    c.Request.URL.Path,
		})
	})

	s.engine = router
	return s
}

// Handler exposes the router for http.Server and tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) welcome(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"message":     "Welcome to Learnify API",
		"version":     Version,
		"environment": s.cfg.AppEnv,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"endpoints": gin.H{
			"auth":    "/api/auth",
			"topics":  "/api/topics",
			"lessons": "/api/lessons",
			"search":  "/api/search",
			"admin": gin.H{
				"topics":  "/api/admin/topics",
				"lessons": "/api/admin/lessons",
				"stats":   "/api/admin/stats",
				"uploads": "/api/admin/uploads",
			},
		},
	})
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "down"
		healthy = false
	} else {
		checks["database"] = "up"
	}

	// Auxiliary services are reported but never mark the API unhealthy.
	for name, ping := range s.ping {
		if err := ping(ctx); err != nil {
			checks[name] = "down"
			s.log.Error(err, name+" health check failed")
			continue
		}
		checks[name] = "up"
	}

	status, code := "healthy", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"success":   healthy,
		"status":    status,
		"uptime":    time.Since(s.started).Seconds(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

func setupCORS(router *gin.Engine, origins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		ExposeHeaders:    []string{"Content-Range", "X-Content-Range"},
		AllowCredentials: true,
		MaxAge:           10 * time.Minute,
	}))
}
