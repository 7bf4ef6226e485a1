package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/cppla/aiblog/auth"
	"github.com/cppla/aiblog/config"
	"github.com/cppla/aiblog/controllers"
	"github.com/cppla/aiblog/middleware"
	"github.com/cppla/aiblog/repositories"
	"github.com/cppla/aiblog/utils"
)

// Cache key namespaces in Redis.
const (
	identityCachePrefix = "cache:identity:"
	postListCachePrefix = "cache:posts:list:"
	revokedCachePrefix  = "jwt:blacklist:"
)

// SetupRouter wires routes, middlewares, and controllers. rc may be nil, in
// which case every cache lives in process memory.
func SetupRouter(cfg config.AppConfig, db *gorm.DB, rc *redis.Client) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	utils.SetupValidator()

	r := gin.New()
	r.Use(middleware.RequestID())
	// Access log goes to its own rolling file; fall back to the app logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg)
	if err != nil {
		gl = utils.L()
	}
	r.Use(utils.Ginzap(gl, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(gl, true))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		// credentials cannot be combined with a wildcard origin
		corsCfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"}, "")
	})

	postRepo := repositories.NewPostRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	profileRepo := repositories.NewProfileRepository(db)

	identityCache := utils.NewCache(rc, identityCachePrefix, cfg.IdentityCacheTTL)
	postListCache := utils.NewCache(rc, postListCachePrefix, cfg.PostListCacheTTL)
	revoked := utils.NewTokenBlacklist(utils.NewCache(rc, revokedCachePrefix, cfg.SessionTTL))

	authn := auth.NewAuthenticator(profileRepo, identityCache, cfg.IdentityCacheTTL)
	sessions := auth.NewSessions(utils.NewSessionSigner(cfg.JWTSecret, cfg.SessionTTL), revoked)

	authController := controllers.NewAuthController(authn, sessions, profileRepo, controllers.CookieOptions{
		Name:   cfg.SessionCookieName,
		Secure: cfg.CookieSecure,
	})
	postController := controllers.NewPostController(postRepo, commentRepo, categoryRepo, postListCache)
	commentController := controllers.NewCommentController(commentRepo, postRepo, profileRepo)
	categoryController := controllers.NewCategoryController(categoryRepo, postListCache)
	profileController := controllers.NewProfileController(profileRepo, authn)
	statsController := controllers.NewStatsController(postRepo, commentRepo, categoryRepo, profileRepo)

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitPerMinute)
	admin := middleware.AdminRequired()
	signedIn := middleware.AuthRequired()
	h := utils.Handle

	api := r.Group("/api")
	api.Use(
		middleware.ConcurrencyGate(cfg.DBMaxOpenConns+cfg.DBQueueLimit),
		middleware.RequestTimeout(cfg.DBTimeout),
		middleware.SessionLoader(sessions, cfg.SessionCookieName),
	)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", limiter.Middleware(), h(authController.Login))
	authGroup.POST("/logout", signedIn, h(authController.Logout))
	authGroup.GET("/session", signedIn, h(authController.Session))

	postsGroup := api.Group("/posts")
	postsGroup.GET("", h(postController.ListPosts))
	postsGroup.POST("", admin, h(postController.CreatePost))
	postsGroup.GET("/slug/:slug", h(postController.GetPostBySlug))
	postsGroup.GET("/:id", admin, h(postController.GetPost))
	postsGroup.PATCH("/:id", admin, h(postController.UpdatePost))
	postsGroup.DELETE("/:id", admin, h(postController.DeletePost))

	categoriesGroup := api.Group("/categories")
	categoriesGroup.GET("", h(categoryController.ListCategories))
	categoriesGroup.POST("", admin, h(categoryController.CreateCategory))
	categoriesGroup.PATCH("/:id", admin, h(categoryController.UpdateCategory))
	categoriesGroup.DELETE("/:id", admin, h(categoryController.DeleteCategory))

	commentsGroup := api.Group("/comments")
	commentsGroup.GET("", h(commentController.ListComments))
	commentsGroup.POST("", limiter.Middleware(), h(commentController.CreateComment))
	commentsGroup.GET("/pending-count", admin, h(commentController.PendingCount))
	commentsGroup.PATCH("/:id", signedIn, h(commentController.ModerateComment))
	commentsGroup.DELETE("/:id", signedIn, h(commentController.DeleteComment))

	userGroup := api.Group("/user", signedIn)
	userGroup.GET("/profile", h(profileController.GetProfile))
	userGroup.PUT("/profile", h(profileController.UpdateProfile))

	api.GET("/admin/stats", admin, h(statsController.GetStats))

	r.NoRoute(func(ctx *gin.Context) {
		utils.Fail(ctx, http.StatusNotFound, "route not found", nil)
	})

	return r
}
