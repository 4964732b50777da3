package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/otakulog/otakulog/internal/handlers"
	"github.com/otakulog/otakulog/internal/middleware"
	"go.uber.org/zap"
)

type Options struct {
	Handler *handlers.Handler
	Session gin.HandlerFunc
	Origins []string
	Logger  *zap.Logger
}

func NewRouter(opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log.Named("http")))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.Origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(opts.Session)

	h := opts.Handler
	notAuthenticated := gin.H{"message": "Not authenticated"}
	unauthorized := gin.H{"error": "Unauthorized"}

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)
		api.GET("/ws", handlers.RequireUser(unauthorized, h.WebSocket))

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/logout", h.Logout)
			auth.GET("/user", handlers.RequireUser(notAuthenticated, h.CurrentUser))
		}

		watchlist := api.Group("/watchlist")
		{
			watchlist.GET("", handlers.RequireUser(unauthorized, h.ListWatchlist))
			watchlist.POST("", handlers.RequireUser(unauthorized, h.UpsertWatchlist))
			watchlist.DELETE("/:id", handlers.RequireUser(unauthorized, h.DeleteWatchlistEntry))
		}

		anime := api.Group("/anime")
		{
			anime.GET("", h.TopAnime)
			anime.GET("/search", h.SearchAnime)
			anime.GET("/genres", h.AnimeGenres)
			anime.GET("/:id", handlers.RequireUser(unauthorized, h.AnimeDetails))
		}
	}

	return r
}
