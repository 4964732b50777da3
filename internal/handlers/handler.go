package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/otakulog/otakulog/internal/auth"
	"github.com/otakulog/otakulog/internal/catalog"
	"github.com/otakulog/otakulog/internal/services"
	"github.com/otakulog/otakulog/internal/store"
	"github.com/otakulog/otakulog/internal/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Catalog is the subset of the Jikan client the browse routes use.
type Catalog interface {
	TopAnime(ctx context.Context, page int) (*catalog.AnimeList, error)
	Search(ctx context.Context, params catalog.SearchParams) (*catalog.AnimeList, error)
	AnimeByID(ctx context.Context, id int) (*catalog.AnimeDetails, error)
	Genres(ctx context.Context) ([]catalog.Genre, error)
}

type Config struct {
	DB          *gorm.DB
	Tokens      *auth.TokenService
	Cookies     auth.CookieConfig
	Catalog     Catalog
	CatalogURL  string
	Redis       *redis.Client
	Broadcaster *services.Broadcaster
	Origins     []string
	Logger      *zap.Logger
}

// Handler holds the dependencies shared by every route.
type Handler struct {
	db         *gorm.DB
	users      *store.UserStore
	watchlist  *store.WatchlistStore
	tokens     *auth.TokenService
	cookies    auth.CookieConfig
	catalog    Catalog
	catalogURL string
	redis      *redis.Client
	events     *services.Broadcaster
	origins    []string
	log        *zap.Logger
}

func New(cfg Config) *Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	events := cfg.Broadcaster
	if events == nil {
		events = services.NewBroadcaster(nil, log.Named("events"))
	}

	return &Handler{
		db:         cfg.DB,
		users:      store.NewUserStore(cfg.DB),
		watchlist:  store.NewWatchlistStore(cfg.DB),
		tokens:     cfg.Tokens,
		cookies:    cfg.Cookies,
		catalog:    cfg.Catalog,
		catalogURL: cfg.CatalogURL,
		redis:      cfg.Redis,
		events:     events,
		origins:    cfg.Origins,
		log:        log,
	}
}

// UserHandlerFunc is a handler that needs an authenticated caller.
type UserHandlerFunc func(ctx *gin.Context, user auth.Identity)

// RequireUser passes the session identity to fn, answering 401 with
// unauthorized as the body when the request carries none.
func RequireUser(unauthorized gin.H, fn UserHandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utils.GetCurrentUser(ctx)

		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, unauthorized)
			return
		}

		fn(ctx, user)
	}
}
