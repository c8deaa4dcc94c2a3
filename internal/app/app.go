package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/phenrril/exactmatch/internal/adapters/auth"
	"github.com/phenrril/exactmatch/internal/adapters/httpserver"
	"github.com/phenrril/exactmatch/internal/adapters/repo/postgres"
	"github.com/phenrril/exactmatch/internal/adapters/storage/cloudinary"
	"github.com/phenrril/exactmatch/internal/adapters/storage/localfs"
	"github.com/phenrril/exactmatch/internal/domain"
	"github.com/phenrril/exactmatch/internal/usecase"
)

type App struct {
	DB     *gorm.DB
	Config Config

	CatalogUC  *usecase.CatalogUC
	ReviewUC   *usecase.ReviewUC
	OrderUC    *usecase.OrderUC
	WishlistUC *usecase.WishlistUC
	AccountUC  *usecase.AccountUC

	Users       domain.UserRepo
	Hasher      domain.PasswordHasher
	Storage     domain.FileStorage
	OAuthConfig *oauth2.Config

	// mediaRoot is served by the HTTP layer when images live on local disk.
	mediaRoot string
}

func NewApp(db *gorm.DB, cfg Config) (*App, error) {
	batteryRepo := postgres.NewBatteryRepo(db)
	brandRepo := postgres.NewBrandRepo(db)
	categoryRepo := postgres.NewCategoryRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	reviewRepo := postgres.NewReviewRepo(db)
	wishlistRepo := postgres.NewWishlistRepo(db)
	userRepo := postgres.NewUserRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	app := &App{DB: db, Config: cfg, Users: userRepo, Hasher: auth.Bcrypt{}}

	if cfg.CloudinaryURL != "" {
		st, err := cloudinary.New(cfg.CloudinaryURL)
		if err != nil {
			return nil, fmt.Errorf("cloudinary: %w", err)
		}
		app.Storage = st
		log.Info().Msg("media stored on cloudinary")
	} else {
		st, err := localfs.New(cfg.StorageDir)
		if err != nil {
			return nil, fmt.Errorf("storage dir: %w", err)
		}
		app.Storage = st
		app.mediaRoot = st.Root()
		log.Info().Str("dir", st.Root()).Msg("media stored on local disk")
	}

	tokens, err := auth.NewJWT(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		app.OAuthConfig = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.BaseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	app.CatalogUC = &usecase.CatalogUC{
		Batteries:  batteryRepo,
		Brands:     brandRepo,
		Categories: categoryRepo,
		Stats:      statsRepo,
		Storage:    app.Storage,
	}
	app.ReviewUC = &usecase.ReviewUC{Reviews: reviewRepo, Batteries: batteryRepo, Orders: orderRepo}
	app.OrderUC = &usecase.OrderUC{Orders: orderRepo, Batteries: batteryRepo, Pricing: cfg.Pricing}
	app.WishlistUC = &usecase.WishlistUC{Wishlist: wishlistRepo, Batteries: batteryRepo}
	app.AccountUC = &usecase.AccountUC{Users: userRepo, Hasher: app.Hasher, Tokens: tokens}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(httpserver.Config{
		MediaBaseURL:   a.Config.MediaBaseURL,
		MediaRoot:      a.mediaRoot,
		AllowedOrigins: a.Config.AllowedOrigins,
		RateLimitRPM:   a.Config.RateLimitRPM,
		OAuth:          a.OAuthConfig,
	}, a.CatalogUC, a.ReviewUC, a.OrderUC, a.WishlistUC, a.AccountUC)
}

// MigrateAndSeed brings the schema up to date and loads the sample catalog
// when SEED_SAMPLE_DATA is set.
func (a *App) MigrateAndSeed() error {
	if err := postgres.Migrate(a.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if !a.Config.SeedData {
		return nil
	}
	_, err := a.Seed(context.Background(), "")
	return err
}
