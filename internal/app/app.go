package app

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/moviemates/moviemates/config"
	"github.com/moviemates/moviemates/internal/cache"
	"github.com/moviemates/moviemates/internal/handler"
	"github.com/moviemates/moviemates/internal/repository"
	"github.com/moviemates/moviemates/internal/service/domain"
	"github.com/moviemates/moviemates/internal/tmdb"
)

type App struct {
	Config *config.Config

	DB     *gorm.DB
	Cache  *cache.RedisCache
	Logger *zap.Logger
	TMDb   *tmdb.Client

	UserRepo    repository.UserRepo
	FriendRepo  repository.FriendRepo
	GroupRepo   repository.GroupRepo
	MovieRepo   repository.MovieRepo
	PoolRepo    repository.PoolRepo
	RankingRepo repository.RankingRepo

	AuthService    domain.AuthService
	UserService    domain.UserService
	FriendService  domain.FriendService
	GroupService   domain.GroupService
	CatalogService domain.CatalogService
	PoolService    domain.PoolService
	RankingService domain.RankingService
}

func New(config *config.Config, db *gorm.DB, cache *cache.RedisCache, logger *zap.Logger) *App {
	tmdbClient := tmdb.NewClient(config.TMDbAPIKey, config.TMDbBaseURL)

	userRepo := repository.NewUserRepoGorm(db)
	friendRepo := repository.NewFriendRepoGorm(db)
	groupRepo := repository.NewGroupRepoGorm(db)
	movieRepo := repository.NewMovieRepoGorm(db)
	poolRepo := repository.NewPoolRepoGorm(db)
	rankingRepo := repository.NewRankingRepoGorm(db)

	catalogService := domain.NewCatalogService(db, movieRepo, tmdbClient, logger)
	authService := domain.NewAuthService(db, userRepo, cache, config.SessionTTL, logger)
	userService := domain.NewUserService(db, userRepo, catalogService)
	friendService := domain.NewFriendService(db, friendRepo, userRepo)
	groupService := domain.NewGroupService(db, groupRepo, userRepo)
	poolService := domain.NewPoolService(db, poolRepo, groupRepo, movieRepo, catalogService)
	rankingService := domain.NewRankingService(db, rankingRepo, poolRepo, groupRepo, movieRepo)

	return &App{
		Config:         config,
		DB:             db,
		Cache:          cache,
		Logger:         logger,
		TMDb:           tmdbClient,
		UserRepo:       userRepo,
		FriendRepo:     friendRepo,
		GroupRepo:      groupRepo,
		MovieRepo:      movieRepo,
		PoolRepo:       poolRepo,
		RankingRepo:    rankingRepo,
		AuthService:    authService,
		UserService:    userService,
		FriendService:  friendService,
		GroupService:   groupService,
		CatalogService: catalogService,
		PoolService:    poolService,
		RankingService: rankingService,
	}
}

func (app *App) Services() handler.Services {
	return handler.Services{
		Auth:     app.AuthService,
		Users:    app.UserService,
		Friends:  app.FriendService,
		Groups:   app.GroupService,
		Catalog:  app.CatalogService,
		Pool:     app.PoolService,
		Rankings: app.RankingService,
	}
}

func (app *App) Close() error {
	if app.Cache != nil {
		if err := app.Cache.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := app.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
