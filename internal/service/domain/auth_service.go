package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/moviemates/moviemates/internal/cache"
	"github.com/moviemates/moviemates/internal/model"
	"github.com/moviemates/moviemates/internal/repository"
	"github.com/moviemates/moviemates/internal/service"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, string, error)
	Logout(ctx context.Context, userID uint) error
	ResolveToken(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	db         *gorm.DB
	repo       repository.UserRepo
	cache      *cache.RedisCache
	sessionTTL time.Duration
	logger     *zap.Logger
}

var _ AuthService = (*authService)(nil)

func NewAuthService(db *gorm.DB, userRepo repository.UserRepo, sessionCache *cache.RedisCache, sessionTTL time.Duration, logger *zap.Logger) *authService {
	return &authService{
		db:         db,
		repo:       userRepo,
		cache:      sessionCache,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

func (s *authService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, service.ErrInvalid
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, service.ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, service.ErrConflict
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:       username,
		Email:          email,
		HashedPassword: string(hashed),
		Status:         model.StatusOffline,
		CreatedAt:      time.Now(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, service.ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// Login verifies credentials, mints a fresh session token and marks the
// user ONLINE. The token is persisted on the user row and mirrored into
// the cache for fast resolution.
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	// the fresh token supersedes any previous session, so its cache entry
	// must not keep authenticating until TTL
	if user.SessionToken != nil {
		if err := s.cache.DeleteSession(*user.SessionToken); err != nil {
			s.logger.Warn("session cache delete failed", zap.Error(err))
		}
	}

	token := uuid.NewString()
	if err := s.repo.SetSession(ctx, user.ID, &token, model.StatusOnline); err != nil {
		return nil, "", err
	}
	if err := s.cache.StoreSession(token, user.ID, s.sessionTTL); err != nil {
		// DB fallback still resolves the token
		s.logger.Warn("session cache write failed", zap.Error(err))
	}

	user.SessionToken = &token
	user.Status = model.StatusOnline
	return user, token, nil
}

func (s *authService) Logout(ctx context.Context, userID uint) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return service.ErrNotFound
		}
		return err
	}
	if user.SessionToken != nil {
		if err := s.cache.DeleteSession(*user.SessionToken); err != nil {
			s.logger.Warn("session cache delete failed", zap.Error(err))
		}
	}
	return s.repo.SetSession(ctx, userID, nil, model.StatusOffline)
}

// ResolveToken maps a bearer token to its user, trying the cache first
// and falling back to the token column on the user row.
func (s *authService) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, service.ErrForbidden
	}

	if userID, err := s.cache.GetSession(token); err == nil {
		user, err := s.repo.GetByID(ctx, userID)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	} else if !errors.Is(err, cache.ErrSessionNotFound) {
		s.logger.Warn("session cache read failed", zap.Error(err))
	}

	user, err := s.repo.GetBySessionToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrForbidden
		}
		return nil, err
	}
	// backfill so the next request hits the cache
	if err := s.cache.StoreSession(token, user.ID, s.sessionTTL); err != nil {
		s.logger.Warn("session cache write failed", zap.Error(err))
	}
	return user, nil
}
