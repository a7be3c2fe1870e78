package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/moviemates/moviemates/internal/model"
	"github.com/moviemates/moviemates/internal/repository"
	"github.com/moviemates/moviemates/internal/service"
)

// contributionCap is how many pool candidates a single member may
// contribute per group.
const contributionCap = 2

type PoolService interface {
	AddMovie(ctx context.Context, groupID uint, movieID int64, userID uint) (*model.PoolEntry, error)
	RemoveMovie(ctx context.Context, groupID uint, movieID int64, userID uint) error
	ListPool(ctx context.Context, groupID uint) ([]model.Movie, error)
}

type poolService struct {
	db        *gorm.DB
	repo      repository.PoolRepo
	groupRepo repository.GroupRepo
	movieRepo repository.MovieRepo
	catalog   CatalogService
}

var _ PoolService = (*poolService)(nil)

func NewPoolService(db *gorm.DB, poolRepo repository.PoolRepo, groupRepo repository.GroupRepo, movieRepo repository.MovieRepo, catalog CatalogService) *poolService {
	return &poolService{
		db:        db,
		repo:      poolRepo,
		groupRepo: groupRepo,
		movieRepo: movieRepo,
		catalog:   catalog,
	}
}

// AddMovie resolves the movie through the catalog, then inserts the pool
// entry transactionally. The transaction first takes the group row's
// write lock so the cap count and position assignment cannot race a
// concurrent add; the composite primary key on pool entries additionally
// rejects a duplicate movie at the storage layer.
func (s *poolService) AddMovie(ctx context.Context, groupID uint, movieID int64, userID uint) (*model.PoolEntry, error) {
	group, err := s.groupInPhase(ctx, groupID, model.PhaseCollecting)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, group.ID, userID); err != nil {
		return nil, err
	}

	if _, err := s.catalog.Resolve(ctx, movieID); err != nil {
		return nil, err
	}

	entry := &model.PoolEntry{
		GroupID:   groupID,
		MovieID:   movieID,
		AddedByID: userID,
		CreatedAt: time.Now(),
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.groupRepo.WithTx(tx).Lock(ctx, groupID); err != nil {
			return err
		}
		repo := s.repo.WithTx(tx)

		count, err := repo.CountByContributor(ctx, groupID, userID)
		if err != nil {
			return err
		}
		if count >= contributionCap {
			return service.ErrConflict
		}

		maxPos, err := repo.MaxPosition(ctx, groupID)
		if err != nil {
			return err
		}
		entry.Position = maxPos + 1

		return repo.AddEntry(ctx, entry)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, service.ErrConflict
		}
		return nil, err
	}
	return entry, nil
}

// RemoveMovie reverses the contribution bookkeeping. Only the member who
// added the candidate or the group creator may remove it.
func (s *poolService) RemoveMovie(ctx context.Context, groupID uint, movieID int64, userID uint) error {
	group, err := s.groupInPhase(ctx, groupID, model.PhaseCollecting)
	if err != nil {
		return err
	}

	entry, err := s.repo.GetEntry(ctx, groupID, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return service.ErrNotFound
		}
		return err
	}
	if entry.AddedByID != userID && group.CreatorID != userID {
		return service.ErrForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		removed, err := s.repo.WithTx(tx).RemoveEntry(ctx, groupID, movieID)
		if err != nil {
			return err
		}
		if removed == 0 {
			return service.ErrNotFound
		}
		return nil
	})
}

func (s *poolService) ListPool(ctx context.Context, groupID uint) ([]model.Movie, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	entries, err := s.repo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []model.Movie{}, nil
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.MovieID)
	}
	movies, err := s.movieRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// preserve pool-entry order
	byID := make(map[int64]model.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	ordered := make([]model.Movie, 0, len(entries))
	for _, e := range entries {
		if m, ok := byID[e.MovieID]; ok {
			ordered = append(ordered, m)
		}
	}
	return ordered, nil
}

func (s *poolService) groupInPhase(ctx context.Context, groupID uint, phase model.GroupPhase) (*model.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	if group.Phase != phase {
		return nil, service.ErrConflict
	}
	return group, nil
}

func (s *poolService) requireMember(ctx context.Context, groupID, userID uint) error {
	isMember, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return service.ErrForbidden
	}
	return nil
}
