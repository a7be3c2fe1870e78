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

// RankedMovie is one (movie, rank) pair of a user's submission.
type RankedMovie struct {
	MovieID int64
	Rank    int
}

type RankingService interface {
	SubmitRankings(ctx context.Context, userID, groupID uint, items []RankedMovie) error
	CalculateResult(ctx context.Context, groupID, callerID uint) (*model.RankingResult, error)
	LatestResult(ctx context.Context, groupID uint) (*model.RankingResult, error)
}

type rankingService struct {
	db        *gorm.DB
	repo      repository.RankingRepo
	poolRepo  repository.PoolRepo
	groupRepo repository.GroupRepo
	movieRepo repository.MovieRepo
}

var _ RankingService = (*rankingService)(nil)

func NewRankingService(db *gorm.DB, rankingRepo repository.RankingRepo, poolRepo repository.PoolRepo, groupRepo repository.GroupRepo, movieRepo repository.MovieRepo) *rankingService {
	return &rankingService{
		db:        db,
		repo:      rankingRepo,
		poolRepo:  poolRepo,
		groupRepo: groupRepo,
		movieRepo: movieRepo,
	}
}

// SubmitRankings validates the whole submission, then replaces the user's
// previous ranking rows and appends one audit row, all in one
// transaction. A rejected submission leaves no trace.
func (s *rankingService) SubmitRankings(ctx context.Context, userID, groupID uint, items []RankedMovie) error {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return service.ErrNotFound
		}
		return err
	}
	if group.Phase != model.PhaseVoting {
		return service.ErrConflict
	}

	isMember, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		return service.ErrForbidden
	}

	entries, err := s.poolRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if err := validateSubmission(items, entries); err != nil {
		return err
	}

	now := time.Now()
	rows := make([]model.MovieRanking, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.MovieRanking{
			GroupID:   groupID,
			UserID:    userID,
			MovieID:   item.MovieID,
			Rank:      item.Rank,
			CreatedAt: now,
		})
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ReplaceForUser(ctx, groupID, userID, rows); err != nil {
			return err
		}
		return repo.AppendSubmission(ctx, &model.RankingSubmission{
			GroupID:      groupID,
			UserID:       userID,
			MoviesRanked: len(rows),
			SubmittedAt:  now,
		})
	})
}

// validateSubmission rejects the whole submission unless every ranked
// movie belongs to the pool and the ranks form exactly 1..N for a pool of
// size N, with no ties and no gaps.
func validateSubmission(items []RankedMovie, pool []model.PoolEntry) error {
	n := len(pool)
	if n == 0 || len(items) != n {
		return service.ErrInvalid
	}

	inPool := make(map[int64]bool, n)
	for _, e := range pool {
		inPool[e.MovieID] = true
	}

	seenMovie := make(map[int64]bool, n)
	seenRank := make(map[int]bool, n)
	for _, item := range items {
		if !inPool[item.MovieID] || seenMovie[item.MovieID] {
			return service.ErrInvalid
		}
		if item.Rank < 1 || item.Rank > n || seenRank[item.Rank] {
			return service.ErrInvalid
		}
		seenMovie[item.MovieID] = true
		seenRank[item.Rank] = true
	}
	return nil
}

// CalculateResult computes the group winner: the pool movie with the
// lowest arithmetic mean of its submitted ranks. Movies nobody ranked are
// excluded. Ties break deterministically by higher external rating, then
// earlier pool position, then smaller movie id. The result row is
// appended (history is never overwritten) and the group moves to CLOSED
// in the same transaction.
func (s *rankingService) CalculateResult(ctx context.Context, groupID, callerID uint) (*model.RankingResult, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	if group.CreatorID != callerID {
		return nil, service.ErrForbidden
	}
	if group.Phase != model.PhaseVoting {
		return nil, service.ErrConflict
	}

	var result *model.RankingResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		poolRepo := s.poolRepo.WithTx(tx)
		rankingRepo := s.repo.WithTx(tx)

		entries, err := poolRepo.ListByGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return service.ErrInvalid
		}

		rankings, err := rankingRepo.ListByGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if len(rankings) == 0 {
			return service.ErrInvalid
		}
		submitters, err := rankingRepo.CountSubmitters(ctx, groupID)
		if err != nil {
			return err
		}

		ids := make([]int64, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.MovieID)
		}
		movies, err := s.movieRepo.WithTx(tx).GetByIDs(ctx, ids)
		if err != nil {
			return err
		}

		winner, avg := pickWinner(entries, rankings, movies)
		result = &model.RankingResult{
			GroupID:      groupID,
			MovieID:      winner,
			AverageRank:  avg,
			Submitters:   int(submitters),
			CalculatedAt: time.Now(),
		}
		if err := rankingRepo.AppendResult(ctx, result); err != nil {
			return err
		}
		return s.groupRepo.WithTx(tx).SetPhase(ctx, groupID, model.PhaseClosed)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type tally struct {
	sum   int
	count int
}

// pickWinner aggregates ranks per movie and applies the documented
// tie-break chain. Inputs identical, output identical.
func pickWinner(entries []model.PoolEntry, rankings []model.MovieRanking, movies []model.Movie) (int64, float64) {
	tallies := make(map[int64]*tally, len(entries))
	for _, r := range rankings {
		t, ok := tallies[r.MovieID]
		if !ok {
			t = &tally{}
			tallies[r.MovieID] = t
		}
		t.sum += r.Rank
		t.count++
	}

	position := make(map[int64]int, len(entries))
	for _, e := range entries {
		position[e.MovieID] = e.Position
	}
	rating := make(map[int64]float64, len(movies))
	for _, m := range movies {
		if m.TmdbRating != nil {
			rating[m.ID] = *m.TmdbRating
		}
	}

	var (
		winner   int64
		bestAvg  float64
		havePick bool
	)
	// iterate entries in pool order so the position tie-break falls out
	// of the comparison alone
	for _, e := range entries {
		t, ok := tallies[e.MovieID]
		if !ok {
			continue // nobody ranked it
		}
		avg := float64(t.sum) / float64(t.count)
		if !havePick || better(e.MovieID, avg, winner, bestAvg, rating, position) {
			winner = e.MovieID
			bestAvg = avg
			havePick = true
		}
	}
	return winner, bestAvg
}

// better reports whether candidate beats the current pick: lower average
// rank, then higher external rating, then earlier pool position, then
// smaller movie id.
func better(candidate int64, candidateAvg float64, current int64, currentAvg float64, rating map[int64]float64, position map[int64]int) bool {
	if candidateAvg != currentAvg {
		return candidateAvg < currentAvg
	}
	if rating[candidate] != rating[current] {
		return rating[candidate] > rating[current]
	}
	if position[candidate] != position[current] {
		return position[candidate] < position[current]
	}
	return candidate < current
}

func (s *rankingService) LatestResult(ctx context.Context, groupID uint) (*model.RankingResult, error) {
	result, err := s.repo.LatestResult(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return result, nil
}
