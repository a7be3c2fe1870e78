package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID                uint       `gorm:"primaryKey"`
	Username          string     `gorm:"size:64;not null;uniqueIndex"`
	Email             string     `gorm:"size:128;not null;uniqueIndex"`
	HashedPassword    string     `gorm:"not null"`
	SessionToken      *string    `gorm:"size:64;uniqueIndex"`
	Status            UserStatus `gorm:"type:varchar(16);not null;default:'OFFLINE'"`
	Bio               string     `gorm:"type:text"`
	FavoriteGenres    []string   `gorm:"serializer:json"`
	FavoriteActors    []string   `gorm:"serializer:json"`
	FavoriteDirectors []string   `gorm:"serializer:json"`
	FavoriteMovieID   *int64
	CreatedAt         time.Time
}

type UserStatus string

const (
	StatusOnline  UserStatus = "ONLINE"
	StatusOffline UserStatus = "OFFLINE"
)

// FriendRequest is answered at most once: RespondedAt stays NULL while the
// request is pending and is set exactly once on accept or reject.
type FriendRequest struct {
	ID          uint `gorm:"primaryKey"`
	SenderID    uint `gorm:"not null;index"`
	ReceiverID  uint `gorm:"not null;index"`
	CreatedAt   time.Time
	RespondedAt *time.Time
	Accepted    bool `gorm:"not null;default:false"`
}

// Friendship rows always come in symmetric pairs: (A,B) and (B,A) are
// written and removed in the same transaction.
type Friendship struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	FriendID  uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}

type Group struct {
	ID        uint       `gorm:"primaryKey"`
	Name      string     `gorm:"size:100;not null;uniqueIndex"`
	CreatorID uint       `gorm:"not null;index"`
	Phase     GroupPhase `gorm:"type:varchar(16);not null"`
	CreatedAt time.Time
}

// GroupPhase advances COLLECTING -> VOTING -> CLOSED, never skipping a
// state. Once CLOSED the group's pool and rankings are read-only.
type GroupPhase string

const (
	PhaseCollecting GroupPhase = "COLLECTING"
	PhaseVoting     GroupPhase = "VOTING"
	PhaseClosed     GroupPhase = "CLOSED"
)

type GroupMember struct {
	GroupID  uint `gorm:"primaryKey;autoIncrement:false"`
	UserID   uint `gorm:"primaryKey;autoIncrement:false"`
	JoinedAt time.Time
}

type GroupInvitation struct {
	ID          uint `gorm:"primaryKey"`
	GroupID     uint `gorm:"not null;index"`
	SenderID    uint `gorm:"not null;index"`
	ReceiverID  uint `gorm:"not null;index"`
	CreatedAt   time.Time
	RespondedAt *time.Time
	Accepted    bool `gorm:"not null;default:false"`
}

// Movie is a read-only cache of the external catalog. The primary key is
// the TMDb id; two movies are the same movie iff their ids match.
type Movie struct {
	ID               int64    `gorm:"primaryKey;autoIncrement:false"`
	Title            string   `gorm:"size:255;not null;index"`
	ReleaseYear      int      `gorm:"index"`
	Genres           []string `gorm:"serializer:json"`
	Actors           []string `gorm:"serializer:json"`
	Directors        []string `gorm:"serializer:json"`
	SpokenLanguages  []string `gorm:"serializer:json"`
	OriginalLanguage string   `gorm:"size:16"`
	PosterURL        string
	TrailerURL       string
	Description      string   `gorm:"type:text"`
	TmdbRating       *float64
	CreatedAt        time.Time
}

// PoolEntry's composite primary key makes a movie unique within a group's
// pool at the storage layer, closing the concurrent double-add race.
// Position records pool-entry order for the winner tie-break.
type PoolEntry struct {
	GroupID   uint  `gorm:"primaryKey;autoIncrement:false"`
	MovieID   int64 `gorm:"primaryKey;autoIncrement:false"`
	AddedByID uint  `gorm:"not null;index"`
	Position  int   `gorm:"not null"`
	CreatedAt time.Time
}

// MovieRanking holds one user's rank for one pool movie. The two unique
// indexes enforce "one rank per movie" and "each rank used once" per
// (group, user) even under concurrent submissions.
type MovieRanking struct {
	ID        uint  `gorm:"primaryKey"`
	GroupID   uint  `gorm:"not null;uniqueIndex:idx_group_user_movie,priority:1;uniqueIndex:idx_group_user_rank,priority:1"`
	UserID    uint  `gorm:"not null;uniqueIndex:idx_group_user_movie,priority:2;uniqueIndex:idx_group_user_rank,priority:2"`
	MovieID   int64 `gorm:"not null;uniqueIndex:idx_group_user_movie,priority:3"`
	Rank      int   `gorm:"not null;uniqueIndex:idx_group_user_rank,priority:3"`
	CreatedAt time.Time
}

// RankingResult is append-only: every calculation adds a row and the
// latest row by CalculatedAt is the group's current outcome.
type RankingResult struct {
	ID           uint      `gorm:"primaryKey"`
	GroupID      uint      `gorm:"not null;index"`
	MovieID      int64     `gorm:"not null"`
	AverageRank  float64
	Submitters   int       `gorm:"not null;default:0"`
	CalculatedAt time.Time `gorm:"not null;index"`
}

// RankingSubmission is the append-only audit log of ranking submissions.
type RankingSubmission struct {
	ID           uint      `gorm:"primaryKey"`
	GroupID      uint      `gorm:"not null;index"`
	UserID       uint      `gorm:"not null;index"`
	MoviesRanked int       `gorm:"not null"`
	SubmittedAt  time.Time `gorm:"not null"`
}

type WatchlistEntry struct {
	UserID  uint  `gorm:"primaryKey;autoIncrement:false"`
	MovieID int64 `gorm:"primaryKey;autoIncrement:false"`
	AddedAt time.Time
}

type WatchedMovie struct {
	UserID    uint  `gorm:"primaryKey;autoIncrement:false"`
	MovieID   int64 `gorm:"primaryKey;autoIncrement:false"`
	WatchedAt time.Time
}

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&FriendRequest{},
		&Friendship{},
		&Group{},
		&GroupMember{},
		&GroupInvitation{},
		&Movie{},
		&PoolEntry{},
		&MovieRanking{},
		&RankingResult{},
		&RankingSubmission{},
		&WatchlistEntry{},
		&WatchedMovie{},
	)
}
