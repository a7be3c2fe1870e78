package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/moviemates/moviemates/internal/service/domain"
)

// Services groups everything the router needs. The app package fills it
// in at startup.
type Services struct {
	Auth     domain.AuthService
	Users    domain.UserService
	Friends  domain.FriendService
	Groups   domain.GroupService
	Catalog  domain.CatalogService
	Pool     domain.PoolService
	Rankings domain.RankingService
}

// NewRouter wires every route. Everything except register and login sits
// behind the bearer-token middleware.
func NewRouter(s Services, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))

	authHandler := NewAuthHandler(s.Auth)
	userHandler := NewUserHandler(s.Users)
	friendHandler := NewFriendHandler(s.Friends)
	groupHandler := NewGroupHandler(s.Groups)
	movieHandler := NewMovieHandler(s.Catalog)
	poolHandler := NewPoolHandler(s.Pool)
	rankingHandler := NewRankingHandler(s.Rankings)

	router.POST("/auth/register", authHandler.HandleRegister)
	router.POST("/auth/login", authHandler.HandleLogin)

	authed := router.Group("/", RequireAuth(s.Auth))

	authed.POST("/auth/logout", authHandler.HandleLogout)

	authed.GET("/users/me", userHandler.HandleGetMe)
	authed.PUT("/users/me", userHandler.HandleUpdateProfile)
	authed.GET("/users/:id", userHandler.HandleGetUser)
	authed.GET("/users/me/watchlist", userHandler.HandleWatchlist)
	authed.POST("/users/me/watchlist/:movieId", userHandler.HandleAddToWatchlist)
	authed.DELETE("/users/me/watchlist/:movieId", userHandler.HandleRemoveFromWatchlist)
	authed.GET("/users/me/watched", userHandler.HandleWatched)
	authed.POST("/users/me/watched/:movieId", userHandler.HandleMarkWatched)

	authed.POST("/friends/add/:receiverId", friendHandler.HandleSendRequest)
	authed.POST("/friends/friendrequest/:id/accept", friendHandler.HandleAcceptRequest)
	authed.POST("/friends/friendrequest/:id/reject", friendHandler.HandleRejectRequest)
	authed.GET("/friends/friendrequests/sent", friendHandler.HandlePendingSent)
	authed.GET("/friends/friendrequests/received", friendHandler.HandlePendingReceived)
	authed.GET("/friends", friendHandler.HandleListFriends)
	authed.DELETE("/friends/remove/:friendId", friendHandler.HandleRemoveFriend)

	authed.POST("/groups", groupHandler.HandleCreateGroup)
	authed.GET("/groups", groupHandler.HandleListGroups)
	authed.GET("/groups/:groupId", groupHandler.HandleGetGroup)
	authed.DELETE("/groups/:groupId", groupHandler.HandleDeleteGroup)
	authed.POST("/groups/:groupId/voting/start", groupHandler.HandleStartVoting)

	authed.POST("/groups/:groupId/invitations/:receiverId", groupHandler.HandleInvite)
	authed.POST("/groups/invitations/:id/accept", groupHandler.HandleAcceptInvitation)
	authed.POST("/groups/invitations/:id/reject", groupHandler.HandleRejectInvitation)
	authed.GET("/groups/invitations/sent", groupHandler.HandleInvitationsSent)
	authed.GET("/groups/invitations/received", groupHandler.HandleInvitationsReceived)

	authed.POST("/groups/:groupId/pool/:movieId", poolHandler.HandleAddMovie)
	authed.DELETE("/groups/:groupId/pool/:movieId", poolHandler.HandleRemoveMovie)
	authed.GET("/groups/:groupId/pool", poolHandler.HandleListPool)

	authed.GET("/movies/search", movieHandler.HandleSearch)
	authed.GET("/movies/:movieId", movieHandler.HandleGetMovie)

	authed.POST("/api/users/:userId/rankings", rankingHandler.HandleSubmitRankings)
	authed.POST("/api/groups/:groupId/rankings/calculate", rankingHandler.HandleCalculateResult)
	authed.GET("/api/rankings/results/latest", rankingHandler.HandleLatestResult)

	return router
}
