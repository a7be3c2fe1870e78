package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/moviemates/moviemates/internal/model"
	"github.com/moviemates/moviemates/internal/repository"
	"github.com/moviemates/moviemates/internal/service/domain"
)

type MovieHandler struct {
	catalog domain.CatalogService
}

func NewMovieHandler(catalog domain.CatalogService) *MovieHandler {
	return &MovieHandler{
		catalog: catalog,
	}
}

type MovieResponse struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	ReleaseYear      int      `json:"release_year,omitempty"`
	Genres           []string `json:"genres,omitempty"`
	Actors           []string `json:"actors,omitempty"`
	Directors        []string `json:"directors,omitempty"`
	SpokenLanguages  []string `json:"spoken_languages,omitempty"`
	OriginalLanguage string   `json:"original_language,omitempty"`
	PosterURL        string   `json:"poster_url,omitempty"`
	TrailerURL       string   `json:"trailer_url,omitempty"`
	Description      string   `json:"description,omitempty"`
	TmdbRating       *float64 `json:"tmdb_rating,omitempty"`
}

func toMovieResponse(movie *model.Movie) MovieResponse {
	return MovieResponse{
		ID:               movie.ID,
		Title:            movie.Title,
		ReleaseYear:      movie.ReleaseYear,
		Genres:           movie.Genres,
		Actors:           movie.Actors,
		Directors:        movie.Directors,
		SpokenLanguages:  movie.SpokenLanguages,
		OriginalLanguage: movie.OriginalLanguage,
		PosterURL:        movie.PosterURL,
		TrailerURL:       movie.TrailerURL,
		Description:      movie.Description,
		TmdbRating:       movie.TmdbRating,
	}
}

func (h *MovieHandler) HandleGetMovie(ctx *gin.Context) {
	movieID, ok := int64Param(ctx, "movieId")
	if !ok {
		return
	}

	movie, err := h.catalog.Resolve(ctx.Request.Context(), movieID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(200, toMovieResponse(movie))
}

func (h *MovieHandler) HandleSearch(ctx *gin.Context) {
	query := repository.MovieSearch{
		Title:    ctx.Query("title"),
		Genre:    ctx.Query("genre"),
		Actor:    ctx.Query("actor"),
		Director: ctx.Query("director"),
	}
	if raw := ctx.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(400, gin.H{
				"error":  "Invalid query parameter",
				"detail": "year must be an integer",
			})
			return
		}
		query.Year = year
	}

	movies, err := h.catalog.Search(ctx.Request.Context(), query)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	out := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, toMovieResponse(&movies[i]))
	}
	ctx.JSON(200, out)
}
