package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviemates/moviemates/internal/tmdb"
)

func TestGetMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "credits,videos", r.URL.Query().Get("append_to_response"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": 603,
			"title": "The Matrix",
			"overview": "A hacker learns the truth.",
			"release_date": "1999-03-31",
			"vote_average": 8.7,
			"original_language": "en",
			"genres": [{"id": 28, "name": "Action"}],
			"spoken_languages": [{"iso_639_1": "en", "english_name": "English"}],
			"credits": {
				"cast": [{"name": "Keanu Reeves", "order": 0}],
				"crew": [{"name": "Lana Wachowski", "job": "Director"}]
			},
			"videos": {"results": [{"key": "xyz", "site": "YouTube", "type": "Trailer"}]}
		}`))
	}))
	defer server.Close()

	client := tmdb.NewClient("test-key", server.URL)
	movie, err := client.GetMovie(context.Background(), 603)
	require.NoError(t, err)

	assert.Equal(t, int64(603), movie.ID)
	assert.Equal(t, "The Matrix", movie.Title)
	assert.InDelta(t, 8.7, movie.VoteAverage, 1e-9)
	require.Len(t, movie.Genres, 1)
	assert.Equal(t, "Action", movie.Genres[0].Name)
	require.Len(t, movie.Credits.Cast, 1)
	assert.Equal(t, "Keanu Reeves", movie.Credits.Cast[0].Name)
	require.Len(t, movie.Videos.Results, 1)
	assert.Equal(t, "xyz", movie.Videos.Results[0].Key)
}

func TestGetMovieNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := tmdb.NewClient("test-key", server.URL)
	_, err := client.GetMovie(context.Background(), 42)
	assert.ErrorIs(t, err, tmdb.ErrNotFound)
}

func TestGetMovieServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := tmdb.NewClient("test-key", server.URL)
	_, err := client.GetMovie(context.Background(), 42)
	require.Error(t, err)
	assert.NotErrorIs(t, err, tmdb.ErrNotFound)
}
