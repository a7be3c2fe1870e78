package tmdb

// Movie is the movie-details payload with credits and videos appended.
// Only the fields the catalog consumes are mapped.
type Movie struct {
	ID               int64            `json:"id"`
	Title            string           `json:"title"`
	Overview         string           `json:"overview"`
	ReleaseDate      string           `json:"release_date"`
	PosterPath       string           `json:"poster_path"`
	OriginalLanguage string           `json:"original_language"`
	VoteAverage      float64          `json:"vote_average"`
	Genres           []Genre          `json:"genres"`
	SpokenLanguages  []SpokenLanguage `json:"spoken_languages"`
	Credits          Credits          `json:"credits"`
	Videos           Videos           `json:"videos"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SpokenLanguage struct {
	ISO6391     string `json:"iso_639_1"`
	EnglishName string `json:"english_name"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type CastMember struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

type Videos struct {
	Results []Video `json:"results"`
}

type Video struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
}
