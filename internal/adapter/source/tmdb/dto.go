package tmdb

// PagedResponse is the envelope of every paginated TMDB list endpoint
type PagedResponse struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// Result is a movie, TV or person entry of a discover/search response.
// Movies carry title/release_date, TV entries name/first_air_date.
type Result struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type,omitempty"` // Only set by /search/multi
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	GenreIDs     []int   `json:"genre_ids"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	PosterPath   string  `json:"poster_path,omitempty"`
	Popularity   float64 `json:"popularity"`
}

// GenreResponse is returned by /genre/{movie,tv}/list
type GenreResponse struct {
	Genres []Genre `json:"genres"`
}

// Genre is a TMDB genre entry
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Details covers both /movie/{id} and /tv/{id}
type Details struct {
	ID             int     `json:"id"`
	Title          string  `json:"title,omitempty"`
	Name           string  `json:"name,omitempty"`
	OriginalTitle  string  `json:"original_title,omitempty"`
	OriginalName   string  `json:"original_name,omitempty"`
	Overview       string  `json:"overview"`
	ReleaseDate    string  `json:"release_date,omitempty"`
	FirstAirDate   string  `json:"first_air_date,omitempty"`
	Runtime        int     `json:"runtime,omitempty"`          // Movies, minutes
	EpisodeRunTime []int   `json:"episode_run_time,omitempty"` // TV, minutes
	Status         string  `json:"status"`
	VoteAverage    float64 `json:"vote_average"`
	VoteCount      int     `json:"vote_count"`
	PosterPath     string  `json:"poster_path,omitempty"`
	Genres         []Genre `json:"genres"`
	CreatedBy      []struct {
		Name string `json:"name"`
	} `json:"created_by,omitempty"`
	Credits struct {
		Cast []struct {
			Name  string `json:"name"`
			Order int    `json:"order"`
		} `json:"cast"`
		Crew []struct {
			Name string `json:"name"`
			Job  string `json:"job"`
		} `json:"crew"`
	} `json:"credits"`
}
