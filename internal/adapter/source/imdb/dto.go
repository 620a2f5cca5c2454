package imdb

// Title type values used by the API
const (
	TypeMovie        = "MOVIE"
	TypeTVSeries     = "TV_SERIES"
	TypeTVMiniSeries = "TV_MINI_SERIES"
	TypeTVSpecial    = "TV_SPECIAL"
	TypeTVMovie      = "TV_MOVIE"
	TypeShort        = "SHORT"
	TypeVideo        = "VIDEO"
	TypeVideoGame    = "VIDEO_GAME"
)

// ListTitlesResponse is returned by /titles
type ListTitlesResponse struct {
	Titles        []Title `json:"titles"`
	TotalCount    int     `json:"totalCount"`
	NextPageToken string  `json:"nextPageToken"`
}

// SearchTitlesResponse is returned by /search/titles
type SearchTitlesResponse struct {
	Titles        []Title `json:"titles"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
}

// Title is a movie or series record
type Title struct {
	ID             string   `json:"id"`
	Type           string   `json:"type"`
	PrimaryTitle   string   `json:"primaryTitle"`
	OriginalTitle  string   `json:"originalTitle"`
	StartYear      int      `json:"startYear,omitempty"`
	EndYear        int      `json:"endYear,omitempty"`
	RuntimeSeconds int      `json:"runtimeSeconds,omitempty"`
	Plot           string   `json:"plot,omitempty"`
	PrimaryImage   *Image   `json:"primaryImage,omitempty"`
	Rating         *Rating  `json:"rating,omitempty"`
	Genres         []string `json:"genres,omitempty"`
	Directors      []Name   `json:"directors,omitempty"`
	Stars          []Name   `json:"stars,omitempty"`
}

// Image is a poster or still
type Image struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Rating is the aggregate user rating
type Rating struct {
	AggregateRating float64 `json:"aggregateRating"`
	VoteCount       int     `json:"voteCount"`
}

// Name is a person credited on a title
type Name struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// InterestCategoriesResponse is returned by /interests
type InterestCategoriesResponse struct {
	Categories []InterestCategory `json:"categories"`
}

// InterestCategory groups interests (genres and their subgenres)
type InterestCategory struct {
	Category  string     `json:"category"`
	Interests []Interest `json:"interests"`
}

// Interest is a single genre or subgenre
type Interest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	IsSubgenre bool   `json:"isSubgenre,omitempty"`
}
