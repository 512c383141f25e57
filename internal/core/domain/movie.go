package domain

// Movie is the aggregate of a movie info and its reviews.
// Reviews is never nil; a movie without reviews carries an empty slice.
type Movie struct {
	MovieInfo MovieInfo `json:"movieInfo"`
	Reviews   []Review  `json:"reviews"`
}

// NewMovie joins a movie info with its reviews.
func NewMovie(info MovieInfo, reviews []Review) *Movie {
	if reviews == nil {
		reviews = []Review{}
	}
	return &Movie{MovieInfo: info, Reviews: reviews}
}
