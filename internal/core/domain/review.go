package domain

// Review represents a rating left for a movie info
type Review struct {
	ReviewID    string  `json:"reviewId"`
	MovieInfoID *int64  `json:"movieInfoId"`
	Comment     string  `json:"comment"`
	Rating      float64 `json:"rating"`
}

// Validate checks the fields required to store a review.
func (r *Review) Validate() error {
	var violations []string
	if r.MovieInfoID == nil {
		violations = append(violations, "rating.movieInfoId : must not be null")
	}
	if r.Rating < 0 {
		violations = append(violations, "rating.negative : please pass a non-negative value")
	}
	return newValidationError(violations)
}
