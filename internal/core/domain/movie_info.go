package domain

import (
	"strings"
	"time"
)

// ReleaseDateLayout is the wire format of MovieInfo.ReleaseDate.
const ReleaseDateLayout = "2006-01-02"

// MovieInfo represents a catalog record served by the movie-info service
type MovieInfo struct {
	MovieInfoID string   `json:"movieInfoId"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Cast        []string `json:"cast"`
	ReleaseDate string   `json:"release_date,omitempty"`
}

// Validate checks the fields required to store a movie info.
func (m *MovieInfo) Validate() error {
	var violations []string
	if strings.TrimSpace(m.Name) == "" {
		violations = append(violations, "movieInfo.name must be present")
	}
	if m.Year <= 0 {
		violations = append(violations, "movieInfo.year must be a Positive Value")
	}
	if len(m.Cast) == 0 {
		violations = append(violations, "movieInfo.cast must be present")
	}
	if m.ReleaseDate != "" {
		if _, err := time.Parse(ReleaseDateLayout, m.ReleaseDate); err != nil {
			violations = append(violations, "movieInfo.release_date must be formatted as YYYY-MM-DD")
		}
	}
	return newValidationError(violations)
}
