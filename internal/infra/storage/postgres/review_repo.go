package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vietddude/movies/internal/core/domain"
	"github.com/vietddude/movies/internal/infra/storage"
)

// ReviewRepo implements storage.ReviewRepository using PostgreSQL.
type ReviewRepo struct {
	db *DB
}

// NewReviewRepo creates a new PostgreSQL review repository.
func NewReviewRepo(db *DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

type reviewRow struct {
	ID          string  `db:"id"`
	MovieInfoID int64   `db:"movie_info_id"`
	Comment     string  `db:"comment"`
	Rating      float64 `db:"rating"`
}

func (r reviewRow) toDomain() domain.Review {
	movieInfoID := r.MovieInfoID
	return domain.Review{
		ReviewID:    r.ID,
		MovieInfoID: &movieInfoID,
		Comment:     r.Comment,
		Rating:      r.Rating,
	}
}

// Save inserts a review.
func (r *ReviewRepo) Save(ctx context.Context, review *domain.Review) error {
	if review.MovieInfoID == nil {
		return fmt.Errorf("failed to save review: movie info id is required")
	}
	query := `
		INSERT INTO reviews (id, movie_info_id, comment, rating)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		review.ReviewID, *review.MovieInfoID, review.Comment, review.Rating,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// GetByID retrieves a review by id.
func (r *ReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := `SELECT id, movie_info_id, comment, rating FROM reviews WHERE id = $1`

	var row reviewRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	review := row.toDomain()
	return &review, nil
}

func (r *ReviewRepo) list(ctx context.Context, where string, args ...any) ([]domain.Review, error) {
	query := `SELECT id, movie_info_id, comment, rating FROM reviews ` + where + ` ORDER BY seq ASC`

	var rows []reviewRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	result := make([]domain.Review, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

// GetAll returns every review in insertion order.
func (r *ReviewRepo) GetAll(ctx context.Context) ([]domain.Review, error) {
	return r.list(ctx, "")
}

// GetByMovieInfoID returns the reviews attached to a movie info.
func (r *ReviewRepo) GetByMovieInfoID(ctx context.Context, movieInfoID int64) ([]domain.Review, error) {
	return r.list(ctx, "WHERE movie_info_id = $1", movieInfoID)
}

// Update changes the comment and rating of the review stored under id.
func (r *ReviewRepo) Update(ctx context.Context, id string, review *domain.Review) error {
	query := `UPDATE reviews SET comment = $2, rating = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, review.Comment, review.Rating)
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes a review.
func (r *ReviewRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

var _ storage.ReviewRepository = (*ReviewRepo)(nil)
