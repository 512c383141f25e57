package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/vietddude/movies/internal/core/domain"
	"github.com/vietddude/movies/internal/infra/storage"
)

// MovieInfoRepo implements storage.MovieInfoRepository using PostgreSQL.
type MovieInfoRepo struct {
	db *DB
}

// NewMovieInfoRepo creates a new PostgreSQL movie info repository.
func NewMovieInfoRepo(db *DB) *MovieInfoRepo {
	return &MovieInfoRepo{db: db}
}

const movieInfoColumns = `id, name, year, cast_members, COALESCE(to_char(release_date, 'YYYY-MM-DD'), '') AS release_date`

type movieInfoRow struct {
	ID          string         `db:"id"`
	Name        string         `db:"name"`
	Year        int            `db:"year"`
	Cast        pq.StringArray `db:"cast_members"`
	ReleaseDate string         `db:"release_date"`
}

func (r movieInfoRow) toDomain() domain.MovieInfo {
	cast := []string(r.Cast)
	if cast == nil {
		cast = []string{}
	}
	return domain.MovieInfo{
		MovieInfoID: r.ID,
		Name:        r.Name,
		Year:        r.Year,
		Cast:        cast,
		ReleaseDate: r.ReleaseDate,
	}
}

// Save inserts a movie info.
func (r *MovieInfoRepo) Save(ctx context.Context, info *domain.MovieInfo) error {
	query := `
		INSERT INTO movie_info (id, name, year, cast_members, release_date)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::date)
	`
	_, err := r.db.ExecContext(ctx, query,
		info.MovieInfoID, info.Name, info.Year, pq.StringArray(info.Cast), info.ReleaseDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrDuplicate
		}
		return fmt.Errorf("failed to save movie info: %w", err)
	}
	return nil
}

// GetByID retrieves a movie info by id.
func (r *MovieInfoRepo) GetByID(ctx context.Context, id string) (*domain.MovieInfo, error) {
	query := `SELECT ` + movieInfoColumns + ` FROM movie_info WHERE id = $1`

	var row movieInfoRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movie info: %w", err)
	}
	info := row.toDomain()
	return &info, nil
}

func (r *MovieInfoRepo) list(ctx context.Context, where string, args ...any) ([]domain.MovieInfo, error) {
	query := `SELECT ` + movieInfoColumns + ` FROM movie_info ` + where + ` ORDER BY seq ASC`

	var rows []movieInfoRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list movie info: %w", err)
	}

	result := make([]domain.MovieInfo, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

// GetAll returns every movie info in insertion order.
func (r *MovieInfoRepo) GetAll(ctx context.Context) ([]domain.MovieInfo, error) {
	return r.list(ctx, "")
}

// GetByYear returns movie infos released in year.
func (r *MovieInfoRepo) GetByYear(ctx context.Context, year int) ([]domain.MovieInfo, error) {
	return r.list(ctx, "WHERE year = $1", year)
}

// GetByName returns the earliest movie info with the given name.
func (r *MovieInfoRepo) GetByName(ctx context.Context, name string) (*domain.MovieInfo, error) {
	found, err := r.list(ctx, "WHERE name = $1", name)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// Update replaces the movie info stored under id.
func (r *MovieInfoRepo) Update(ctx context.Context, id string, info *domain.MovieInfo) error {
	query := `
		UPDATE movie_info
		SET name = $2, year = $3, cast_members = $4, release_date = NULLIF($5, '')::date
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		id, info.Name, info.Year, pq.StringArray(info.Cast), info.ReleaseDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update movie info: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update movie info: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Delete removes a movie info.
func (r *MovieInfoRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM movie_info WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete movie info: %w", err)
	}
	return nil
}

var _ storage.MovieInfoRepository = (*MovieInfoRepo)(nil)
