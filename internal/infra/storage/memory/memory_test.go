package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/vietddude/movies/internal/core/domain"
	"github.com/vietddude/movies/internal/infra/storage"
)

func int64Ptr(v int64) *int64 { return &v }

func TestMovieInfoRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMovieInfoRepo(NewMemoryStorage())

	infos := []domain.MovieInfo{
		{MovieInfoID: "abc", Name: "Batman Begins", Year: 2005, Cast: []string{"Christian Bale", "Michael Cane"}},
		{MovieInfoID: "def", Name: "The Dark Knight", Year: 2008, Cast: []string{"Christian Bale", "HeathLedger"}},
		{MovieInfoID: "ghi", Name: "Dark Knight Rises", Year: 2012, Cast: []string{"Christian Bale", "Tom Hardy"}},
	}
	for i := range infos {
		if err := repo.Save(ctx, &infos[i]); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	if err := repo.Save(ctx, &infos[0]); !errors.Is(err, storage.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}

	all, err := repo.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 || all[0].MovieInfoID != "abc" || all[2].MovieInfoID != "ghi" {
		t.Errorf("unexpected order: %+v", all)
	}

	byYear, _ := repo.GetByYear(ctx, 2008)
	if len(byYear) != 1 || byYear[0].Name != "The Dark Knight" {
		t.Errorf("unexpected year result: %+v", byYear)
	}

	byName, _ := repo.GetByName(ctx, "Dark Knight Rises")
	if byName == nil || byName.MovieInfoID != "ghi" {
		t.Errorf("unexpected name result: %+v", byName)
	}

	missing, err := repo.GetByID(ctx, "nope")
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for missing id, got %+v, %v", missing, err)
	}

	updated := domain.MovieInfo{Name: "Dark Knight Rises1", Year: 2013, Cast: []string{"Christian Bale"}}
	if err := repo.Update(ctx, "ghi", &updated); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := repo.GetByID(ctx, "ghi")
	if got.Name != "Dark Knight Rises1" || got.MovieInfoID != "ghi" {
		t.Errorf("unexpected updated record: %+v", got)
	}
	if err := repo.Update(ctx, "nope", &updated); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	// Stored records must not alias the caller's slices
	got.Cast[0] = "changed"
	again, _ := repo.GetByID(ctx, "ghi")
	if again.Cast[0] != "Christian Bale" {
		t.Error("stored record was mutated through a returned copy")
	}

	if err := repo.Delete(ctx, "def"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, "def"); err != nil {
		t.Errorf("deleting a missing id should not fail: %v", err)
	}
	all, _ = repo.GetAll(ctx)
	if len(all) != 2 || all[1].MovieInfoID != "ghi" {
		t.Errorf("unexpected records after delete: %+v", all)
	}
}

func TestReviewRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewReviewRepo(NewMemoryStorage())

	reviews := []domain.Review{
		{ReviewID: "1", MovieInfoID: int64Ptr(1), Comment: "Awesome Movie", Rating: 9.0},
		{ReviewID: "2", MovieInfoID: int64Ptr(1), Comment: "Awesome Movie1", Rating: 9.0},
		{ReviewID: "3", MovieInfoID: int64Ptr(2), Comment: "Excellent Movie", Rating: 8.0},
	}
	for i := range reviews {
		if err := repo.Save(ctx, &reviews[i]); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	byMovie, err := repo.GetByMovieInfoID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByMovieInfoID failed: %v", err)
	}
	if len(byMovie) != 2 || byMovie[0].ReviewID != "1" || byMovie[1].ReviewID != "2" {
		t.Errorf("unexpected reviews: %+v", byMovie)
	}

	none, _ := repo.GetByMovieInfoID(ctx, 42)
	if none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", none)
	}

	update := domain.Review{MovieInfoID: int64Ptr(2), Comment: "Not an Awesome Movie", Rating: 8.0}
	if err := repo.Update(ctx, "3", &update); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, _ := repo.GetByID(ctx, "3")
	if got.Comment != "Not an Awesome Movie" || got.ReviewID != "3" {
		t.Errorf("unexpected updated review: %+v", got)
	}
	if err := repo.Update(ctx, "missing", &update); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	all, _ := repo.GetAll(ctx)
	if len(all) != 2 {
		t.Errorf("expected 2 reviews, got %d", len(all))
	}
}
