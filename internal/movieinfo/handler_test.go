package movieinfo

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vietddude/movies/internal/core/domain"
	"github.com/vietddude/movies/internal/infra/storage/memory"
	"github.com/vietddude/movies/internal/stream"
)

type testEnv struct {
	mux *http.ServeMux
	hub *stream.Hub[domain.MovieInfo]
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	hub := stream.NewHub[domain.MovieInfo]("movie-info", 8)
	repo := memory.NewMovieInfoRepo(memory.NewMemoryStorage())
	service := NewService(repo, stream.Local(hub), nil)

	mux := http.NewServeMux()
	NewHandler(service, hub, nil).Register(mux)

	env := &testEnv{mux: mux, hub: hub}
	for _, body := range []string{
		`{"movieInfoId":"abc","name":"Batman Begins","year":2005,"cast":["Christian Bale","Michael Cane"],"release_date":"2005-06-15"}`,
		`{"name":"The Dark Knight","year":2008,"cast":["Christian Bale","HeathLedger"],"release_date":"2008-07-18"}`,
		`{"name":"Dark Knight Rises","year":2012,"cast":["Christian Bale","Tom Hardy"],"release_date":"2012-07-20"}`,
	} {
		if rec := env.do(http.MethodPost, "/v1/movies-info", body); rec.Code != http.StatusCreated {
			t.Fatalf("seed failed: %d %s", rec.Code, rec.Body.String())
		}
	}
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []domain.MovieInfo {
	t.Helper()
	var infos []domain.MovieInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatalf("invalid body %q: %v", rec.Body.String(), err)
	}
	return infos
}

func TestHandler_CreateAssignsID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/v1/movies-info",
		`{"name":"Batman Begins1","year":2005,"cast":["Christian Bale","Michael Cane"],"release_date":"2005-06-15"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created domain.MovieInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if created.MovieInfoID == "" {
		t.Error("expected a generated id")
	}

	latest, ok := env.hub.Latest()
	if !ok || latest.MovieInfoID != created.MovieInfoID {
		t.Errorf("expected created record to be published, got %+v", latest)
	}
}

func TestHandler_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/v1/movies-info", `{"name":"","year":-2005,"cast":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	want := "movieInfo.cast must be present, movieInfo.name must be present, movieInfo.year must be a Positive Value"
	if got := strings.TrimSpace(rec.Body.String()); got != want {
		t.Errorf("unexpected body %q", got)
	}

	if rec := env.do(http.MethodPost, "/v1/movies-info", `{not json`); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestHandler_ListAndFilters(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/v1/movies-info/all", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	all := decodeList(t, rec)
	if len(all) != 3 || all[0].MovieInfoID != "abc" {
		t.Errorf("unexpected list: %+v", all)
	}

	byQuery := decodeList(t, env.do(http.MethodGet, "/v1/movies-info/all?year=2005", ""))
	if len(byQuery) != 1 || byQuery[0].Name != "Batman Begins" {
		t.Errorf("unexpected year filter result: %+v", byQuery)
	}

	byPath := decodeList(t, env.do(http.MethodGet, "/v1/movies-info/year/2008", ""))
	if len(byPath) != 1 || byPath[0].Name != "The Dark Knight" {
		t.Errorf("unexpected year path result: %+v", byPath)
	}

	if rec := env.do(http.MethodGet, "/v1/movies-info?year=abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad year, got %d", rec.Code)
	}
}

func TestHandler_GetByIDAndName(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/v1/movies-info/abc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"name":"Batman Begins"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}

	if rec := env.do(http.MethodGet, "/v1/movies-info/def", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	rec = env.do(http.MethodGet, "/v1/movies-info/name/Dark%20Knight%20Rises", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"year":2012`) {
		t.Errorf("unexpected name lookup: %d %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(http.MethodGet, "/v1/movies-info/name/Unknown", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandler_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPut, "/v1/movies-info/abc",
		`{"name":"Dark Knight Rises1","year":2005,"cast":["Christian Bale","Michael Cane"],"release_date":"2005-06-15"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"movieInfoId":"abc"`) || !strings.Contains(rec.Body.String(), "Dark Knight Rises1") {
		t.Errorf("unexpected body %s", rec.Body.String())
	}

	rec = env.do(http.MethodPut, "/v1/movies-info/def",
		`{"name":"Dark Knight Rises1","year":2005,"cast":["Christian Bale"]}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	if rec := env.do(http.MethodDelete, "/v1/movies-info/abc", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := env.do(http.MethodGet, "/v1/movies-info/abc", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", rec.Code)
	}
	if all := decodeList(t, env.do(http.MethodGet, "/v1/movies-info", "")); len(all) != 2 {
		t.Errorf("expected 2 records after delete, got %d", len(all))
	}
}

func TestHandler_Stream(t *testing.T) {
	env := newTestEnv(t)
	server := httptest.NewServer(env.mux)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/v1/movies-info/stream", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	next := func() domain.MovieInfo {
		t.Helper()
		if !scanner.Scan() {
			t.Fatalf("stream ended: %v", scanner.Err())
		}
		var info domain.MovieInfo
		if err := json.Unmarshal(scanner.Bytes(), &info); err != nil {
			t.Fatalf("invalid line %q: %v", scanner.Text(), err)
		}
		return info
	}

	// Only the latest seeded record is replayed
	if got := next(); got.Name != "Dark Knight Rises" {
		t.Errorf("expected latest record first, got %+v", got)
	}

	rec := env.do(http.MethodPost, "/v1/movies-info",
		`{"movieInfoId":"xyz","name":"Inception","year":2010,"cast":["Leonardo DiCaprio"]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", rec.Code)
	}
	if got := next(); got.MovieInfoID != "xyz" {
		t.Errorf("expected new record, got %+v", got)
	}
}
