package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/otakulog/otakulog/internal/catalog"
)

func TestTopAnime(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodGet, "/api/anime?page=3", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if env.catalog.lastPage != 3 {
		t.Errorf("page = %d, want 3", env.catalog.lastPage)
	}

	var body struct {
		Data        []catalog.Anime `json:"data"`
		CurrentPage int             `json:"currentPage"`
	}
	decode(t, w, &body)
	if len(body.Data) != 1 || body.Data[0].Title != "Cowboy Bebop" || body.CurrentPage != 3 {
		t.Errorf("body = %+v", body)
	}

	env.do(http.MethodGet, "/api/anime?page=zero", "", nil)
	if env.catalog.lastPage != 1 {
		t.Errorf("malformed page should default to 1, got %d", env.catalog.lastPage)
	}
}

func TestTopAnimeUpstreamFailure(t *testing.T) {
	env := setupTestEnv(t)
	env.catalog.err = errors.New("jikan returned 503")

	w := env.do(http.MethodGet, "/api/anime", "", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["error"] != "Failed to load anime list" {
		t.Errorf("body = %v", body)
	}
}

func TestSearchAnime(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodGet, "/api/anime/search?q=bebop&genres=1,24&page=2&limit=10", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	got := env.catalog.lastSearch
	if got.Query != "bebop" || len(got.Genres) != 2 || got.Genres[1] != 24 || got.Page != 2 || got.Limit != 10 {
		t.Errorf("search params = %+v", got)
	}

	w = env.do(http.MethodGet, "/api/anime/search?genres=action", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad genres status = %d, want 400", w.Code)
	}
}

func TestAnimeGenres(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(http.MethodGet, "/api/anime/genres", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Data []catalog.Genre `json:"data"`
	}
	decode(t, w, &body)
	if len(body.Data) != 1 || body.Data[0].Name != "Action" {
		t.Errorf("genres = %+v", body.Data)
	}
}

func TestAnimeDetails(t *testing.T) {
	env := setupTestEnv(t)

	if w := env.do(http.MethodGet, "/api/anime/1", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", w.Code)
	}

	alice := env.register(t, "alice")

	w := env.do(http.MethodGet, "/api/anime/1", "", alice)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Anime catalog.AnimeDetails `json:"anime"`
	}
	decode(t, w, &body)
	if body.Anime.MalID != 1 {
		t.Errorf("anime = %+v", body.Anime)
	}

	if w := env.do(http.MethodGet, "/api/anime/42", "", alice); w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", w.Code)
	}
	if w := env.do(http.MethodGet, "/api/anime/abc", "", alice); w.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", w.Code)
	}

	env.catalog.err = errors.New("timeout")
	if w := env.do(http.MethodGet, "/api/anime/1", "", alice); w.Code != http.StatusInternalServerError {
		t.Errorf("upstream failure status = %d, want 500", w.Code)
	}
}
