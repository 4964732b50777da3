package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/otakulog/otakulog/db"
	"github.com/otakulog/otakulog/internal/auth"
	"github.com/otakulog/otakulog/internal/catalog"
	"github.com/otakulog/otakulog/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCatalog struct {
	top     *catalog.AnimeList
	details map[int]*catalog.AnimeDetails
	genres  []catalog.Genre
	err     error

	lastPage   int
	lastSearch catalog.SearchParams
}

func (f *fakeCatalog) TopAnime(_ context.Context, page int) (*catalog.AnimeList, error) {
	f.lastPage = page
	if f.err != nil {
		return nil, f.err
	}
	return f.top, nil
}

func (f *fakeCatalog) Search(_ context.Context, params catalog.SearchParams) (*catalog.AnimeList, error) {
	f.lastSearch = params
	if f.err != nil {
		return nil, f.err
	}
	return &catalog.AnimeList{}, nil
}

func (f *fakeCatalog) AnimeByID(_ context.Context, id int) (*catalog.AnimeDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	d, ok := f.details[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return d, nil
}

func (f *fakeCatalog) Genres(context.Context) ([]catalog.Genre, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.genres, nil
}

type testEnv struct {
	handler *Handler
	router  *gin.Engine
	catalog *fakeCatalog
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.ConnectDatabase(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.MigrateDatabase(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	t.Cleanup(func() { db.Close(gdb) })

	tokens, err := auth.NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("token service: %v", err)
	}

	fc := &fakeCatalog{
		top:     &catalog.AnimeList{Data: []catalog.Anime{{MalID: 1, Title: "Cowboy Bebop"}}},
		details: map[int]*catalog.AnimeDetails{1: {Anime: catalog.Anime{MalID: 1, Title: "Cowboy Bebop"}}},
		genres:  []catalog.Genre{{MalID: 1, Name: "Action"}},
	}

	cookies := auth.CookieConfig{}
	h := New(Config{
		DB:      gdb,
		Tokens:  tokens,
		Cookies: cookies,
		Catalog: fc,
		Origins: []string{"http://localhost:3000"},
	})

	unauthorized := gin.H{"error": "Unauthorized"}

	r := gin.New()
	r.Use(middleware.Session(tokens, cookies))
	r.GET("/api/health", h.HealthCheck)
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/logout", h.Logout)
	r.GET("/api/auth/user", RequireUser(gin.H{"message": "Not authenticated"}, h.CurrentUser))
	r.GET("/api/watchlist", RequireUser(unauthorized, h.ListWatchlist))
	r.POST("/api/watchlist", RequireUser(unauthorized, h.UpsertWatchlist))
	r.DELETE("/api/watchlist/:id", RequireUser(unauthorized, h.DeleteWatchlistEntry))
	r.GET("/api/anime", h.TopAnime)
	r.GET("/api/anime/search", h.SearchAnime)
	r.GET("/api/anime/genres", h.AnimeGenres)
	r.GET("/api/anime/:id", RequireUser(unauthorized, h.AnimeDetails))

	return &testEnv{handler: h, router: r, catalog: fc}
}

func (e *testEnv) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response (status %d, body %s)", auth.CookieName, w.Code, w.Body.String())
	return nil
}

// register creates username and returns its session cookie.
func (e *testEnv) register(t *testing.T, username string) *http.Cookie {
	t.Helper()
	body := `{"username":"` + username + `","email":"` + username + `@x.com","password":"secret1","confirmPassword":"secret1"}`
	w := e.do(http.MethodPost, "/api/auth/register", body, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register %s: status %d, body %s", username, w.Code, w.Body.String())
	}
	return sessionCookie(t, w)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}
