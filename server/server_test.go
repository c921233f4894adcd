package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filmoteca/config"
	"filmoteca/imdb"
	"filmoteca/importer"
	"filmoteca/store"
)

type testEnv struct {
	api          *httptest.Server
	store        *store.Store
	upstreamHits *atomic.Int64
}

// newTestEnv starts the API against a fresh store and a fake catalog
// upstream.
func newTestEnv(t *testing.T, upstream http.Handler) *testEnv {
	t.Helper()

	hits := &atomic.Int64{}
	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if upstream == nil {
			http.NotFound(w, r)
			return
		}
		upstream.ServeHTTP(w, r)
	}))
	t.Cleanup(fake.Close)

	st, err := store.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	catalog := imdb.NewClient(zerolog.Nop(), imdb.WithBaseURL(fake.URL))
	imp := importer.New(st, catalog, zerolog.Nop(), 2)

	srv := New(config.ServerConfig{Addr: ":0"}, st, catalog, imp, zerolog.Nop())
	api := httptest.NewServer(srv.routes())
	t.Cleanup(api.Close)

	return &testEnv{api: api, store: st, upstreamHits: hits}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.api.URL+path, buf)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]string{"status": "ok"}, decode[map[string]string](t, body))
}

func TestMovieCRUD(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodPost, "/movies", map[string]any{
		"title": "Blade Runner",
		"year":  1982,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[store.Movie](t, body)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.CreatedAt)

	resp, body = env.do(t, http.MethodGet, "/movies", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]store.Movie](t, body), 1)

	resp, body = env.do(t, http.MethodGet, "/movies/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decode[store.Movie](t, body))

	resp, body = env.do(t, http.MethodPut, "/movies/"+created.ID, map[string]any{
		"plot": "a replicant hunt",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[store.Movie](t, body)
	assert.Equal(t, "a replicant hunt", updated.Plot)
	assert.Equal(t, created.Title, updated.Title)

	resp, _ = env.do(t, http.MethodDelete, "/movies/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/movies/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodDelete, "/movies/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateMovieValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, _ := env.do(t, http.MethodPost, "/movies", map[string]any{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, env.api.URL+"/movies", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	raw, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestListMembership(t *testing.T) {
	env := newTestEnv(t, nil)

	_, body := env.do(t, http.MethodPost, "/movies", map[string]any{"title": "Blade Runner"})
	movie := decode[store.Movie](t, body)

	resp, body := env.do(t, http.MethodPost, "/lists", map[string]any{"name": "favorites"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	list := decode[store.CustomList](t, body)

	resp, body = env.do(t, http.MethodPost, "/lists/"+list.ID+"/movies/"+movie.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{movie.ID}, decode[store.CustomList](t, body).MovieIDs)

	// Adding again is a no-op
	resp, body = env.do(t, http.MethodPost, "/lists/"+list.ID+"/movies/"+movie.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{movie.ID}, decode[store.CustomList](t, body).MovieIDs)

	resp, body = env.do(t, http.MethodGet, "/lists/"+list.ID+"/movies", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	movies := decode[[]store.Movie](t, body)
	require.Len(t, movies, 1)
	assert.Equal(t, movie.ID, movies[0].ID)

	resp, _ = env.do(t, http.MethodPost, "/lists/"+list.ID+"/movies/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Removing an id that was never added still succeeds
	resp, body = env.do(t, http.MethodDelete, "/lists/"+list.ID+"/movies/never-added", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{movie.ID}, decode[store.CustomList](t, body).MovieIDs)

	resp, body = env.do(t, http.MethodDelete, "/lists/"+list.ID+"/movies/"+movie.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[store.CustomList](t, body).MovieIDs)

	resp, _ = env.do(t, http.MethodDelete, "/lists/nope/movies/"+movie.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSearchQueryValidation(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"titles": [{"id": "tt1", "primaryTitle": "ab"}]}`)
	}))

	for _, query := range []string{"", "a", "%20%20a%20"} {
		resp, _ := env.do(t, http.MethodGet, "/imdb/search?query="+query, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
	assert.EqualValues(t, 0, env.upstreamHits.Load(), "rejected queries must not reach the catalog")

	resp, body := env.do(t, http.MethodGet, "/imdb/search?query=ab", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]imdb.SearchResult](t, body), 1)
	assert.EqualValues(t, 1, env.upstreamHits.Load())
}

func TestSearchUpstreamFailure(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	resp, body := env.do(t, http.MethodGet, "/imdb/search?query=blade", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, decode[map[string]string](t, body)["error"], "catalog request failed")
}

func TestImport(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/titles/tt1":
			fmt.Fprint(w, `{"id": "tt1", "primaryTitle": "Blade Runner", "startYear": 1982}`)
		default:
			http.NotFound(w, r)
		}
	}))

	resp, body := env.do(t, http.MethodPost, "/imdb/import", map[string]any{
		"imdb_ids": []string{"tt1", "tt404"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	imported := decode[[]store.Movie](t, body)
	require.Len(t, imported, 1)
	assert.Equal(t, "Blade Runner", imported[0].Title)
	assert.Equal(t, "tt1", imported[0].IMDbID)

	// Importing again returns the existing record instead of a duplicate
	resp, body = env.do(t, http.MethodPost, "/imdb/import", map[string]any{
		"imdb_ids": []string{"tt1"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	again := decode[[]store.Movie](t, body)
	require.Len(t, again, 1)
	assert.Equal(t, imported[0].ID, again[0].ID)
	assert.Len(t, env.store.Movies(), 1)

	resp, _ = env.do(t, http.MethodPost, "/imdb/import", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImages(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"images": [{"url": "a.jpg"}, {"url": "b.jpg"}]}`)
	}))

	resp, body := env.do(t, http.MethodGet, "/imdb/images/tt1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decode[struct {
		IMDbID string       `json:"imdb_id"`
		Images []imdb.Image `json:"images"`
		Total  int          `json:"total"`
	}](t, body)

	assert.Equal(t, "tt1", payload.IMDbID)
	assert.Equal(t, 2, payload.Total)
	require.Len(t, payload.Images, 2)
	assert.Equal(t, "a.jpg", payload.Images[0].URL)
}

func TestVideos(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"videos": [{"id": "vi1", "name": "Trailer"}]}`)
	}))

	resp, body := env.do(t, http.MethodGet, "/imdb/videos/tt1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decode[struct {
		IMDbID string       `json:"imdb_id"`
		Videos []imdb.Video `json:"videos"`
		Total  int          `json:"total"`
	}](t, body)

	assert.Equal(t, 1, payload.Total)
	require.Len(t, payload.Videos, 1)
	assert.Equal(t, "https://www.imdb.com/videoembed/vi1", payload.Videos[0].EmbedURL)
}

func TestRateLimit(t *testing.T) {
	st, err := store.Open(t.TempDir(), zerolog.Nop())
	require.NoError(t, err)

	catalog := imdb.NewClient(zerolog.Nop())
	imp := importer.New(st, catalog, zerolog.Nop(), 1)

	srv := New(config.ServerConfig{Addr: ":0", RateLimitRPS: 1, RateLimitBurst: 1}, st, catalog, imp, zerolog.Nop())
	api := httptest.NewServer(srv.routes())
	t.Cleanup(api.Close)

	resp, err := http.Get(api.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(api.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, body := env.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, decode[map[string]string](t, body)["error"], "resource not found")
}
