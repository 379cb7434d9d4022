package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverParsesResults(t *testing.T) {
	var gotPath, gotKey, gotPage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("api_key")
		gotPage = r.URL.Query().Get("page")
		w.Write([]byte(`{"page":7,"total_pages":40,"results":[
			{"id":603,"title":"The Matrix","release_date":"1999-03-31","popularity":88.5},
			{"id":27205,"title":"Inception"}
		]}`))
	}))
	defer srv.Close()

	c := NewMovieDBClient(srv.URL, srv.URL, "secret", srv.Client())
	movies, err := c.Discover(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "/discover/movie", gotPath)
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "7", gotPage)
	require.Len(t, movies, 2)
	assert.Equal(t, 603, movies[0].ID)
	assert.Equal(t, "The Matrix", movies[0].Title)
}

func TestBackdropPathsSkipsEmptyEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603/images", r.URL.Path)
		w.Write([]byte(`{"backdrops":[{"file_path":"/a.jpg"},{"file_path":""},{"file_path":"/b.jpg"}]}`))
	}))
	defer srv.Close()

	c := NewMovieDBClient(srv.URL, srv.URL, "secret", srv.Client())
	paths, err := c.BackdropPaths(context.Background(), 603)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.jpg", "/b.jpg"}, paths)
}

func TestDownloadBackdropNormalizesPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/a.jpg", r.URL.Path)
		w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	c := NewMovieDBClient(srv.URL, srv.URL, "secret", srv.Client())
	got, err := c.DownloadBackdrop(context.Background(), "a.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), got)
}

func TestNon200ResponsesAreErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewMovieDBClient(srv.URL, srv.URL, "bad-key", srv.Client())
	_, err := c.Discover(context.Background(), 1)
	assert.Error(t, err)
	_, err = c.BackdropPaths(context.Background(), 603)
	assert.Error(t, err)
	_, err = c.DownloadBackdrop(context.Background(), "/a.jpg")
	assert.Error(t, err)
}

func TestDefaultsAppliedWhenUnset(t *testing.T) {
	c := NewMovieDBClient("", "", "key", nil)
	assert.Equal(t, "https://api.themoviedb.org/3", c.baseURL)
	assert.Equal(t, "https://image.tmdb.org/t/p/w1280", c.imageBaseURL)
	assert.NotNil(t, c.httpClient)
}
