package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MovieDBClient fetches movies and backdrop art from a TMDB-compatible
// catalog API (needs API key env MOVIEDB_API_KEY).
type MovieDBClient struct {
	baseURL      string
	imageBaseURL string
	apiKey       string
	httpClient   *http.Client
}

func NewMovieDBClient(baseURL, imageBaseURL, apiKey string, httpClient *http.Client) *MovieDBClient {
	if baseURL == "" {
		baseURL = "https://api.themoviedb.org/3"
	}
	if imageBaseURL == "" {
		imageBaseURL = "https://image.tmdb.org/t/p/w1280"
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &MovieDBClient{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		imageBaseURL: strings.TrimSuffix(imageBaseURL, "/"),
		apiKey:       apiKey,
		httpClient:   httpClient,
	}
}

// Movie is one catalog entry from the discover endpoint.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Popularity  float64 `json:"popularity"`
}

type discoverResponse struct {
	Page       int     `json:"page"`
	TotalPages int     `json:"total_pages"`
	Results    []Movie `json:"results"`
}

type imagesResponse struct {
	Backdrops []struct {
		FilePath string `json:"file_path"`
	} `json:"backdrops"`
}

// Discover lists popular movies for the given catalog page.
func (c *MovieDBClient) Discover(ctx context.Context, page int) ([]Movie, error) {
	values := url.Values{}
	values.Set("api_key", c.apiKey)
	values.Set("sort_by", "popularity.desc")
	values.Set("page", fmt.Sprint(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/discover/movie?%s", c.baseURL, values.Encode()), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("moviedb discover non-200: %d", resp.StatusCode)
	}
	var payload discoverResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// BackdropPaths returns the backdrop file paths available for a movie.
func (c *MovieDBClient) BackdropPaths(ctx context.Context, movieID int) ([]string, error) {
	values := url.Values{}
	values.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/movie/%d/images?%s", c.baseURL, movieID, values.Encode()), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("moviedb images non-200: %d", resp.StatusCode)
	}
	var payload imagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(payload.Backdrops))
	for _, b := range payload.Backdrops {
		if b.FilePath != "" {
			paths = append(paths, b.FilePath)
		}
	}
	return paths, nil
}

// DownloadBackdrop fetches one backdrop image as raw bytes.
func (c *MovieDBClient) DownloadBackdrop(ctx context.Context, path string) ([]byte, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.imageBaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("moviedb backdrop non-200: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
