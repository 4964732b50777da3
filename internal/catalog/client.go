package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.jikan.moe/v4"

var ErrNotFound = errors.New("anime not found")

// Client is a thin pass-through to the Jikan API. It does not retry or cache.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type SearchParams struct {
	Query  string
	Genres []int
	Page   int
	Limit  int
}

func (c *Client) TopAnime(ctx context.Context, page int) (*AnimeList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}

	var list AnimeList
	if err := c.get(ctx, "/top/anime", q, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) Search(ctx context.Context, params SearchParams) (*AnimeList, error) {
	q := url.Values{}
	if params.Query != "" {
		q.Set("q", params.Query)
	}
	if len(params.Genres) > 0 {
		ids := make([]string, len(params.Genres))
		for i, id := range params.Genres {
			ids[i] = strconv.Itoa(id)
		}
		q.Set("genres", strings.Join(ids, ","))
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}

	var list AnimeList
	if err := c.get(ctx, "/anime", q, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) AnimeByID(ctx context.Context, id int) (*AnimeDetails, error) {
	var res struct {
		Data *AnimeDetails `json:"data"`
	}
	if err := c.get(ctx, fmt.Sprintf("/anime/%d/full", id), nil, &res); err != nil {
		return nil, err
	}
	if res.Data == nil {
		return nil, ErrNotFound
	}
	return res.Data, nil
}

func (c *Client) Genres(ctx context.Context) ([]Genre, error) {
	var res struct {
		Data []Genre `json:"data"`
	}
	if err := c.get(ctx, "/genres/anime", nil, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("jikan request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jikan returned %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode jikan response: %w", err)
	}

	return nil
}
