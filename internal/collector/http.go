package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"DrawSentinel/internal/logging"
	"DrawSentinel/internal/model"
)

// HTTPFetcher implements Fetcher against a paginated public JSON endpoint.
type HTTPFetcher struct {
	BaseURL  string
	PageSize int
	MaxPages int
	Client   *http.Client
}

// NewHTTPFetcher creates a new fetcher with optional proxy support.
func NewHTTPFetcher(baseURL string, pageSize, maxPages int, proxyURL string) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPFetcher{
		BaseURL:  baseURL,
		PageSize: pageSize,
		MaxPages: maxPages,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// FetchDraws walks pages from 1 until a page comes back empty or short,
// or MaxPages is reached.
func (f *HTTPFetcher) FetchDraws(ctx context.Context) ([]model.Draw, error) {
	var all []model.Draw
	for page := 1; f.MaxPages <= 0 || page <= f.MaxPages; page++ {
		records, err := f.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			break
		}
		for i, raw := range records {
			var rd rawDraw
			if err := json.Unmarshal(raw, &rd); err != nil {
				logging.Warnf("page %d record %d: skipping malformed draw: %v", page, i, err)
				continue
			}
			d, err := rd.toDraw()
			if err != nil {
				logging.Warnf("page %d record %d: skipping invalid draw: %v", page, i, err)
				continue
			}
			all = append(all, d)
		}
		if f.PageSize > 0 && len(records) < f.PageSize {
			break
		}
	}
	logging.Debugf("http fetcher collected %d draws from %s", len(all), f.BaseURL)
	return all, nil
}

func (f *HTTPFetcher) fetchPage(ctx context.Context, page int) ([]json.RawMessage, error) {
	u, err := url.Parse(f.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	if f.PageSize > 0 {
		q.Set("limit", strconv.Itoa(f.PageSize))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read page %d: %w", page, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page %d: status %d, body: %s", page, resp.StatusCode, string(body))
	}
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", page, err)
	}
	return records, nil
}
