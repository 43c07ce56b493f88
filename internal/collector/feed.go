package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/mmcdole/gofeed"

	"DrawSentinel/internal/logging"
	"DrawSentinel/internal/model"
)

// FeedFetcher reads draw results from an RSS or Atom feed.
type FeedFetcher struct {
	URL    string
	Client *http.Client
}

// NewFeedFetcher creates a feed fetcher with optional proxy support.
func NewFeedFetcher(feedURL, proxyURL string) *FeedFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &FeedFetcher{
		URL:    feedURL,
		Client: &http.Client{Timeout: 30 * time.Second, Transport: transport},
	}
}

func (f *FeedFetcher) Name() string { return "feed" }

func (f *FeedFetcher) FetchDraws(ctx context.Context) ([]model.Draw, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: status %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	draws := make([]model.Draw, 0, len(feed.Items))
	for _, it := range feed.Items {
		var pub time.Time
		if it.PublishedParsed != nil {
			pub = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			pub = *it.UpdatedParsed
		} else {
			logging.Warnf("feed item %q has no date, skipping", it.Title)
			continue
		}
		main, bonus, ok := extractNumbers(it.Title)
		if !ok {
			main, bonus, ok = extractNumbers(it.Description)
		}
		if !ok {
			logging.Warnf("feed item %q: no result numbers found, skipping", it.Title)
			continue
		}
		d := model.Draw{
			Date:  time.Date(pub.Year(), pub.Month(), pub.Day(), 0, 0, 0, 0, time.UTC),
			Main:  main,
			Bonus: bonus,
		}
		if err := d.Validate(); err != nil {
			logging.Warnf("feed item %q: %v", it.Title, err)
			continue
		}
		draws = append(draws, d.Normalize())
	}
	return draws, nil
}

// sequencePattern matches runs of one- or two-digit numbers joined by dashes,
// commas or spaces, e.g. "01-12-23-34-45".
var sequencePattern = regexp.MustCompile(`\b\d{1,2}(?:[\s,\-]+\d{1,2}\b)+`)

var digitsPattern = regexp.MustCompile(`\d{1,2}`)

// extractNumbers finds the first run of five main numbers and the next run
// of two bonus numbers. A single run of seven is split five and two.
func extractNumbers(text string) (main, bonus []int, ok bool) {
	mainPick, bonusPick := model.MainPool.Pick, model.BonusPool.Pick
	for _, seq := range sequencePattern.FindAllString(text, -1) {
		var nums []int
		for _, s := range digitsPattern.FindAllString(seq, -1) {
			n, _ := strconv.Atoi(s)
			nums = append(nums, n)
		}
		switch {
		case main == nil && len(nums) == mainPick+bonusPick:
			return nums[:mainPick], nums[mainPick:], true
		case main == nil && len(nums) == mainPick:
			main = nums
		case main != nil && len(nums) == bonusPick:
			return main, nums, true
		}
	}
	return nil, nil, false
}
