package collector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"DrawSentinel/internal/model"
)

// ErrNoDraws is returned when no source yields a single valid draw.
var ErrNoDraws = errors.New("no draws available")

// Fetcher defines the interface for fetching draw history.
type Fetcher interface {
	FetchDraws(ctx context.Context) ([]model.Draw, error)
	Name() string
}

// rawDraw is the loose JSON shape accepted from remote and file sources.
// Numbers may arrive as JSON numbers, numeric strings or one delimited string.
type rawDraw struct {
	Date    string   `json:"date"`
	Numbers flexInts `json:"numbers"`
	Main    flexInts `json:"main"`
	Stars   flexInts `json:"stars"`
	Bonus   flexInts `json:"bonus"`
}

func (r rawDraw) toDraw() (model.Draw, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return model.Draw{}, err
	}
	main := r.Numbers
	if len(main) == 0 {
		main = r.Main
	}
	bonus := r.Stars
	if len(bonus) == 0 {
		bonus = r.Bonus
	}
	d := model.Draw{Date: date, Main: main, Bonus: bonus}
	if err := d.Validate(); err != nil {
		return model.Draw{}, err
	}
	return d.Normalize(), nil
}

type flexInts []int

func (f *flexInts) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		out, err := splitInts(s)
		if err != nil {
			return err
		}
		*f = out
		return nil
	}
	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make([]int, 0, len(items))
	for _, it := range items {
		n, err := toInt(it)
		if err != nil {
			return err
		}
		out = append(out, n)
	}
	*f = out
	return nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("non-integer number %v", n)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	default:
		return 0, fmt.Errorf("unexpected number type %T", v)
	}
}

// splitInts parses "1, 2, 3" / "1-2-3" / "1 2 3".
func splitInts(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '-' || r == ' ' || r == ';' || r == '|'
	})
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("parse number %q: %w", f, err)
		}
		out = append(out, n)
	}
	return out, nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2006/01/02",
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
