package collector

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"DrawSentinel/internal/logging"
	"DrawSentinel/internal/model"
)

// bundledCSV is a sample history shipped with the binary so the tool works offline.
//
//go:embed bundled/draws.csv
var bundledCSV []byte

// FileFetcher loads draws from a local CSV or JSON file. An empty Path loads
// the bundled dataset.
type FileFetcher struct {
	Path string
}

func (f *FileFetcher) Name() string {
	if f.Path == "" {
		return "bundled"
	}
	return "file"
}

func (f *FileFetcher) FetchDraws(_ context.Context) ([]model.Draw, error) {
	if f.Path == "" {
		return ParseCSV(bytes.NewReader(bundledCSV))
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	if strings.EqualFold(filepath.Ext(f.Path), ".json") {
		return ParseJSON(data)
	}
	return ParseCSV(bytes.NewReader(data))
}

// ParseCSV reads rows of date,n1..n5,b1,b2. A header row is optional and
// malformed rows are skipped.
func ParseCSV(r io.Reader) ([]model.Draw, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var draws []model.Draw
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", row, err)
		}
		d, err := csvDraw(rec)
		if err != nil {
			if row == 1 {
				continue
			}
			logging.Warnf("csv row %d: skipping: %v", row, err)
			continue
		}
		draws = append(draws, d)
	}
	return draws, nil
}

func csvDraw(rec []string) (model.Draw, error) {
	if len(rec) < 1+model.MainPool.Pick+model.BonusPool.Pick {
		return model.Draw{}, fmt.Errorf("expected %d fields, got %d", 1+model.MainPool.Pick+model.BonusPool.Pick, len(rec))
	}
	date, err := parseDate(rec[0])
	if err != nil {
		return model.Draw{}, err
	}
	nums := make([]int, 0, len(rec)-1)
	for _, field := range rec[1 : 1+model.MainPool.Pick+model.BonusPool.Pick] {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return model.Draw{}, fmt.Errorf("parse number %q: %w", field, err)
		}
		nums = append(nums, n)
	}
	d := model.Draw{Date: date, Main: nums[:model.MainPool.Pick], Bonus: nums[model.MainPool.Pick:]}
	if err := d.Validate(); err != nil {
		return model.Draw{}, err
	}
	return d.Normalize(), nil
}

// ParseJSON reads a JSON array of draws in the same loose shape the HTTP
// source accepts.
func ParseJSON(data []byte) ([]model.Draw, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode draws: %w", err)
	}
	draws := make([]model.Draw, 0, len(records))
	for i, raw := range records {
		var rd rawDraw
		if err := json.Unmarshal(raw, &rd); err != nil {
			logging.Warnf("record %d: skipping malformed draw: %v", i, err)
			continue
		}
		d, err := rd.toDraw()
		if err != nil {
			logging.Warnf("record %d: skipping invalid draw: %v", i, err)
			continue
		}
		draws = append(draws, d)
	}
	return draws, nil
}
