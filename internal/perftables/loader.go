package perftables

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/avicola-labs/avisearch-cli/internal/core/domain"
	"github.com/avicola-labs/avisearch-cli/internal/logger"
)

// manifest declares the exact table file for one line, overriding the
// directory scan.
type manifest struct {
	Line string `json:"line"`
	CSV  string `json:"csv"`
}

// formatPreference ranks candidate files when the scan finds several
// for the same line. Lower is better.
var formatPreference = map[string]int{
	".parquet": 0,
	".feather": 1,
	".csv":     2,
}

// ageColumns are the header names an age column may carry. The first
// match wins; values are parsed by leading integer so "21 d" and
// "jour 21" style cells still resolve.
var ageColumns = []string{
	"age_days", "age (days)", "age (jours)", "age",
	"day", "days", "jour", "jours", "âge",
}

var leadingInt = regexp.MustCompile(`(\d+)`)

// loadLine resolves and decodes the table for one canonicalized line
// slug. A missing table returns (nil, nil): a line without published
// targets is an expected state.
func loadLine(dir, slug string) ([]domain.PerformanceRecord, error) {
	path, err := resolve(dir, slug)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, nil
	}

	records, err := decodeCSV(path, slug)
	if err != nil {
		return nil, fmt.Errorf("load table for %s: %w", slug, err)
	}

	logger.Debug("Loaded %d performance rows for %s from %s", len(records), slug, path)
	return records, nil
}

// resolve finds the table file for slug: manifest first, then a
// directory scan over filenames containing the slug.
func resolve(dir, slug string) (string, error) {
	manifestPath := filepath.Join(dir, slug+"_perf_targets.manifest.json")
	if data, err := os.ReadFile(manifestPath); err == nil {
		var m manifest
		if err := json.Unmarshal(data, &m); err != nil {
			return "", fmt.Errorf("parse manifest %s: %w", manifestPath, err)
		}
		if m.CSV == "" {
			return "", fmt.Errorf("manifest %s names no table file", manifestPath)
		}
		return filepath.Join(dir, m.CSV), nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("scan tables dir: %w", err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if _, known := formatPreference[filepath.Ext(name)]; !known {
			continue
		}
		if strings.Contains(CanonLine(strings.TrimSuffix(name, filepath.Ext(name))), slug) {
			candidates = append(candidates, entry.Name())
		}
	}
	if len(candidates) == 0 {
		return "", nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi := formatPreference[filepath.Ext(strings.ToLower(candidates[i]))]
		pj := formatPreference[filepath.Ext(strings.ToLower(candidates[j]))]
		if pi != pj {
			return pi < pj
		}
		return candidates[i] < candidates[j]
	})

	for _, name := range candidates {
		if strings.EqualFold(filepath.Ext(name), ".csv") {
			return filepath.Join(dir, name), nil
		}
		logger.Warn("Preferred table %s for %s is not decodable, trying next candidate", name, slug)
	}
	return "", nil
}

// decodeCSV reads one table file into records, canonicalizing sex,
// unit and line per row and synthesizing age_days from whatever age
// column the table carries.
func decodeCSV(path, slug string) ([]domain.PerformanceRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	cols := columnIndex(rows[0])
	ageCol := findAgeColumn(rows[0])
	if ageCol < 0 {
		// Keep the rows but flag them: every lookup will hit age 0.
		logger.Warn("Table %s has no recognizable age column, all rows keyed at age 0 (degraded)", path)
	}

	records := make([]domain.PerformanceRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := domain.PerformanceRecord{
			Line: slug,
			Sex:  domain.SexAsHatched,
			Unit: domain.UnitMetric,
		}

		if v := cell(row, cols["line"]); v != "" {
			rec.Line = CanonLine(v)
		}
		if v := cell(row, cols["sex"]); v != "" {
			rec.Sex = CanonSex(v)
		}
		if v := cell(row, cols["unit"]); v != "" {
			rec.Unit = CanonUnit(v)
		}
		if ageCol >= 0 {
			rec.AgeDays = parseAge(cell(row, ageCol))
		}
		rec.WeightG = parseFloat(cell(row, cols["weight_g"]))
		rec.WeightLb = parseFloat(cell(row, cols["weight_lb"]))
		rec.DailyGainG = parseFloat(cell(row, cols["daily_gain_g"]))
		rec.CumFCR = parseFloat(cell(row, cols["cum_fcr"]))
		rec.SourceDoc = cell(row, cols["source_doc"])
		if v := cell(row, cols["page"]); v != "" {
			rec.Page, _ = strconv.Atoi(v)
		}

		records = append(records, rec)
	}
	return records, nil
}

// columnIndex maps lowercased header names to positions. Unknown
// headers map to -1 via cell's bounds check.
func columnIndex(header []string) map[string]int {
	cols := map[string]int{
		"line": -1, "sex": -1, "unit": -1,
		"weight_g": -1, "weight_lb": -1,
		"daily_gain_g": -1, "cum_fcr": -1,
		"source_doc": -1, "page": -1,
	}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, wanted := cols[key]; wanted {
			cols[key] = i
		}
	}
	return cols
}

func findAgeColumn(header []string) int {
	for _, want := range ageColumns {
		for i, name := range header {
			if strings.ToLower(strings.TrimSpace(name)) == want {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseAge extracts the first integer from an age cell, so "21",
// "21 d" and "jour 21" all resolve to 21.
func parseAge(raw string) int {
	m := leadingInt.FindString(raw)
	if m == "" {
		return 0
	}
	n, _ := strconv.Atoi(m)
	return n
}

func parseFloat(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}
