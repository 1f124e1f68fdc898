// Package album walks the capture album's fixed year/month/day hierarchy.
//
// Album paths have the shape root/YYYY/MM/DD/filename with zero-padded digit
// segments, so lexicographic ordering of full paths equals chronological
// ordering. The scanner never writes into the album.
package album

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrInvalidWatermark is returned when a watermark path is too short to
// contain its year/month/day components.
var ErrInvalidWatermark = errors.New("invalid path format")

// Scanner discovers album items under a fixed root directory.
type Scanner struct {
	root string
}

// NewScanner returns a Scanner rooted at the album mount point.
func NewScanner(root string) *Scanner {
	return &Scanner{root: root}
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// maxDigitDir returns the lexicographically largest subdirectory of dir whose
// name is exactly width digits. A single linear pass, no sort.
func maxDigitDir(dir string, width int) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	var max string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || len(name) != width || !isAllDigits(name) {
			continue
		}
		if name > max {
			max = name
		}
	}
	return max, max != ""
}

// maxFile returns the lexicographically largest regular file in dir.
func maxFile(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	var max string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name := e.Name(); name > max {
			max = name
		}
	}
	return max, max != ""
}

// digitDirsAtLeast lists the width-digit subdirectory names of dir that
// compare >= min. An empty min matches everything.
func digitDirsAtLeast(dir string, width int, min string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || len(name) != width || !isAllDigits(name) {
			continue
		}
		if name >= min {
			names = append(names, name)
		}
	}
	return names
}

// collectNewer appends every regular file in dir whose full path compares
// strictly greater than watermark.
func collectNewer(dir, watermark string, out *[]string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		full := filepath.Join(dir, e.Name())
		if full > watermark {
			*out = append(*out, full)
		}
	}
}

// LastItem returns the lexicographically maximal item path in the album, or
// a descriptive error naming the first empty level.
func (s *Scanner) LastItem() (string, error) {
	if info, err := os.Stat(s.root); err != nil || !info.IsDir() {
		return "", fmt.Errorf("no album directory: %s", s.root)
	}

	year, ok := maxDigitDir(s.root, 4)
	if !ok {
		return "", fmt.Errorf("no year directories in %s", s.root)
	}
	yearDir := filepath.Join(s.root, year)

	month, ok := maxDigitDir(yearDir, 2)
	if !ok {
		return "", fmt.Errorf("no month directories in %s", yearDir)
	}
	monthDir := filepath.Join(yearDir, month)

	day, ok := maxDigitDir(monthDir, 2)
	if !ok {
		return "", fmt.Errorf("no day directories in %s", monthDir)
	}
	dayDir := filepath.Join(monthDir, day)

	file, ok := maxFile(dayDir)
	if !ok {
		return "", fmt.Errorf("no files in %s", dayDir)
	}
	return filepath.Join(dayDir, file), nil
}

// NewItems returns every album item strictly newer than lastItem, sorted
// ascending. An empty lastItem degenerates to a singleton holding LastItem's
// result, or an empty slice when the album is not ready yet.
func (s *Scanner) NewItems(lastItem string) ([]string, error) {
	if lastItem == "" {
		item, err := s.LastItem()
		if err != nil {
			return nil, nil
		}
		return []string{item}, nil
	}

	minYear, minMonth, minDay, err := s.splitWatermark(lastItem)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(s.root); err != nil {
		return nil, fmt.Errorf("no album directory: %s", s.root)
	}

	var items []string
	for _, year := range digitDirsAtLeast(s.root, 4, minYear) {
		yearDir := filepath.Join(s.root, year)
		if year == minYear {
			s.collectYear(yearDir, lastItem, minMonth, minDay, &items)
		} else {
			s.collectYear(yearDir, lastItem, "", "", &items)
		}
	}

	sort.Strings(items)
	return items, nil
}

// collectYear gathers new files from one year directory. A non-empty
// minMonth restricts descent to months >= minMonth, with minDay applied
// inside the boundary month.
func (s *Scanner) collectYear(yearDir, lastItem, minMonth, minDay string, out *[]string) {
	for _, month := range digitDirsAtLeast(yearDir, 2, minMonth) {
		monthDir := filepath.Join(yearDir, month)
		if minMonth != "" && month == minMonth {
			s.collectMonth(monthDir, lastItem, minDay, out)
		} else {
			s.collectMonth(monthDir, lastItem, "", out)
		}
	}
}

// collectMonth gathers new files from one month directory. Inside the
// boundary day only files strictly newer than the watermark are taken; any
// later day is taken whole.
func (s *Scanner) collectMonth(monthDir, lastItem, minDay string, out *[]string) {
	for _, day := range digitDirsAtLeast(monthDir, 2, minDay) {
		dayDir := filepath.Join(monthDir, day)
		if minDay != "" && day == minDay {
			collectNewer(dayDir, lastItem, out)
		} else {
			collectNewer(dayDir, "", out)
		}
	}
}

// splitWatermark extracts the YYYY, MM and DD segments from a watermark path
// produced by this scanner.
func (s *Scanner) splitWatermark(lastItem string) (year, month, day string, err error) {
	rel := strings.TrimPrefix(lastItem, s.root)
	rel = strings.TrimPrefix(rel, string(filepath.Separator))

	// Expected shape: YYYY/MM/DD/filename.
	if len(rel) < 4 {
		return "", "", "", ErrInvalidWatermark
	}
	year = rel[0:4]
	if len(rel) < 7 {
		return "", "", "", ErrInvalidWatermark
	}
	month = rel[5:7]
	if len(rel) < 10 {
		return "", "", "", ErrInvalidWatermark
	}
	day = rel[8:10]
	return year, month, day, nil
}
