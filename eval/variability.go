// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package eval

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var trailingNumberRe = regexp.MustCompile(`^(.*?)-(\d+)$`)

// compareNatural orders instance ids by prefix, then by the trailing integer
// (django__django-7 before django__django-53). Ids without a trailing number
// sort after numbered ones with the same prefix.
func compareNatural(a, b string) int {
	ma := trailingNumberRe.FindStringSubmatch(a)
	mb := trailingNumberRe.FindStringSubmatch(b)

	prefixA, numA := a, -1
	if ma != nil {
		prefixA = ma[1]
		numA, _ = strconv.Atoi(ma[2])
	}
	prefixB, numB := b, -1
	if mb != nil {
		prefixB = mb[1]
		numB, _ = strconv.Atoi(mb[2])
	}

	if c := strings.Compare(prefixA, prefixB); c != 0 {
		return c
	}
	switch {
	case numA == numB:
		return 0
	case numA == -1:
		return 1
	case numB == -1:
		return -1
	case numA < numB:
		return -1
	default:
		return 1
	}
}

// ParseLocalizedCSV reads a localized-bug CSV back into per-column id sets.
// Blank cells are ignored; header matching tolerates surrounding whitespace.
func ParseLocalizedCSV(path string) (map[string]map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadCSV, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s: empty file", ErrBadCSV, path)
	}

	// Map normalized header names to their column index.
	colIndex := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		colIndex[strings.TrimSpace(header)] = i
	}

	perColumn := make(map[string]map[string]struct{}, len(csvColumns))
	for _, column := range csvColumns {
		perColumn[column] = make(map[string]struct{})
		idx, ok := colIndex[column]
		if !ok {
			continue
		}
		for _, row := range rows[1:] {
			if idx >= len(row) {
				continue
			}
			if cell := strings.TrimSpace(row[idx]); cell != "" {
				perColumn[column][cell] = struct{}{}
			}
		}
	}
	return perColumn, nil
}

// Combine computes the per-column union and intersection across trial files.
func Combine(files []map[string]map[string]struct{}) (union, intersection map[string]map[string]struct{}) {
	union = make(map[string]map[string]struct{}, len(csvColumns))
	intersection = make(map[string]map[string]struct{}, len(csvColumns))
	for _, column := range csvColumns {
		union[column] = make(map[string]struct{})
		intersection[column] = make(map[string]struct{})
	}

	for i, data := range files {
		for _, column := range csvColumns {
			for id := range data[column] {
				union[column][id] = struct{}{}
			}
			if i == 0 {
				// Seed intersection from the first file.
				for id := range data[column] {
					intersection[column][id] = struct{}{}
				}
				continue
			}
			for id := range intersection[column] {
				if _, ok := data[column][id]; !ok {
					delete(intersection[column], id)
				}
			}
		}
	}
	return union, intersection
}

// WriteWideCSV writes per-column id sets as a padded wide CSV, columns ordered
// as in the localized-bug files and ids in natural order.
func WriteWideCSV(path string, columns map[string]map[string]struct{}) error {
	sorted := make(map[string][]string, len(csvColumns))
	maxLen := 0
	for _, column := range csvColumns {
		ids := make([]string, 0, len(columns[column]))
		for id := range columns[column] {
			ids = append(ids, id)
		}
		slices.SortFunc(ids, compareNatural)
		sorted[column] = ids
		if len(ids) > maxLen {
			maxLen = len(ids)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(csvColumns); err != nil {
		return err
	}
	for i := 0; i < maxLen; i++ {
		row := make([]string, len(csvColumns))
		for col, column := range csvColumns {
			if i < len(sorted[column]) {
				row[col] = sorted[column][i]
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
