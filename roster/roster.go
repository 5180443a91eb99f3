/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package roster reads tournament rosters from plain text, JSON or an HTML
// registration page into swiss.TableSpec values.
package roster

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mikeb26/cubeswiss/internal"
	"github.com/mikeb26/cubeswiss/swiss"
)

// FitSize returns the smallest allowed table size seating n players, or 0.
func FitSize(n int) int {
	for _, s := range swiss.AllowedTableSizes {
		if s >= n {
			return s
		}
	}
	return 0
}

// ParseText reads one player name per line. A line "table" or "table <size>"
// starts a new table; text after '#' is ignored. Names before any table line
// form the first table. Tables without a size get the smallest that fits.
func ParseText(r io.Reader) ([]swiss.TableSpec, error) {
	var tables []swiss.TableSpec
	cur := -1
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if strings.EqualFold(fields[0], "table") && len(fields) <= 2 {
			spec := swiss.TableSpec{}
			if len(fields) == 2 {
				size, err := strconv.Atoi(fields[1])
				if err != nil {
					return nil, fmt.Errorf("roster.parsetext: line %d: invalid table size %q",
						lineNum, fields[1])
				}
				spec.Size = size
			}
			tables = append(tables, spec)
			cur = len(tables) - 1
			continue
		}
		if cur < 0 {
			tables = append(tables, swiss.TableSpec{})
			cur = 0
		}
		tables[cur].Players = append(tables[cur].Players, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("roster.parsetext: %w", err)
	}

	return fillSizes(tables), nil
}

// ParseJSON reads a JSON array of {"table_size": n, "players": [...]}.
func ParseJSON(r io.Reader) ([]swiss.TableSpec, error) {
	var tables []swiss.TableSpec
	if err := json.NewDecoder(r).Decode(&tables); err != nil {
		return nil, fmt.Errorf("roster.parsejson: %w", err)
	}
	return fillSizes(tables), nil
}

// ParseHTML reads the first table whose header has a "Name" column. An
// optional "Table" column groups players (first appearance order) and an
// optional "Size" column sets the table size.
func ParseHTML(r io.Reader) ([]swiss.TableSpec, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("roster.parsehtml: %w", err)
	}
	return ParseDocument(doc)
}

func ParseDocument(doc *goquery.Document) ([]swiss.TableSpec, error) {
	var tables []swiss.TableSpec
	found := false
	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		nameCol, tableCol, sizeCol := -1, -1, -1
		tbl.Find("tr").First().Find("th, td").Each(func(idx int,
			cell *goquery.Selection) {

			switch strings.ToLower(strings.TrimSpace(cell.Text())) {
			case "name", "player":
				nameCol = idx
			case "table", "group":
				tableCol = idx
			case "size", "table size":
				sizeCol = idx
			}
		})
		if nameCol < 0 {
			return true
		}
		found = true

		byLabel := make(map[string]int)
		tbl.Find("tr").Slice(1, goquery.ToEnd).Each(func(_ int,
			row *goquery.Selection) {

			cells := row.Find("td")
			if cells.Length() <= nameCol {
				return
			}
			name := strings.TrimSpace(cells.Eq(nameCol).Text())
			if name == "" {
				return
			}
			label := ""
			if tableCol >= 0 {
				label = strings.TrimSpace(cells.Eq(tableCol).Text())
			}
			idx, ok := byLabel[label]
			if !ok {
				tables = append(tables, swiss.TableSpec{})
				idx = len(tables) - 1
				byLabel[label] = idx
			}
			if sizeCol >= 0 && tables[idx].Size == 0 {
				if size, err := strconv.Atoi(strings.TrimSpace(
					cells.Eq(sizeCol).Text())); err == nil {

					tables[idx].Size = size
				}
			}
			tables[idx].Players = append(tables[idx].Players, name)
		})
		return false
	})
	if !found {
		return nil, fmt.Errorf("roster.parsedocument: no table with a Name column")
	}

	return fillSizes(tables), nil
}

// Fetch downloads and parses an HTML registration page.
func Fetch(ctx context.Context, client *http.Client,
	url string) ([]swiss.TableSpec, error) {

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("roster.fetch: unable to fetch roster (new): %w", err)
	}
	req.Header.Set("User-Agent", internal.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("roster.fetch: unable to fetch roster (do): %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("roster.fetch: status %d fetching %s",
			resp.StatusCode, url)
	}

	return ParseHTML(resp.Body)
}

// ReadFile parses a roster file, choosing the format by extension.
func ReadFile(path string) ([]swiss.TableSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("roster.readfile: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(f)
	case ".html", ".htm":
		return ParseHTML(f)
	default:
		return ParseText(f)
	}
}

func fillSizes(tables []swiss.TableSpec) []swiss.TableSpec {
	for idx := range tables {
		if tables[idx].Size == 0 {
			tables[idx].Size = FitSize(len(tables[idx].Players))
		}
	}
	return tables
}
