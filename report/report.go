/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package report exports tournament standings and results as an xlsx
// workbook.
package report

import (
	"bytes"
	"fmt"

	"github.com/mikeb26/cubeswiss/swiss"
	"github.com/xuri/excelize/v2"
)

const roundsSheet = "Rounds"

var StandingsHeader = []string{
	"Place",
	"Name",
	"Points",
	"Games",
	"OMW%",
	"GW%",
	"OGW%",
}

var RoundsHeader = []string{
	"Round",
	"Table",
	"Group",
	"Player 1",
	"Player 2",
	"Score 1",
	"Score 2",
	"Draws",
	"Dropout 1",
	"Dropout 2",
}

// GroupSheetName names the standings sheet of a table group.
func GroupSheetName(groupKey string) string {
	return "Group " + groupKey
}

// Workbook builds a workbook with one standings sheet per table group, as of
// round upTo, followed by a sheet listing every match of every round.
func Workbook(title string, groups []swiss.TableGroup, rounds []*swiss.Round,
	upTo int) ([]byte, error) {

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("report.workbook: failed to create header style: %w", err)
	}

	for idx, group := range groups {
		sheet := GroupSheetName(group.Key)
		if idx == 0 {
			err = f.SetSheetName("Sheet1", sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}
		if err != nil {
			return nil, fmt.Errorf("report.workbook: failed to create sheet %v: %w",
				sheet, err)
		}

		var rows [][]any
		if title != "" {
			rows = append(rows, []any{title})
		}
		rows = append(rows, []any{fmt.Sprintf("Standings after round %d", upTo)})
		if err := writeRows(f, sheet, 1, rows); err != nil {
			return nil, err
		}
		headerRow := len(rows) + 2
		if err := writeHeader(f, sheet, headerRow, StandingsHeader,
			headerStyle); err != nil {

			return nil, err
		}

		rows = rows[:0]
		for _, r := range swiss.StandingRows(swiss.ComputeStandings(rounds,
			group, upTo)) {

			rows = append(rows, []any{r.Rank, r.Player, r.Points, r.Record,
				r.OMW, r.GW, r.OGW})
		}
		if err := writeRows(f, sheet, headerRow+1, rows); err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, "B", "B", 28); err != nil {
			return nil, fmt.Errorf("report.workbook: failed to set width: %w", err)
		}
	}
	if len(groups) == 0 {
		if err := f.SetSheetName("Sheet1", roundsSheet); err != nil {
			return nil, fmt.Errorf("report.workbook: %w", err)
		}
	} else if _, err := f.NewSheet(roundsSheet); err != nil {
		return nil, fmt.Errorf("report.workbook: failed to create sheet %v: %w",
			roundsSheet, err)
	}

	if err := writeHeader(f, roundsSheet, 1, RoundsHeader, headerStyle); err != nil {
		return nil, err
	}
	var rows [][]any
	for _, r := range rounds {
		for _, m := range r.Matches {
			rows = append(rows, []any{r.Number, m.Table, m.GroupKey,
				string(m.PlayerOne), m.PlayerTwo.String(), intOrBlank(m.Score1),
				intOrBlank(m.Score2), intOrBlank(m.Draws), m.Dropout1,
				m.Dropout2})
		}
	}
	if err := writeRows(f, roundsSheet, 2, rows); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("report.workbook: failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, row int, headers []string,
	style int) error {

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("report.header: failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("report.header: failed to set cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("report.header: failed to set style: %w", err)
		}
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, firstRow int, rows [][]any) error {
	for idx, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, firstRow+idx)
		if err != nil {
			return fmt.Errorf("report.rows: failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("report.rows: failed to set row %s: %w", cell, err)
		}
	}
	return nil
}

func intOrBlank(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
