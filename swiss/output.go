/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"sort"
	"strings"
)

// StandingRow is the display form of a Standing.
type StandingRow struct {
	Rank   int    `json:"rank"`
	Player string `json:"player"`
	Points int    `json:"points"`
	Record string `json:"record"`
	OMW    string `json:"omw"`
	GW     string `json:"gw"`
	OGW    string `json:"ogw"`
}

// FormatRecord renders game totals as "W - L", or "W - L - D" once a game
// has been drawn.
func FormatRecord(s Standing) string {
	if s.GameDraws == 0 {
		return fmt.Sprintf("%d - %d", s.GameWins, s.GameLosses)
	}
	return fmt.Sprintf("%d - %d - %d", s.GameWins, s.GameLosses, s.GameDraws)
}

func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func StandingRows(standings []Standing) []StandingRow {
	rows := make([]StandingRow, 0, len(standings))
	for idx, s := range standings {
		rows = append(rows, StandingRow{
			Rank:   idx + 1,
			Player: string(s.Player),
			Points: s.Points,
			Record: FormatRecord(s),
			OMW:    FormatPercent(s.OMW),
			GW:     FormatPercent(s.GW),
			OGW:    FormatPercent(s.OGW),
		})
	}
	return rows
}

// BuildStandingsOutput formats each group's standings after round upTo into
// aligned text tables, groups in arena order.
func BuildStandingsOutput(groups []TableGroup, rounds []*Round, upTo int) string {
	if upTo < 1 || len(rounds) == 0 {
		return "Cannot determine standings before the first round\n"
	}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Standings after Round %v:\n\n", upTo))

	for _, group := range groups {
		rows := StandingRows(ComputeStandings(rounds, group, upTo))

		headers := []string{"Place", "Name", "Pts", "Games", "OMW%", "GW%",
			"OGW%"}
		cells := make([][]string, 0, len(rows))
		for _, r := range rows {
			cells = append(cells, []string{fmt.Sprintf("%v.", r.Rank),
				r.Player, fmt.Sprint(r.Points), r.Record, r.OMW, r.GW, r.OGW})
		}

		if len(groups) > 1 {
			sb.WriteString(fmt.Sprintf("Group %s\n", group.Key))
		}
		writeAligned(&sb, headers, cells)
		sb.WriteString("\n")
	}

	return sb.String()
}

// BuildPairingsOutput formats a round's matches grouped by table group.
func BuildPairingsOutput(groups []TableGroup, r *Round) string {
	if r == nil || len(r.Matches) == 0 {
		return "No pairings posted\n"
	}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Round %v Pairings:\n\n", r.Number))

	for _, group := range groups {
		list := r.GroupMatches(group.Key)
		if len(list) == 0 {
			continue
		}
		sort.Slice(list, func(i, j int) bool {
			return list[i].Table < list[j].Table
		})

		headers := []string{"Table", "Player 1", "Player 2", "Result"}
		cells := make([][]string, 0, len(list))
		for _, m := range list {
			p1 := string(m.PlayerOne)
			if m.Dropout1 {
				p1 += " (drop)"
			}
			p2 := m.PlayerTwo.String()
			if m.Dropout2 {
				p2 += " (drop)"
			}
			cells = append(cells, []string{fmt.Sprintf("%d.", m.Table), p1, p2,
				resultString(m)})
		}

		if len(groups) > 1 {
			sb.WriteString(fmt.Sprintf("Group %s\n", group.Key))
		}
		writeAligned(&sb, headers, cells)
		sb.WriteString("\n")
	}

	return sb.String()
}

func resultString(m Match) string {
	if !m.HasScores() {
		return "-"
	}
	if m.DrawCount() == 0 {
		return fmt.Sprintf("%d-%d", *m.Score1, *m.Score2)
	}
	return fmt.Sprintf("%d-%d-%d", *m.Score1, *m.Score2, m.DrawCount())
}

func writeAligned(sb *strings.Builder, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for col, h := range headers {
		widths[col] = len(h)
	}
	for _, row := range rows {
		for col, cell := range row {
			if l := len(cell); l > widths[col] {
				widths[col] = l
			}
		}
	}

	writeRow := func(cells []string) {
		parts := make([]string, len(cells))
		for col, cell := range cells {
			parts[col] = fmt.Sprintf("%-*s", widths[col], cell)
		}
		sb.WriteString(strings.TrimRight(strings.Join(parts, "  "), " "))
		sb.WriteString("\n")
	}
	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
}
