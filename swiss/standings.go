/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"sort"
)

// PercentageFloor is the regulation minimum applied to every opponent term of
// OMW% and OGW%.
const PercentageFloor = 1.0 / 3.0

// percentages closer than this are treated as equal when ranking
const tiebreakEpsilon = 1e-9

// ComputeStandings folds every round numbered up to upTo into a ranked list
// for one table group. Every roster player gets a row even before playing;
// BYE never does. Matches without both scores are skipped.
func ComputeStandings(rounds []*Round, group TableGroup, upTo int) []Standing {
	rows := make(map[Player]*Standing)
	opponents := make(map[Player][]Player)
	row := func(p Player) *Standing {
		s, ok := rows[p]
		if !ok {
			s = &Standing{Player: p}
			rows[p] = s
		}
		return s
	}
	for _, p := range group.Players {
		row(p)
	}

	for _, r := range rounds {
		if r == nil || r.Number > upTo {
			continue
		}
		for _, m := range r.Matches {
			if m.GroupKey != group.Key || m.PlayerOne == "" {
				continue
			}
			switch m.PlayerTwo.Kind {
			case SeatBye:
				foldBye(row(m.PlayerOne))
			case SeatPlayer:
				if !m.HasScores() {
					continue
				}
				p1, p2 := m.PlayerOne, m.PlayerTwo.Player
				foldMatch(row(p1), row(p2), *m.Score1, *m.Score2, m.DrawCount())
				opponents[p1] = append(opponents[p1], p2)
				opponents[p2] = append(opponents[p2], p1)
			case SeatEmpty:
			}
		}
	}

	for p, s := range rows {
		s.GW = gameWinPct(s)
		s.OMW = opponentAverage(opponents[p], rows, matchWinPct)
		s.OGW = opponentAverage(opponents[p], rows, gameWinPct)
	}

	ret := make([]Standing, 0, len(rows))
	for _, s := range rows {
		ret = append(ret, *s)
	}
	SortStandings(ret)

	return ret
}

func foldBye(s *Standing) {
	s.Points += PointsWin
	s.MatchWins++
	s.GameWins += ByeScoreWins
	s.GameLosses += ByeScoreLosses
	s.GameDraws += ByeScoreDraws
}

func foldMatch(s1, s2 *Standing, score1, score2, draws int) {
	s1.GameWins += score1
	s1.GameLosses += score2
	s1.GameDraws += draws
	s2.GameWins += score2
	s2.GameLosses += score1
	s2.GameDraws += draws

	switch {
	case score1 > score2:
		s1.Points += PointsWin
		s1.MatchWins++
		s2.Points += PointsLoss
		s2.MatchLosses++
	case score2 > score1:
		s2.Points += PointsWin
		s2.MatchWins++
		s1.Points += PointsLoss
		s1.MatchLosses++
	default:
		s1.Points += PointsDraw
		s2.Points += PointsDraw
		s1.MatchDraws++
		s2.MatchDraws++
	}
}

func matchWinPct(s *Standing) float64 {
	total := s.MatchWins + s.MatchLosses + s.MatchDraws
	if total == 0 {
		return 0
	}
	return float64(s.MatchWins) / float64(total)
}

func gameWinPct(s *Standing) float64 {
	total := s.GameWins + s.GameLosses + s.GameDraws
	if total == 0 {
		return 0
	}
	return float64(s.GameWins) / float64(total)
}

// opponentAverage averages pct over every encounter, flooring each term.
func opponentAverage(opps []Player, rows map[Player]*Standing,
	pct func(*Standing) float64) float64 {

	if len(opps) == 0 {
		return 0
	}
	sum := 0.0
	for _, opp := range opps {
		v := pct(rows[opp])
		if v < PercentageFloor {
			v = PercentageFloor
		}
		sum += v
	}
	return sum / float64(len(opps))
}

// SortStandings orders rows by points, OMW%, GW%, OGW% (all descending) and
// finally by name.
func SortStandings(rows []Standing) {
	sort.SliceStable(rows, func(i, j int) bool {
		return standingLess(rows[i], rows[j])
	})
}

func standingLess(a, b Standing) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if d := a.OMW - b.OMW; d > tiebreakEpsilon || d < -tiebreakEpsilon {
		return d > 0
	}
	if d := a.GW - b.GW; d > tiebreakEpsilon || d < -tiebreakEpsilon {
		return d > 0
	}
	if d := a.OGW - b.OGW; d > tiebreakEpsilon || d < -tiebreakEpsilon {
		return d > 0
	}
	return a.Player < b.Player
}

// PointsOf returns a name→points lookup for a standings list.
func PointsOf(rows []Standing) map[Player]int {
	ret := make(map[Player]int, len(rows))
	for _, s := range rows {
		ret[s.Player] = s.Points
	}
	return ret
}
