/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

// PlayerStats are lifetime totals for one player across tournaments.
type PlayerStats struct {
	Player            Player  `json:"player"`
	TournamentsPlayed int     `json:"tournaments_played"`
	MatchesWon        int     `json:"matches_won"`
	MatchesLost       int     `json:"matches_lost"`
	MatchesDrawn      int     `json:"matches_drawn"`
	Byes              int     `json:"byes"`
	GamesWon          int     `json:"games_won"`
	GamesLost         int     `json:"games_lost"`
	GamesDrawn        int     `json:"games_drawn"`
	UniqueOpponents   int     `json:"unique_opponents"`
	MatchWinPct       float64 `json:"match_win_pct"`
	GameWinPct        float64 `json:"game_win_pct"`
}

func (ps PlayerStats) TotalMatches() int {
	return ps.MatchesWon + ps.MatchesLost + ps.MatchesDrawn
}

func (ps PlayerStats) TotalGames() int {
	return ps.GamesWon + ps.GamesLost + ps.GamesDrawn
}

// PlayerStatistics totals every scored match of p over the given
// tournaments' rounds, keyed by tournament id. Names are compared after
// NormalizeName so spelling variants across events are merged.
func PlayerStatistics(p Player, tournaments map[string][]*Round) PlayerStats {
	stats := PlayerStats{Player: p}
	want := NormalizeName(string(p))
	same := func(other Player) bool {
		return other != "" && NormalizeName(string(other)) == want
	}
	opponents := make(map[string]bool)

	for _, rounds := range tournaments {
		played := false
		for _, r := range rounds {
			if r == nil {
				continue
			}
			for _, m := range r.Matches {
				if !m.HasScores() {
					continue
				}
				var own, their int
				switch {
				case same(m.PlayerOne):
					own, their = *m.Score1, *m.Score2
					if m.PlayerTwo.IsPlayer() {
						opponents[NormalizeName(string(m.PlayerTwo.Player))] = true
					}
				case m.PlayerTwo.IsPlayer() && same(m.PlayerTwo.Player):
					own, their = *m.Score2, *m.Score1
					if m.PlayerOne != "" {
						opponents[NormalizeName(string(m.PlayerOne))] = true
					}
				default:
					continue
				}
				played = true
				if m.IsBye() {
					stats.Byes++
				}
				stats.GamesWon += own
				stats.GamesLost += their
				stats.GamesDrawn += m.DrawCount()
				switch {
				case own > their:
					stats.MatchesWon++
				case their > own:
					stats.MatchesLost++
				default:
					stats.MatchesDrawn++
				}
			}
		}
		if played {
			stats.TournamentsPlayed++
		}
	}

	stats.UniqueOpponents = len(opponents)
	if total := stats.TotalMatches(); total > 0 {
		stats.MatchWinPct = float64(stats.MatchesWon) / float64(total)
	}
	if total := stats.TotalGames(); total > 0 {
		stats.GameWinPct = float64(stats.GamesWon) / float64(total)
	}

	return stats
}
