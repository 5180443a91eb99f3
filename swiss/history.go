/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

// Encounter records one pairing against an opponent.
type Encounter struct {
	Opponent Player
	Round    int
}

// History holds every player's past opponents and received BYEs for one
// table group.
type History struct {
	Opponents map[Player][]Encounter
	ByeCounts map[Player]int
}

// BuildHistory derives the opponent history of a table group from all rounds
// numbered up to and including upTo. A pairing counts as an encounter once it
// exists, whether or not it was scored. BYE matches only bump the recipient's
// BYE count.
func BuildHistory(rounds []*Round, groupKey string, upTo int) *History {
	h := &History{
		Opponents: make(map[Player][]Encounter),
		ByeCounts: make(map[Player]int),
	}
	for _, r := range rounds {
		if r == nil || r.Number > upTo {
			continue
		}
		for _, m := range r.Matches {
			if m.GroupKey != groupKey || m.PlayerOne == "" {
				continue
			}
			switch m.PlayerTwo.Kind {
			case SeatBye:
				h.ByeCounts[m.PlayerOne]++
			case SeatPlayer:
				p1, p2 := m.PlayerOne, m.PlayerTwo.Player
				h.Opponents[p1] = append(h.Opponents[p1],
					Encounter{Opponent: p2, Round: r.Number})
				h.Opponents[p2] = append(h.Opponents[p2],
					Encounter{Opponent: p1, Round: r.Number})
			case SeatEmpty:
			}
		}
	}

	return h
}

// HasMet reports whether a and b have been paired before.
func (h *History) HasMet(a, b Player) bool {
	for _, enc := range h.Opponents[a] {
		if enc.Opponent == b {
			return true
		}
	}
	return false
}
