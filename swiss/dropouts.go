/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"sort"
)

// Dropouts re-derives withdrawn players from the persisted rounds. A player's
// status is the dropout flag of their seat in the latest round they appear in,
// so clearing the flag in that round reinstates them.
func Dropouts(rounds []*Round) map[Player]bool {
	ordered := make([]*Round, 0, len(rounds))
	for _, r := range rounds {
		if r != nil {
			ordered = append(ordered, r)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Number < ordered[j].Number
	})

	latest := make(map[Player]bool)
	for _, r := range ordered {
		for _, m := range r.Matches {
			if m.PlayerOne != "" {
				latest[m.PlayerOne] = m.Dropout1
			}
			if m.PlayerTwo.IsPlayer() {
				latest[m.PlayerTwo.Player] = m.Dropout2
			}
		}
	}

	ret := make(map[Player]bool)
	for p, out := range latest {
		if out {
			ret[p] = true
		}
	}
	return ret
}

// ActivePlayers returns the group's roster, in roster order, without the
// players that have dropped out.
func ActivePlayers(group TableGroup, dropouts map[Player]bool) []Player {
	ret := make([]Player, 0, len(group.Players))
	for _, p := range group.Players {
		if !dropouts[p] {
			ret = append(ret, p)
		}
	}
	return ret
}
