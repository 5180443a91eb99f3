/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"sort"
	"time"
)

// NextRound validates the latest round and pairs every table group for the
// round after it. Nothing is returned unless every group was paired.
func NextRound(groups []TableGroup, rounds []*Round) (*Round, error) {
	latest := LatestRound(rounds)
	if latest == nil {
		return nil, StateErrorf("no existing round to continue from")
	}
	if err := ValidateRound(latest); err != nil {
		return nil, &StateError{
			Msg: fmt.Sprintf("round %d is incomplete: %v", latest.Number, err),
			Err: err,
		}
	}

	return PairRound(groups, rounds, latest.Number+1), nil
}

// PairRound pairs every group for round number using all rounds before it.
// Table numbers run from 1 across groups in arena order.
func PairRound(groups []TableGroup, rounds []*Round, number int) *Round {
	dropouts := Dropouts(rounds)
	next := &Round{Number: number, CreatedAt: time.Now().UTC()}

	tableNum := 1
	for _, group := range groups {
		active := ActivePlayers(group, dropouts)
		history := BuildHistory(rounds, group.Key, number-1)
		standings := ComputeStandings(rounds, group, number-1)
		next.Matches = append(next.Matches,
			PairGroup(group, active, standings, history, &tableNum)...)
	}

	return next
}

// PairGroup pairs one table group's active players. Players are ranked by
// points then name and paired top-down; a would-be rematch is resolved by
// swapping the lower seat with the first later pair that leaves both new
// pairs fresh. When no such pair exists the rematch is accepted.
func PairGroup(group TableGroup, active []Player, standings []Standing,
	history *History, tableNum *int) []Match {

	ranked := RankForPairing(active, PointsOf(standings))

	var bye *Player
	if len(ranked)%2 == 1 {
		recipient, rest := AllocateBye(ranked, history.ByeCounts)
		bye = &recipient
		ranked = rest
	}

	matches := make([]Match, 0, len(ranked)/2+1)
	for i := 0; i+1 < len(ranked); i += 2 {
		if history.HasMet(ranked[i], ranked[i+1]) {
			for j := i + 2; j+1 < len(ranked); j += 2 {
				if !history.HasMet(ranked[i], ranked[j]) &&
					!history.HasMet(ranked[i+1], ranked[j+1]) {

					ranked[i+1], ranked[j] = ranked[j], ranked[i+1]
					break
				}
			}
		}
		matches = append(matches, buildOnePairing(ranked[i], ranked[i+1],
			group, tableNum))
	}
	if bye != nil {
		matches = append(matches, buildOneBye(*bye, group, tableNum))
	}

	return matches
}

// RankForPairing sorts players by points descending then name ascending.
// Players without a points entry count as zero.
func RankForPairing(players []Player, points map[Player]int) []Player {
	ranked := append([]Player(nil), players...)
	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := points[ranked[i]], points[ranked[j]]
		if pi != pj {
			return pi > pj
		}
		return ranked[i] < ranked[j]
	})
	return ranked
}

func buildOnePairing(p1, p2 Player, group TableGroup, tableNum *int) Match {
	m := Match{
		Table:     *tableNum,
		PlayerOne: p1,
		PlayerTwo: PlayerSeat(p2),
		TableSize: group.Size,
		GroupKey:  group.Key,
	}
	(*tableNum)++

	return m
}

func buildOneBye(p Player, group TableGroup, tableNum *int) Match {
	m := Match{
		Table:     *tableNum,
		PlayerOne: p,
		PlayerTwo: ByeSeat(),
		Score1:    IntPtr(ByeScoreWins),
		Score2:    IntPtr(ByeScoreLosses),
		Draws:     IntPtr(ByeScoreDraws),
		TableSize: group.Size,
		GroupKey:  group.Key,
	}
	(*tableNum)++

	return m
}

// LatestRound returns the highest numbered round or nil.
func LatestRound(rounds []*Round) *Round {
	var latest *Round
	for _, r := range rounds {
		if r != nil && (latest == nil || r.Number > latest.Number) {
			latest = r
		}
	}
	return latest
}
