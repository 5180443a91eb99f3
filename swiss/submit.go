/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

// Result is one table's reported outcome. PlayerOne, PlayerTwo and TableSize
// must match what the round recorded for that table so that reports from a
// stale view are rejected.
type Result struct {
	Round     int    `json:"current_round"`
	Table     int    `json:"table"`
	PlayerOne string `json:"player1"`
	PlayerTwo string `json:"player2"`
	Score1    int    `json:"score1"`
	Score2    int    `json:"score2"`
	Draws     int    `json:"score_draws"`
	Dropout1  bool   `json:"dropout1"`
	Dropout2  bool   `json:"dropout2"`
	TableSize int    `json:"table_size"`
}

// ApplyResult returns a copy of r with the result recorded. r itself is left
// untouched so a rejected report never leaves a partial write.
func ApplyResult(r *Round, res Result) (*Round, error) {
	idx := r.MatchByTable(res.Table)
	if idx < 0 {
		return nil, validationErrorf(res.Table, "no such table in round %d",
			r.Number)
	}
	m := r.Matches[idx]

	if Player(res.PlayerOne) != m.PlayerOne ||
		ParseSeat(res.PlayerTwo) != m.PlayerTwo {

		return nil, validationErrorf(res.Table,
			"reported players %s vs %s do not match %s vs %s",
			res.PlayerOne, res.PlayerTwo, m.PlayerOne, m.PlayerTwo)
	}
	if res.TableSize != 0 && res.TableSize != m.TableSize {
		return nil, validationErrorf(res.Table,
			"reported table size %d does not match %d", res.TableSize,
			m.TableSize)
	}

	reported := m
	reported.Score1 = IntPtr(res.Score1)
	reported.Score2 = IntPtr(res.Score2)
	reported.Draws = IntPtr(res.Draws)
	reported.Dropout1 = res.Dropout1
	reported.Dropout2 = res.Dropout2 && m.PlayerTwo.IsPlayer()
	if err := ValidateMatch(reported); err != nil {
		return nil, err
	}

	ret := r.Clone()
	ret.Matches[idx] = reported

	return ret, nil
}

// ApplyCorrection is ApplyResult for a round that a later round already
// follows. Withdrawals are read from a player's latest seat, so dropout flags
// cannot change here.
func ApplyCorrection(r *Round, res Result) (*Round, error) {
	ret, err := ApplyResult(r, res)
	if err != nil {
		return nil, err
	}
	idx := r.MatchByTable(res.Table)
	before, after := r.Matches[idx], ret.Matches[idx]
	if before.Dropout1 != after.Dropout1 || before.Dropout2 != after.Dropout2 {
		return nil, validationErrorf(res.Table,
			"dropouts cannot change in round %d once a later round is paired",
			r.Number)
	}
	return ret, nil
}

// PairingEdit reassigns the seats of one table before a round starts.
type PairingEdit struct {
	Table     int    `json:"table"`
	PlayerOne string `json:"player1"`
	PlayerTwo string `json:"player2"`
}

// ReplacePairings applies manual seat edits to a round nobody has reported
// on yet. Every group must keep exactly the same players, BYE tables stay BYE
// tables with their fixed result, and each player still sits exactly once.
// The bool result is false when the edits change nothing.
func ReplacePairings(r *Round, edits []PairingEdit) (*Round, bool, error) {
	if !IsUnplayed(r) {
		return nil, false, StateErrorf("round %d has already started", r.Number)
	}

	ret := r.Clone()
	changed := false
	for _, e := range edits {
		idx := ret.MatchByTable(e.Table)
		if idx < 0 {
			return nil, false, NotFound("table", e.Table)
		}
		m := &ret.Matches[idx]
		p1 := Player(e.PlayerOne)
		p2 := ParseSeat(e.PlayerTwo)
		if p1 == "" || p2.Kind == SeatEmpty {
			return nil, false, validationErrorf(e.Table,
				"both players must be present")
		}
		if p2.IsBye() != m.IsBye() {
			return nil, false, validationErrorf(e.Table,
				"BYE tables cannot be added or removed")
		}
		if p1 != m.PlayerOne || p2 != m.PlayerTwo {
			changed = true
			m.PlayerOne = p1
			m.PlayerTwo = p2
			m.Dropout1 = false
			m.Dropout2 = false
		}
	}
	if !changed {
		return r, false, nil
	}

	if err := sameSeating(r, ret); err != nil {
		return nil, false, err
	}

	return ret, true, nil
}

// sameSeating checks that after has the same players per group as before,
// each seated once.
func sameSeating(before, after *Round) error {
	seated := func(r *Round) (map[string][]Player, error) {
		ret := make(map[string][]Player)
		seen := make(map[Player]int)
		for _, m := range r.Matches {
			for _, p := range []Player{m.PlayerOne, m.PlayerTwo.Player} {
				if p == "" {
					continue
				}
				if table, dup := seen[p]; dup {
					return nil, validationErrorf(m.Table,
						"%s is already seated at table %d", p, table)
				}
				seen[p] = m.Table
				ret[m.GroupKey] = append(ret[m.GroupKey], p)
			}
		}
		return ret, nil
	}

	want, err := seated(before)
	if err != nil {
		return err
	}
	got, err := seated(after)
	if err != nil {
		return err
	}
	for key, players := range want {
		roster := make(map[Player]bool, len(players))
		for _, p := range players {
			roster[p] = true
		}
		for _, p := range got[key] {
			if !roster[p] {
				return validationErrorf(0, "%s does not belong to group %s",
					p, key)
			}
		}
		if len(got[key]) != len(players) {
			return validationErrorf(0, "group %s must keep its players", key)
		}
	}
	return nil
}
