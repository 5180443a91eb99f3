/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ByeName is the persisted spelling of an unpaired second seat. It is
// reserved and may not be used as a player name.
const ByeName = "BYE"

// Fixed scoreline credited to the recipient of a BYE.
const (
	ByeScoreWins   = 2
	ByeScoreLosses = 0
	ByeScoreDraws  = 0
)

// Points awarded per match outcome.
const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

// MaxGameScore is the highest number of games a seat may record in a match.
const MaxGameScore = 2

// Player is a participant identity, unique by name within a tournament.
type Player string

func (p Player) String() string {
	return string(p)
}

type SeatKind int

const (
	SeatEmpty SeatKind = iota
	SeatPlayer
	SeatBye
)

func (k SeatKind) String() string {
	switch k {
	case SeatPlayer:
		return "player"
	case SeatBye:
		return "bye"
	default:
		return "empty"
	}
}

// Seat is the second participant of a Match: a player, a BYE or nothing at
// all (a seat whose player was removed).
type Seat struct {
	Kind   SeatKind
	Player Player
}

func PlayerSeat(p Player) Seat {
	if p == "" {
		return Seat{Kind: SeatEmpty}
	}
	return Seat{Kind: SeatPlayer, Player: p}
}

func ByeSeat() Seat {
	return Seat{Kind: SeatBye}
}

func (s Seat) IsBye() bool {
	return s.Kind == SeatBye
}

func (s Seat) IsPlayer() bool {
	return s.Kind == SeatPlayer
}

func (s Seat) String() string {
	switch s.Kind {
	case SeatPlayer:
		return string(s.Player)
	case SeatBye:
		return ByeName
	default:
		return ""
	}
}

// ParseSeat converts the persisted string form back into a Seat.
func ParseSeat(s string) Seat {
	s = strings.TrimSpace(s)
	if s == "" {
		return Seat{Kind: SeatEmpty}
	}
	if strings.EqualFold(s, ByeName) {
		return ByeSeat()
	}
	return PlayerSeat(Player(s))
}

func (s Seat) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Seat) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("swiss.seat: %w", err)
	}
	*s = ParseSeat(raw)
	return nil
}

// Match is one table of one round. Scores are nil until reported.
type Match struct {
	Table     int    `json:"table"`
	PlayerOne Player `json:"player1"`
	PlayerTwo Seat   `json:"player2"`
	Score1    *int   `json:"score1"`
	Score2    *int   `json:"score2"`
	Draws     *int   `json:"score_draws"`
	Dropout1  bool   `json:"dropout1"`
	Dropout2  bool   `json:"dropout2"`
	TableSize int    `json:"table_size"`
	GroupKey  string `json:"group_key"`
}

func (m Match) IsBye() bool {
	return m.PlayerTwo.IsBye()
}

// HasScores reports whether both seat scores have been recorded.
func (m Match) HasScores() bool {
	return m.Score1 != nil && m.Score2 != nil
}

// IsEmpty reports whether no score field at all has been recorded.
func (m Match) IsEmpty() bool {
	return m.Score1 == nil && m.Score2 == nil && m.Draws == nil
}

// DrawCount treats an unrecorded draw count as zero.
func (m Match) DrawCount() int {
	if m.Draws == nil {
		return 0
	}
	return *m.Draws
}

// Involves reports whether p is seated at this table.
func (m Match) Involves(p Player) bool {
	return m.PlayerOne == p || (m.PlayerTwo.IsPlayer() && m.PlayerTwo.Player == p)
}

// Round is one pass over every table group of a tournament.
type Round struct {
	Number    int       `json:"number"`
	CreatedAt time.Time `json:"created_at"`
	Matches   []Match   `json:"matches"`
}

// MatchByTable returns the index of the match at the given table or -1.
func (r *Round) MatchByTable(table int) int {
	for idx, m := range r.Matches {
		if m.Table == table {
			return idx
		}
	}
	return -1
}

// GroupMatches returns the matches of a single table group in table order.
func (r *Round) GroupMatches(groupKey string) []Match {
	var ret []Match
	for _, m := range r.Matches {
		if m.GroupKey == groupKey {
			ret = append(ret, m)
		}
	}
	return ret
}

// Clone returns a deep copy so that callers may mutate it freely.
func (r *Round) Clone() *Round {
	ret := &Round{Number: r.Number, CreatedAt: r.CreatedAt}
	ret.Matches = make([]Match, len(r.Matches))
	for idx, m := range r.Matches {
		m.Score1 = cloneInt(m.Score1)
		m.Score2 = cloneInt(m.Score2)
		m.Draws = cloneInt(m.Draws)
		ret.Matches[idx] = m
	}
	return ret
}

// TableGroup is an independently paired partition of the tournament.
type TableGroup struct {
	Key     string   `json:"key"`
	Size    int      `json:"table_size"`
	Players []Player `json:"players"`
}

// Contains reports whether p is on the group's roster.
func (g TableGroup) Contains(p Player) bool {
	for _, gp := range g.Players {
		if gp == p {
			return true
		}
	}
	return false
}

// GroupIndex maps group keys to positions in a []TableGroup arena.
type GroupIndex struct {
	Groups []TableGroup
	byKey  map[string]int
}

func NewGroupIndex(groups []TableGroup) *GroupIndex {
	idx := &GroupIndex{
		Groups: groups,
		byKey:  make(map[string]int, len(groups)),
	}
	for i, g := range groups {
		idx.byKey[g.Key] = i
	}
	return idx
}

// Lookup returns the group with the given key.
func (gi *GroupIndex) Lookup(key string) (*TableGroup, bool) {
	i, ok := gi.byKey[key]
	if !ok {
		return nil, false
	}
	return &gi.Groups[i], true
}

// Select returns every group when key is empty and otherwise only the group
// with that key.
func (gi *GroupIndex) Select(key string) ([]TableGroup, error) {
	if key == "" {
		return gi.Groups, nil
	}
	g, ok := gi.Lookup(key)
	if !ok {
		return nil, NotFound("group", key)
	}
	return []TableGroup{*g}, nil
}

// Standing is one derived row of a group's ranking.
type Standing struct {
	Player      Player
	Points      int
	MatchWins   int
	MatchLosses int
	MatchDraws  int
	GameWins    int
	GameLosses  int
	GameDraws   int
	OMW         float64
	GW          float64
	OGW         float64
}

func IntPtr(v int) *int {
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
