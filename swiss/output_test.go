/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatRecord(t *testing.T) {
	cases := []struct {
		s    Standing
		want string
	}{
		{Standing{GameWins: 4, GameLosses: 2}, "4 - 2"},
		{Standing{GameWins: 3, GameLosses: 2, GameDraws: 1}, "3 - 2 - 1"},
		{Standing{}, "0 - 0"},
	}
	for _, c := range cases {
		if got := FormatRecord(c.s); got != c.want {
			t.Errorf("FormatRecord(%+v) = %q; want %q", c.s, got, c.want)
		}
	}
	if got := FormatPercent(PercentageFloor); got != "33.33%" {
		t.Errorf("FormatPercent(1/3) = %q", got)
	}
	if got := FormatPercent(0.75); got != "75.00%" {
		t.Errorf("FormatPercent(0.75) = %q", got)
	}
}

func TestBuildOutputs(t *testing.T) {
	g1 := testGroup("6-A", 6, "Ann", "Ben")
	g2 := testGroup("6-B", 6, "Cat", "Dov", "Eli")
	r := &Round{Number: 1, Matches: []Match{
		played(1, "Ann", "Ben", 2, 0, 0, g1),
		played(2, "Cat", "Dov", 1, 1, 1, g2),
		buildOneBye("Eli", g2, new(int)),
	}}
	r.Matches[2].Table = 3
	groups := []TableGroup{g1, g2}

	pairings := BuildPairingsOutput(groups, r)
	for _, want := range []string{"Round 1 Pairings", "Group 6-A",
		"Group 6-B", "BYE", "1-1-1", "2-0"} {

		if !strings.Contains(pairings, want) {
			t.Errorf("pairings output missing %q:\n%s", want, pairings)
		}
	}

	standings := BuildStandingsOutput(groups, []*Round{r}, 1)
	for _, want := range []string{"Standings after Round 1", "OMW%",
		"Ann", "2 - 0", "1 - 1 - 1", "100.00%"} {

		if !strings.Contains(standings, want) {
			t.Errorf("standings output missing %q:\n%s", want, standings)
		}
	}
	if strings.Contains(standings, "BYE") {
		t.Errorf("BYE listed in standings:\n%s", standings)
	}

	if out := BuildStandingsOutput(groups, nil, 0); !strings.Contains(out,
		"Cannot determine") {

		t.Errorf("empty standings output = %q", out)
	}
}

func TestRoundJSON(t *testing.T) {
	group := testGroup("6-A", 6, "Ann", "Ben", "Cat")
	r := &Round{Number: 1, Matches: []Match{
		{Table: 1, PlayerOne: "Ann", PlayerTwo: PlayerSeat("Ben"),
			TableSize: 6, GroupKey: "6-A"},
		buildOneBye("Cat", group, new(int)),
	}}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"player2":"Ben"`, `"player2":"BYE"`,
		`"score1":null`, `"group_key":"6-A"`} {

		if !strings.Contains(string(data), want) {
			t.Errorf("encoded round missing %s: %s", want, data)
		}
	}

	var back Round
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Matches[1].IsBye() || back.Matches[0].PlayerTwo.Player != "Ben" ||
		back.Matches[0].Score1 != nil {

		t.Errorf("decoded round = %+v", back)
	}
}

func TestPlayerStatistics(t *testing.T) {
	group := testGroup("6-A", 6, "Ann", "Ben", "Cat")
	t1 := []*Round{{Number: 1, Matches: []Match{
		played(1, "Ann", "Ben", 2, 1, 0, group),
		buildOneBye("Cat", group, new(int)),
	}}}
	t2 := []*Round{{Number: 1, Matches: []Match{
		played(1, "Cat", "ann", 1, 1, 1, group),
		{Table: 2, PlayerOne: "Ann", PlayerTwo: PlayerSeat("Ben")},
	}}}
	t3 := []*Round{{Number: 1, Matches: []Match{
		played(1, "Ben", "Cat", 2, 0, 0, group),
	}}}

	got := PlayerStatistics("Ann", map[string][]*Round{"t1": t1, "t2": t2,
		"t3": t3})
	if got.TournamentsPlayed != 2 || got.MatchesWon != 1 ||
		got.MatchesDrawn != 1 || got.MatchesLost != 0 {

		t.Errorf("match totals = %+v", got)
	}
	if got.GamesWon != 3 || got.GamesLost != 2 || got.GamesDrawn != 1 {
		t.Errorf("game totals = %+v", got)
	}
	if got.UniqueOpponents != 2 || !approx(got.MatchWinPct, 0.5) ||
		!approx(got.GameWinPct, 0.5) {

		t.Errorf("derived stats = %+v", got)
	}

	cat := PlayerStatistics("Cat", map[string][]*Round{"t1": t1})
	if cat.Byes != 1 || cat.MatchesWon != 1 || cat.UniqueOpponents != 0 {
		t.Errorf("bye stats = %+v", cat)
	}
}
