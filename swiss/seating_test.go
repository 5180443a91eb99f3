/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildTableGroups(t *testing.T) {
	cases := []struct {
		name     string
		tables   []TableSpec
		wantKeys []string
		wantErr  string
	}{
		{
			name: "two tables",
			tables: []TableSpec{
				{Size: 8, Players: []string{"Ann", "Ben", "Cat", "Dov", "Eli", "Fay", "Gus"}},
				{Size: 6, Players: []string{" Hal ", "Ida", "Jo  Ray", "Kim"}},
			},
			wantKeys: []string{"8-A", "6-B"},
		},
		{
			name:    "no tables",
			wantErr: "at least one table",
		},
		{
			name:    "bad size",
			tables:  []TableSpec{{Size: 7, Players: []string{"A", "B"}}},
			wantErr: "table size 7",
		},
		{
			name:    "single player",
			tables:  []TableSpec{{Size: 6, Players: []string{"A"}}},
			wantErr: "at least 2 players",
		},
		{
			name:    "over capacity",
			tables:  []TableSpec{{Size: 6, Players: []string{"A", "B", "C", "D", "E", "F", "G"}}},
			wantErr: "7 players for a table of 6",
		},
		{
			name:    "small odd table",
			tables:  []TableSpec{{Size: 6, Players: []string{"A", "B", "C", "D", "E"}}},
			wantErr: "odd player counts",
		},
		{
			name:    "duplicate in group",
			tables:  []TableSpec{{Size: 6, Players: []string{"Zoë", "zoe"}}},
			wantErr: "duplicate player",
		},
		{
			name: "duplicate across groups",
			tables: []TableSpec{
				{Size: 6, Players: []string{"A", "B"}},
				{Size: 6, Players: []string{"C", "a"}},
			},
			wantErr: "cannot sit at both 6-A and 6-B",
		},
		{
			name:    "reserved name",
			tables:  []TableSpec{{Size: 6, Players: []string{"A", "bye"}}},
			wantErr: "reserved",
		},
		{
			name:    "empty name",
			tables:  []TableSpec{{Size: 6, Players: []string{"A", "   "}}},
			wantErr: "cannot be empty",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			groups, err := BuildTableGroups(c.tables)
			if c.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), c.wantErr) {
					t.Fatalf("BuildTableGroups = %v; want error containing %q",
						err, c.wantErr)
				}
				if !IsValidation(err) {
					t.Errorf("error %v is not a ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BuildTableGroups: %v", err)
			}
			var keys []string
			for _, g := range groups {
				keys = append(keys, g.Key)
			}
			if !reflect.DeepEqual(keys, c.wantKeys) {
				t.Errorf("keys = %v; want %v", keys, c.wantKeys)
			}
			if groups[len(groups)-1].Players[0] != "Hal" ||
				groups[len(groups)-1].Players[2] != "Jo Ray" {

				t.Errorf("names not cleaned: %v", groups[len(groups)-1].Players)
			}
		})
	}
}

func TestGroupKey(t *testing.T) {
	cases := []struct {
		size, idx int
		want      string
	}{
		{8, 0, "8-A"},
		{6, 1, "6-B"},
		{12, 25, "12-Z"},
		{6, 26, "6-AA"},
		{6, 27, "6-AB"},
	}
	for _, c := range cases {
		if got := GroupKey(c.size, c.idx); got != c.want {
			t.Errorf("GroupKey(%d, %d) = %s; want %s", c.size, c.idx, got,
				c.want)
		}
	}
}

func TestGroupIndex(t *testing.T) {
	groups := []TableGroup{
		testGroup("6-A", 6, "A", "B"),
		testGroup("8-B", 8, "C", "D"),
	}
	idx := NewGroupIndex(groups)
	if g, ok := idx.Lookup("8-B"); !ok || g.Size != 8 {
		t.Errorf("Lookup(8-B) = %v, %v", g, ok)
	}
	if _, ok := idx.Lookup("6-C"); ok {
		t.Errorf("Lookup(6-C) should miss")
	}

	all, err := idx.Select("")
	if err != nil || len(all) != 2 {
		t.Errorf("Select(\"\") = %v, %v", all, err)
	}
	one, err := idx.Select("8-B")
	if err != nil || len(one) != 1 || one[0].Key != "8-B" {
		t.Errorf("Select(8-B) = %v, %v", one, err)
	}
	if _, err := idx.Select("6-C"); !IsNotFound(err) {
		t.Errorf("Select(6-C) = %v; want a not found error", err)
	}
}

func TestFindGroupings(t *testing.T) {
	cases := []struct {
		count int
		want  [][]int
	}{
		{12, [][]int{{12}, {6, 6}}},
		{14, [][]int{{6, 8}}},
		{20, [][]int{{8, 12}, {10, 10}, {6, 6, 8}}},
		{5, nil},
		{0, nil},
	}
	for _, c := range cases {
		got := FindGroupings(c.count, AllowedTableSizes)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("FindGroupings(%d) = %v; want %v", c.count, got, c.want)
		}
	}
}

func TestSeedRoundIsReproducible(t *testing.T) {
	groups := []TableGroup{
		testGroup("8-A", 8, "A", "B", "C", "D", "E", "F", "G", "H"),
		testGroup("6-B", 6, "I", "J", "K", "L", "M", "N"),
	}
	a := SeedRound(groups, 1234)
	b := SeedRound(groups, 1234)
	if len(a.Matches) != 7 {
		t.Fatalf("got %d matches; want 7", len(a.Matches))
	}
	for idx := range a.Matches {
		if a.Matches[idx].PlayerOne != b.Matches[idx].PlayerOne ||
			a.Matches[idx].PlayerTwo != b.Matches[idx].PlayerTwo {

			t.Errorf("table %d differs between equal seeds", idx+1)
		}
		if a.Matches[idx].Table != idx+1 {
			t.Errorf("match %d has table %d", idx, a.Matches[idx].Table)
		}
	}
	if err := checkSeatedOnce(a); err != nil {
		t.Error(err)
	}
}

func checkSeatedOnce(r *Round) error {
	return sameSeating(r, r)
}

func TestNormalizeName(t *testing.T) {
	if NormalizeName("  Zoë  Ång ") != "zoe ang" {
		t.Errorf("NormalizeName = %q", NormalizeName("  Zoë  Ång "))
	}
}
