/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AllowedTableSizes lists the supported table sizes in ascending order.
var AllowedTableSizes = []int{6, 8, 10, 12}

// MinOddPlayers is the smallest table at which an odd player count (and
// therefore a BYE every round) is accepted.
const MinOddPlayers = 6

const maxNameLen = 50

func IsAllowedTableSize(size int) bool {
	for _, s := range AllowedTableSizes {
		if s == size {
			return true
		}
	}
	return false
}

// TableSpec is one table of a submitted roster.
type TableSpec struct {
	Size    int      `json:"table_size"`
	Players []string `json:"players"`
}

// BuildTableGroups validates a roster and turns each table into a TableGroup
// keyed "<size>-<letter>" in submission order.
func BuildTableGroups(tables []TableSpec) ([]TableGroup, error) {
	if len(tables) == 0 {
		return nil, validationErrorf(0, "at least one table is required")
	}

	seen := make(map[string]string)
	groups := make([]TableGroup, 0, len(tables))
	for idx, spec := range tables {
		if !IsAllowedTableSize(spec.Size) {
			return nil, validationErrorf(0, "table size %d is not one of %v",
				spec.Size, AllowedTableSizes)
		}
		key := GroupKey(spec.Size, idx)
		n := len(spec.Players)
		if n < 2 {
			return nil, validationErrorf(0, "group %s needs at least 2 players",
				key)
		}
		if n > spec.Size {
			return nil, validationErrorf(0,
				"group %s has %d players for a table of %d", key, n, spec.Size)
		}
		if n%2 == 1 && n < MinOddPlayers {
			return nil, validationErrorf(0,
				"group %s: odd player counts are only allowed from %d players",
				key, MinOddPlayers)
		}

		group := TableGroup{Key: key, Size: spec.Size}
		for _, raw := range spec.Players {
			name, err := CleanName(raw)
			if err != nil {
				return nil, err
			}
			folded := NormalizeName(name)
			if other, dup := seen[folded]; dup {
				if other == key {
					return nil, validationErrorf(0,
						"duplicate player %q in group %s", name, key)
				}
				return nil, validationErrorf(0,
					"player %q cannot sit at both %s and %s", name, other, key)
			}
			seen[folded] = key
			group.Players = append(group.Players, Player(name))
		}
		groups = append(groups, group)
	}

	return groups, nil
}

// GroupKey names the idx-th table of the given size, e.g. "8-B".
func GroupKey(size, idx int) string {
	var label string
	for n := idx; ; n = n/26 - 1 {
		label = string(rune('A'+n%26)) + label
		if n < 26 {
			break
		}
	}
	return fmt.Sprintf("%d-%s", size, label)
}

// CleanName trims and collapses whitespace and rejects empty, overly long
// or reserved names.
func CleanName(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return "", validationErrorf(0, "player names cannot be empty")
	}
	if len([]rune(name)) > maxNameLen {
		return "", validationErrorf(0, "player name %q is longer than %d characters",
			name, maxNameLen)
	}
	if strings.EqualFold(name, ByeName) {
		return "", validationErrorf(0, "%q is reserved", ByeName)
	}
	return name, nil
}

// NormalizeName folds case and strips diacritics so that "Zoë" and "zoe" are
// recognised as the same person.
func NormalizeName(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.Join(strings.Fields(name), " "))
	if err != nil {
		folded = name
	}
	return strings.ToLower(folded)
}

// FindGroupings lists every distinct combination of allowed table sizes that
// seats exactly playerCount players. Each combination is sorted ascending.
func FindGroupings(playerCount int, sizes []int) [][]int {
	var allowed []int
	for _, s := range sizes {
		if IsAllowedTableSize(s) {
			allowed = append(allowed, s)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(allowed)))

	var ret [][]int
	seen := make(map[string]bool)
	var walk func(remaining int, current []int)
	walk = func(remaining int, current []int) {
		if remaining == 0 {
			combo := append([]int(nil), current...)
			sort.Ints(combo)
			key := fmt.Sprint(combo)
			if !seen[key] {
				seen[key] = true
				ret = append(ret, combo)
			}
			return
		}
		for _, s := range allowed {
			if s <= remaining {
				walk(remaining-s, append(current, s))
			}
		}
	}
	if playerCount > 0 {
		walk(playerCount, nil)
	}

	return ret
}

// SeedRound builds round 1. Each group is shuffled with a generator seeded
// by seed and neighbours are paired; an odd group's last seat gets the BYE.
// Equal seeds yield equal pairings.
func SeedRound(groups []TableGroup, seed int64) *Round {
	rng := rand.New(rand.NewSource(seed))
	r := &Round{Number: 1, CreatedAt: time.Now().UTC()}

	tableNum := 1
	for _, group := range groups {
		shuffled := append([]Player(nil), group.Players...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		var bye *Player
		if len(shuffled)%2 == 1 {
			last := shuffled[len(shuffled)-1]
			bye = &last
			shuffled = shuffled[:len(shuffled)-1]
		}
		for i := 0; i+1 < len(shuffled); i += 2 {
			r.Matches = append(r.Matches, buildOnePairing(shuffled[i],
				shuffled[i+1], group, &tableNum))
		}
		if bye != nil {
			r.Matches = append(r.Matches, buildOneBye(*bye, group, &tableNum))
		}
	}

	return r
}
