/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

// AllocateBye picks the BYE recipient from a pool ranked best first. The
// player with the fewest BYEs so far wins; ties go to whoever is ranked lowest.
// It returns the recipient and the pool with the recipient removed.
func AllocateBye(ranked []Player, byeCounts map[Player]int) (Player, []Player) {
	if len(ranked) == 0 {
		return "", ranked
	}

	min := -1
	for _, p := range ranked {
		if c := byeCounts[p]; min < 0 || c < min {
			min = c
		}
	}

	pick := len(ranked) - 1
	for idx := len(ranked) - 1; idx >= 0; idx-- {
		if byeCounts[ranked[idx]] == min {
			pick = idx
			break
		}
	}

	recipient := ranked[pick]
	rest := make([]Player, 0, len(ranked)-1)
	rest = append(rest, ranked[:pick]...)
	rest = append(rest, ranked[pick+1:]...)

	return recipient, rest
}
