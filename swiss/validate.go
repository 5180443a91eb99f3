/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

// ValidateRound checks that every match of a round is fully and validly
// scored. The first offending match rejects the whole round.
func ValidateRound(r *Round) error {
	if r == nil {
		return StateErrorf("no existing round to continue from")
	}
	for _, m := range r.Matches {
		if err := ValidateMatch(m); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMatch checks a single match's seats and scoreline.
func ValidateMatch(m Match) error {
	if m.PlayerOne == "" || m.PlayerTwo.Kind == SeatEmpty {
		return validationErrorf(m.Table, "both players must be present")
	}
	if m.IsBye() {
		return validateByeScore(m)
	}
	if !m.HasScores() {
		return validationErrorf(m.Table, "result missing")
	}
	return validateScoreline(m.Table, *m.Score1, *m.Score2, m.DrawCount())
}

func validateByeScore(m Match) error {
	if m.Score1 == nil || m.Score2 == nil || *m.Score1 != ByeScoreWins ||
		*m.Score2 != ByeScoreLosses || m.DrawCount() != ByeScoreDraws {

		return validationErrorf(m.Table, "a BYE must be scored %d-%d-%d",
			ByeScoreWins, ByeScoreLosses, ByeScoreDraws)
	}
	return nil
}

func validateScoreline(table, score1, score2, draws int) error {
	if score1 < 0 || score1 > MaxGameScore || score2 < 0 || score2 > MaxGameScore {
		return validationErrorf(table, "scores must be between 0 and %d",
			MaxGameScore)
	}
	if draws < 0 || draws > MaxGameScore {
		return validationErrorf(table, "draws must be between 0 and %d",
			MaxGameScore)
	}
	if score1 == MaxGameScore && score2 == MaxGameScore {
		return validationErrorf(table, "both players cannot win %d games",
			MaxGameScore)
	}
	if score1 == 0 && score2 == 0 && draws == 0 {
		return validationErrorf(table, "0-0-0 is not a played result")
	}
	return nil
}

// IsUnplayed reports whether a round was opened but nothing was reported: every
// non-BYE match has all score fields empty. Such a round may be retracted.
func IsUnplayed(r *Round) bool {
	if r == nil {
		return false
	}
	for _, m := range r.Matches {
		if m.IsBye() {
			continue
		}
		if !m.IsEmpty() {
			return false
		}
	}
	return true
}
