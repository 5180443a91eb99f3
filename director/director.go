/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package director runs tournaments: it loads persisted state, applies the
// swiss engine under a per-round lock and persists the outcome.
package director

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikeb26/cubeswiss/internal"
	"github.com/mikeb26/cubeswiss/roundlock"
	"github.com/mikeb26/cubeswiss/store"
	"github.com/mikeb26/cubeswiss/swiss"
	"go.uber.org/zap"
)

type Director struct {
	store  *store.Store
	locker roundlock.Locker
	logger *zap.Logger
	now    func() time.Time
}

func New(st *store.Store, locker roundlock.Locker, logger *zap.Logger) *Director {
	if locker == nil {
		locker = roundlock.NewLocalLocker()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Director{
		store:  st,
		locker: locker,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// StartRequest describes a new tournament. A zero Seed draws a fresh one.
type StartRequest struct {
	Name   string
	Tables []swiss.TableSpec
	Seed   int64
}

// Start validates the roster, persists the tournament and its seeded first
// round.
func (d *Director) Start(ctx context.Context,
	req StartRequest) (*store.Tournament, *swiss.Round, error) {

	groups, err := swiss.BuildTableGroups(req.Tables)
	if err != nil {
		return nil, nil, err
	}
	seed := req.Seed
	if seed == 0 {
		seed = d.now().UnixNano()
	}

	now := d.now()
	t := &store.Tournament{
		ID:        store.NewTournamentID(),
		Name:      req.Name,
		Status:    store.StatusRunning,
		CreatedAt: internal.FormatTimestamp(now),
		Seed:      seed,
		Groups:    groups,
	}
	r1 := swiss.SeedRound(groups, seed)
	r1.CreatedAt = now

	if err := d.store.SaveTournament(ctx, t); err != nil {
		return nil, nil, err
	}
	if err := d.store.SaveRound(ctx, t.ID, r1); err != nil {
		return nil, nil, err
	}

	d.logger.Info("tournament started", zap.String("tournament", t.ID),
		zap.String("name", t.Name), zap.Int("groups", len(groups)),
		zap.Int("tables", len(r1.Matches)), zap.Int64("seed", seed))

	return t, r1, nil
}

// Tournament loads a tournament header.
func (d *Director) Tournament(ctx context.Context, id string) (*store.Tournament, error) {
	t, err := d.store.LoadTournament(ctx, id)
	if err != nil {
		if store.IsNotExist(err) {
			return nil, swiss.NotFound("tournament", id)
		}
		return nil, err
	}
	return t, nil
}

func (d *Director) running(ctx context.Context, id string) (*store.Tournament, error) {
	t, err := d.Tournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsEnded() {
		return nil, swiss.StateErrorf("tournament %v has ended", id)
	}
	return t, nil
}

// Rounds loads every round of a tournament in order.
func (d *Director) Rounds(ctx context.Context, id string) ([]*swiss.Round, error) {
	if _, err := d.Tournament(ctx, id); err != nil {
		return nil, err
	}
	return d.store.LoadRounds(ctx, id)
}

// Round loads one round of a tournament.
func (d *Director) Round(ctx context.Context, id string, number int) (*swiss.Round, error) {
	r, err := d.store.LoadRound(ctx, id, number)
	if err != nil {
		if store.IsNotExist(err) {
			return nil, swiss.NotFound("round", number)
		}
		return nil, err
	}
	return r, nil
}

// CurrentRound loads the highest numbered round.
func (d *Director) CurrentRound(ctx context.Context, id string) (*swiss.Round, error) {
	latest, err := d.latestNumber(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.Round(ctx, id, latest)
}

func (d *Director) latestNumber(ctx context.Context, id string) (int, error) {
	numbers, err := d.store.RoundNumbers(ctx, id)
	if err != nil {
		return 0, err
	}
	if len(numbers) == 0 {
		return 0, swiss.StateErrorf("no existing round to continue from")
	}
	return numbers[len(numbers)-1], nil
}

// lock takes the try-lock for one round, turning contention into a
// StateError.
func (d *Director) lock(ctx context.Context, id string,
	round int) (roundlock.Unlock, error) {

	unlock, err := d.locker.TryLock(ctx, roundlock.Key(id, round))
	if err != nil {
		if errors.Is(err, roundlock.ErrLocked) {
			return nil, &swiss.StateError{
				Msg: fmt.Sprintf("round %d of tournament %v is being updated; try again",
					round, id),
				Err: err,
			}
		}
		return nil, err
	}
	return unlock, nil
}

func (d *Director) unlock(ctx context.Context, unlock roundlock.Unlock,
	id string, round int) {

	if err := unlock(context.WithoutCancel(ctx)); err != nil {
		d.logger.Warn("failed to release round lock", zap.String("tournament", id),
			zap.Int("round", round), zap.Error(err))
	}
}

// SubmitResult records one table's result in the given round. Earlier rounds
// may be corrected while the tournament runs, but only the latest round can
// change dropout flags. A correction also holds the latest round's lock so
// the next round is never paired from scores being rewritten.
func (d *Director) SubmitResult(ctx context.Context, id string,
	res swiss.Result) (*swiss.Round, error) {

	if _, err := d.running(ctx, id); err != nil {
		return nil, err
	}
	latest, err := d.latestNumber(ctx, id)
	if err != nil {
		return nil, err
	}
	unlock, err := d.lock(ctx, id, res.Round)
	if err != nil {
		return nil, err
	}
	defer d.unlock(ctx, unlock, id, res.Round)
	correction := res.Round < latest
	if correction {
		unlockLatest, err := d.lock(ctx, id, latest)
		if err != nil {
			return nil, err
		}
		defer d.unlock(ctx, unlockLatest, id, latest)
	}

	r, err := d.Round(ctx, id, res.Round)
	if err != nil {
		return nil, err
	}
	apply := swiss.ApplyResult
	if correction {
		apply = swiss.ApplyCorrection
	}
	updated, err := apply(r, res)
	if err != nil {
		d.logger.Info("result rejected", zap.String("tournament", id),
			zap.Int("round", res.Round), zap.Int("table", res.Table),
			zap.Error(err))
		return nil, err
	}
	if err := d.store.SaveRound(ctx, id, updated); err != nil {
		return nil, err
	}

	d.logger.Info("result recorded", zap.String("tournament", id),
		zap.Int("round", res.Round), zap.Int("table", res.Table),
		zap.Int("score1", res.Score1), zap.Int("score2", res.Score2),
		zap.Int("draws", res.Draws), zap.Bool("dropout1", res.Dropout1),
		zap.Bool("dropout2", res.Dropout2))

	return updated, nil
}

// NextRound pairs and persists the round after the latest one, which must be
// completely and validly scored.
func (d *Director) NextRound(ctx context.Context, id string) (*swiss.Round, error) {
	t, err := d.running(ctx, id)
	if err != nil {
		return nil, err
	}
	latest, err := d.latestNumber(ctx, id)
	if err != nil {
		return nil, err
	}
	unlock, err := d.lock(ctx, id, latest)
	if err != nil {
		return nil, err
	}
	defer d.unlock(ctx, unlock, id, latest)

	rounds, err := d.store.LoadRounds(ctx, id)
	if err != nil {
		return nil, err
	}
	if current := swiss.LatestRound(rounds); current == nil ||
		current.Number != latest {

		return nil, swiss.StateErrorf("round %d was generated concurrently",
			latest+1)
	}

	next, err := swiss.NextRound(t.Groups, rounds)
	if err != nil {
		d.logger.Info("next round rejected", zap.String("tournament", id),
			zap.Int("round", latest), zap.Error(err))
		return nil, err
	}
	next.CreatedAt = d.now()
	if err := d.store.SaveRound(ctx, id, next); err != nil {
		return nil, err
	}

	d.logger.Info("round paired", zap.String("tournament", id),
		zap.Int("round", next.Number), zap.Int("tables", len(next.Matches)))

	return next, nil
}

// RetractRound discards the latest round while nobody has reported on it.
// Round 1 cannot be retracted. It returns the number of the removed round.
func (d *Director) RetractRound(ctx context.Context, id string) (int, error) {
	if _, err := d.running(ctx, id); err != nil {
		return 0, err
	}
	latest, err := d.latestNumber(ctx, id)
	if err != nil {
		return 0, err
	}
	if latest <= 1 {
		return 0, swiss.StateErrorf("round %d cannot be retracted", latest)
	}
	unlock, err := d.lock(ctx, id, latest)
	if err != nil {
		return 0, err
	}
	defer d.unlock(ctx, unlock, id, latest)

	r, err := d.Round(ctx, id, latest)
	if err != nil {
		return 0, err
	}
	if !swiss.IsUnplayed(r) {
		return 0, swiss.StateErrorf("round %d has results and cannot be retracted",
			latest)
	}
	if err := d.store.DeleteRound(ctx, id, latest); err != nil {
		return 0, err
	}

	d.logger.Info("round retracted", zap.String("tournament", id),
		zap.Int("round", latest))

	return latest, nil
}

// SavePairings applies manual seat edits to the latest round before play
// starts. The bool result is false when nothing changed.
func (d *Director) SavePairings(ctx context.Context, id string, round int,
	edits []swiss.PairingEdit) (*swiss.Round, bool, error) {

	if _, err := d.running(ctx, id); err != nil {
		return nil, false, err
	}
	latest, err := d.latestNumber(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if round != latest {
		return nil, false, swiss.StateErrorf("only the current round %d can be re-paired",
			latest)
	}
	unlock, err := d.lock(ctx, id, round)
	if err != nil {
		return nil, false, err
	}
	defer d.unlock(ctx, unlock, id, round)

	r, err := d.Round(ctx, id, round)
	if err != nil {
		return nil, false, err
	}
	updated, changed, err := swiss.ReplacePairings(r, edits)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return r, false, nil
	}
	if err := d.store.SaveRound(ctx, id, updated); err != nil {
		return nil, false, err
	}

	d.logger.Info("pairings edited", zap.String("tournament", id),
		zap.Int("round", round), zap.Int("edits", len(edits)))

	return updated, true, nil
}

// EndTournament marks a tournament ended. Ending an ended tournament is a
// no-op.
func (d *Director) EndTournament(ctx context.Context, id string) (*store.Tournament, error) {
	t, err := d.Tournament(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsEnded() {
		return t, nil
	}

	t.Status = store.StatusEnded
	t.EndedAt = internal.FormatTimestamp(d.now())
	if err := d.store.SaveTournament(ctx, t); err != nil {
		return nil, err
	}

	d.logger.Info("tournament ended", zap.String("tournament", id))

	return t, nil
}

// GroupStandings is one table group's ranking.
type GroupStandings struct {
	Group swiss.TableGroup
	Rows  []swiss.Standing
}

// Standings ranks the group keyed group, or every group when group is empty,
// after round upTo, or after the latest round when upTo is 0.
func (d *Director) Standings(ctx context.Context, id string, group string,
	upTo int) ([]GroupStandings, error) {

	t, err := d.Tournament(ctx, id)
	if err != nil {
		return nil, err
	}
	groups, err := swiss.NewGroupIndex(t.Groups).Select(group)
	if err != nil {
		return nil, err
	}
	rounds, err := d.store.LoadRounds(ctx, id)
	if err != nil {
		return nil, err
	}
	if upTo == 0 {
		if latest := swiss.LatestRound(rounds); latest != nil {
			upTo = latest.Number
		}
	}

	ret := make([]GroupStandings, 0, len(groups))
	for _, g := range groups {
		ret = append(ret, GroupStandings{
			Group: g,
			Rows:  swiss.ComputeStandings(rounds, g, upTo),
		})
	}
	return ret, nil
}

// Dropouts returns the players currently withdrawn from a tournament.
func (d *Director) Dropouts(ctx context.Context, id string) (map[swiss.Player]bool, error) {
	rounds, err := d.Rounds(ctx, id)
	if err != nil {
		return nil, err
	}
	return swiss.Dropouts(rounds), nil
}

// List returns tournaments created at or after since, oldest first.
func (d *Director) List(ctx context.Context, since time.Time) ([]*store.Tournament, error) {
	all, err := d.store.ListTournaments(ctx)
	if err != nil {
		return nil, err
	}
	var ret []*store.Tournament
	for _, t := range all {
		if !t.Created().Before(since) {
			ret = append(ret, t)
		}
	}
	return ret, nil
}

// PlayerStats totals a player's results across every stored tournament.
func (d *Director) PlayerStats(ctx context.Context,
	name string) (swiss.PlayerStats, error) {

	all, err := d.store.ListTournaments(ctx)
	if err != nil {
		return swiss.PlayerStats{}, err
	}
	rounds, err := d.store.LoadAllRounds(ctx, all)
	if err != nil {
		return swiss.PlayerStats{}, err
	}
	return swiss.PlayerStatistics(swiss.Player(name), rounds), nil
}
