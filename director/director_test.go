/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package director

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/mikeb26/cubeswiss/internal"
	"github.com/mikeb26/cubeswiss/roundlock"
	"github.com/mikeb26/cubeswiss/store"
	"github.com/mikeb26/cubeswiss/swiss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestDirector(t *testing.T) *Director {
	return New(store.New(store.NewMemoryBlob()), roundlock.NewLocalLocker(),
		zaptest.NewLogger(t))
}

func sixPlayers() StartRequest {
	return StartRequest{
		Name: "Friday cube",
		Tables: []swiss.TableSpec{{Size: 6,
			Players: []string{"Ann", "Ben", "Cat", "Dov", "Eli", "Fay"}}},
		Seed: 11,
	}
}

func resultFor(m swiss.Match, round int, s1, s2, d int) swiss.Result {
	return swiss.Result{
		Round:     round,
		Table:     m.Table,
		PlayerOne: string(m.PlayerOne),
		PlayerTwo: m.PlayerTwo.String(),
		Score1:    s1,
		Score2:    s2,
		Draws:     d,
		TableSize: m.TableSize,
	}
}

func scoreRound(t *testing.T, d *Director, id string, r *swiss.Round) {
	ctx := context.Background()
	for _, m := range r.Matches {
		if m.IsBye() {
			continue
		}
		_, err := d.SubmitResult(ctx, id, resultFor(m, r.Number, 2, 1, 0))
		require.NoError(t, err)
	}
}

func TestSecondRoundAvoidsRematches(t *testing.T) {
	ctx := context.Background()
	d := newTestDirector(t)

	tour, r1, err := d.Start(ctx, sixPlayers())
	require.NoError(t, err)
	require.Len(t, r1.Matches, 3)

	_, err = d.NextRound(ctx, tour.ID)
	require.True(t, swiss.IsState(err), "got %v", err)
	require.Contains(t, err.Error(), "incomplete")

	scoreRound(t, d, tour.ID, r1)
	r2, err := d.NextRound(ctx, tour.ID)
	require.NoError(t, err)
	require.Equal(t, 2, r2.Number)
	require.Len(t, r2.Matches, 3)

	met := make(map[string]bool)
	key := func(a swiss.Player, b swiss.Seat) string {
		if string(a) < b.String() {
			return fmt.Sprintf("%s|%s", a, b)
		}
		return fmt.Sprintf("%s|%s", b, a)
	}
	for _, m := range r1.Matches {
		met[key(m.PlayerOne, m.PlayerTwo)] = true
	}
	for _, m := range r2.Matches {
		assert.False(t, met[key(m.PlayerOne, m.PlayerTwo)],
			"rematch %s vs %s", m.PlayerOne, m.PlayerTwo)
	}

	rounds, err := d.Rounds(ctx, tour.ID)
	require.NoError(t, err)
	require.Len(t, rounds, 2)

	standings, err := d.Standings(ctx, tour.ID, "", 1)
	require.NoError(t, err)
	require.Len(t, standings, 1)
	total := 0
	for _, s := range standings[0].Rows {
		total += s.Points
	}
	require.Equal(t, 9, total)
}

func TestByeRotates(t *testing.T) {
	ctx := context.Background()
	d := newTestDirector(t)

	tour, r1, err := d.Start(ctx, StartRequest{Tables: []swiss.TableSpec{{
		Size: 8, Players: []string{"A", "B", "C", "D", "E", "F", "G"}}}})
	require.NoError(t, err)
	require.NotZero(t, tour.Seed)
	require.Len(t, r1.Matches, 4)

	var firstBye swiss.Player
	for _, m := range r1.Matches {
		if m.IsBye() {
			firstBye = m.PlayerOne
			require.Equal(t, 2, *m.Score1)
		}
	}
	require.NotEmpty(t, firstBye)

	scoreRound(t, d, tour.ID, r1)
	r2, err := d.NextRound(ctx, tour.ID)
	require.NoError(t, err)
	for _, m := range r2.Matches {
		if m.IsBye() {
			require.NotEqual(t, firstBye, m.PlayerOne)
		}
	}
}

func TestSubmitResultErrors(t *testing.T) {
	ctx := context.Background()
	d := newTestDirector(t)
	tour, r1, err := d.Start(ctx, sixPlayers())
	require.NoError(t, err)
	m := r1.Matches[0]

	_, err = d.SubmitResult(ctx, "missing", resultFor(m, 1, 2, 0, 0))
	require.True(t, swiss.IsNotFound(err), "got %v", err)

	_, err = d.SubmitResult(ctx, tour.ID, resultFor(m, 4, 2, 0, 0))
	require.True(t, swiss.IsNotFound(err), "got %v", err)

	_, err = d.SubmitResult(ctx, tour.ID, resultFor(m, 1, 2, 2, 0))
	require.True(t, swiss.IsValidation(err), "got %v", err)

	stale := resultFor(m, 1, 2, 0, 0)
	stale.PlayerOne, stale.PlayerTwo = stale.PlayerTwo, stale.PlayerOne
	_, err = d.SubmitResult(ctx, tour.ID, stale)
	require.True(t, swiss.IsValidation(err), "got %v", err)

	// rejected submissions leave no partial write
	r, err := d.CurrentRound(ctx, tour.ID)
	require.NoError(t, err)
	require.True(t, swiss.IsUnplayed(r))
}

func TestDropoutsAreDerived(t *testing.T) {
	ctx := context.Background()
	d := newTestDirector(t)
	tour, r1, err := d.Start(ctx, sixPlayers())
	require.NoError(t, err)

	scoreRound(t, d, tour.ID, r1)
	m := r1.Matches[0]
	res := resultFor(m, 1, 2, 1, 0)
	res.Dropout2 = true
	_, err = d.SubmitResult(ctx, tour.ID, res)
	require.NoError(t, err)

	drops, err := d.Dropouts(ctx, tour.ID)
	require.NoError(t, err)
	require.Equal(t, map[swiss.Player]bool{m.PlayerTwo.Player: true}, drops)

	r2, err := d.NextRound(ctx, tour.ID)
	require.NoError(t, err)
	for _, next := range r2.Matches {
		require.False(t, next.Involves(m.PlayerTwo.Player))
	}
}

func TestCorrectionCannotChangeDropouts(t *testing.T) {
	ctx := context.Background()
	d := newTestDirector(t)
	tour, r1, err := d.Start(ctx, sixPlayers())
	require.NoError(t, err)
	scoreRound(t, d, tour.ID, r1)
	r2, err := d.NextRound(ctx, tour.ID)
	require.NoError(t, err)
	scoreRound(t, d, tour.ID, r2)

	m := r1.Matches[0]
	res := resultFor(m, 1, 2, 1, 0)
	res.Dropout1 = true
	_, err = d.SubmitResult(ctx, tour.ID, res)
	require.True(t, swiss.IsValidation(err), "got %v", err)
	require.Contains(t, err.Error(), "dropouts cannot change in round 1")

	// score corrections without a dropout change still go through
	res.Dropout1 = false
	res.Score2 = 0
	updated, err := d.SubmitResult(ctx, tour.ID, res)
	require.NoError(t, err)
	require.Equal(t, 0, *updated.Matches[0].Score2)

	drops, err := d.Dropouts(ctx, tour.ID)
	require.NoError(t, err)
	require.Empty(t, drops)

	r3, err := d.NextRound(ctx, tour.ID)
	require.NoError(t, err)
	seated := 0
	for _, next := range r3.Matches {
		if next.Involves(m.PlayerOne) {
			seated++
		}
	}
	require.Equal(t, 1, seated)
}

func TestCorrectionHoldsLatestRoundLock(t *testing.T) {
	ctx := context.Background()
	locker := roundlock.NewLocalLocker()
	d := New(store.New(store.NewMemoryBlob()), locker, zaptest.NewLogger(t))
	tour, r1, err := d.Start(ctx, sixPlayers())
	require.NoError(t, err)
	scoreRound(t, d, tour.ID, r1)
	r2, err := d.NextRound(ctx, tour.ID)
	require.NoError(t, err)

	// the latest round is being paired or edited elsewhere
	unlock, err := locker.TryLock(ctx, roundlock.Key(tour.ID, r2.Number))
	require.NoError(t, err)

	_, err = d.SubmitResult(ctx, tour.ID, resultFor(r1.Matches[0], 1, 2, 0, 0))
	require.True(t, swiss.IsState(err), "got %v", err)
	require.ErrorIs(t, err, roundlock.ErrLocked)

	// the round 1 lock was released on the way out
	unlockR1, err := locker.TryLock(ctx, roundlock.Key(tour.ID, 1))
	require.NoError(t, err)
	require.NoError(t, unlockR1(ctx))

	require.NoError(t, unlock(ctx))
	_, err = d.SubmitResult(ctx, tour.ID, resultFor(r1.Matches[0], 1, 2, 0, 0))
	require.NoError(t, err)
}

func TestStandingsForOneGroup(t *testing.T) {
	ctx := context.Background()
	d := newTestDirector(t)
	tour, r1, err := d.Start(ctx, StartRequest{Tables: []swiss.TableSpec{
		{Size: 6, Players: []string{"Ann", "Ben", "Cat", "Dov"}},
		{Size: 8, Players: []string{"Eli", "Fay"}},
	}, Seed: 3})
	require.NoError(t, err)
	scoreRound(t, d, tour.ID, r1)

	all, err := d.Standings(ctx, tour.ID, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)

	one, err := d.Standings(ctx, tour.ID, "8-B", 0)
	require.NoError(t, err)
	require.Len(t, one, 1)
	require.Equal(t, "8-B", one[0].Group.Key)
	require.Len(t, one[0].Rows, 2)

	_, err = d.Standings(ctx, tour.ID, "6-C", 0)
	require.True(t, swiss.IsNotFound(err), "got %v", err)
}

func TestRetractRound(t *testing.T) {
	ctx := context.Background()
	d := newTestDirector(t)
	tour, r1, err := d.Start(ctx, sixPlayers())
	require.NoError(t, err)

	_, err = d.RetractRound(ctx, tour.ID)
	require.True(t, swiss.IsState(err), "round 1 retracted: %v", err)

	scoreRound(t, d, tour.ID, r1)
	r2, err := d.NextRound(ctx, tour.ID)
	require.NoError(t, err)

	n, err := d.RetractRound(ctx, tour.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	cur, err := d.CurrentRound(ctx, tour.ID)
	require.NoError(t, err)
	require.Equal(t, 1, cur.Number)

	r2, err = d.NextRound(ctx, tour.ID)
	require.NoError(t, err)
	_, err = d.SubmitResult(ctx, tour.ID, resultFor(r2.Matches[0], 2, 2, 0, 0))
	require.NoError(t, err)
	_, err = d.RetractRound(ctx, tour.ID)
	require.True(t, swiss.IsState(err), "started round retracted: %v", err)
}

func TestSavePairings(t *testing.T) {
	ctx := context.Background()
	d := newTestDirector(t)
	tour, r1, err := d.Start(ctx, sixPlayers())
	require.NoError(t, err)

	a, b := r1.Matches[0], r1.Matches[1]
	edits := []swiss.PairingEdit{
		{Table: a.Table, PlayerOne: string(a.PlayerOne),
			PlayerTwo: string(b.PlayerOne)},
		{Table: b.Table, PlayerOne: a.PlayerTwo.String(),
			PlayerTwo: b.PlayerTwo.String()},
	}
	updated, changed, err := d.SavePairings(ctx, tour.ID, 1, edits)
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, b.PlayerOne, updated.Matches[0].PlayerTwo.Player)

	_, changed, err = d.SavePairings(ctx, tour.ID, 1, edits)
	require.NoError(t, err)
	require.False(t, changed)

	_, _, err = d.SavePairings(ctx, tour.ID, 2, edits)
	require.True(t, swiss.IsState(err))

	_, err = d.SubmitResult(ctx, tour.ID,
		resultFor(updated.Matches[0], 1, 2, 0, 0))
	require.NoError(t, err)
	_, _, err = d.SavePairings(ctx, tour.ID, 1, nil)
	require.True(t, swiss.IsState(err), "edit after start: %v", err)
}

func TestEndTournament(t *testing.T) {
	ctx := context.Background()
	d := newTestDirector(t)
	tour, r1, err := d.Start(ctx, sixPlayers())
	require.NoError(t, err)
	scoreRound(t, d, tour.ID, r1)

	ended, err := d.EndTournament(ctx, tour.ID)
	require.NoError(t, err)
	require.True(t, ended.IsEnded())
	require.NotEmpty(t, ended.EndedAt)

	again, err := d.EndTournament(ctx, tour.ID)
	require.NoError(t, err)
	require.Equal(t, ended.EndedAt, again.EndedAt)

	_, err = d.NextRound(ctx, tour.ID)
	require.True(t, swiss.IsState(err))
	_, err = d.SubmitResult(ctx, tour.ID, resultFor(r1.Matches[0], 1, 2, 0, 0))
	require.True(t, swiss.IsState(err))
	_, err = d.RetractRound(ctx, tour.ID)
	require.True(t, swiss.IsState(err))

	// standings stay readable
	standings, err := d.Standings(ctx, tour.ID, "", 0)
	require.NoError(t, err)
	require.Len(t, standings[0].Rows, 6)

	_, err = d.EndTournament(ctx, "missing")
	require.True(t, swiss.IsNotFound(err))
}

func TestStartRejectsBadRoster(t *testing.T) {
	d := newTestDirector(t)
	_, _, err := d.Start(context.Background(), StartRequest{
		Tables: []swiss.TableSpec{
			{Size: 6, Players: []string{"Ann", "Ben"}},
			{Size: 6, Players: []string{"Cat", "Ann"}},
		},
	})
	require.True(t, swiss.IsValidation(err), "got %v", err)
}

func TestSeedIsReproducible(t *testing.T) {
	ctx := context.Background()
	_, a, err := newTestDirector(t).Start(ctx, sixPlayers())
	require.NoError(t, err)
	_, b, err := newTestDirector(t).Start(ctx, sixPlayers())
	require.NoError(t, err)

	for idx := range a.Matches {
		require.Equal(t, a.Matches[idx].PlayerOne, b.Matches[idx].PlayerOne)
		require.Equal(t, a.Matches[idx].PlayerTwo, b.Matches[idx].PlayerTwo)
	}
}

func TestRoundLockContention(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	locker := roundlock.NewRedisLocker(client, time.Minute)

	d := New(store.New(store.NewMemoryBlob()), locker, zaptest.NewLogger(t))
	tour, r1, err := d.Start(ctx, sixPlayers())
	require.NoError(t, err)
	scoreRound(t, d, tour.ID, r1)

	unlock, err := locker.TryLock(ctx, roundlock.Key(tour.ID, 1))
	require.NoError(t, err)

	_, err = d.NextRound(ctx, tour.ID)
	require.True(t, swiss.IsState(err), "got %v", err)
	require.ErrorIs(t, err, roundlock.ErrLocked)

	require.NoError(t, unlock(ctx))
	r2, err := d.NextRound(ctx, tour.ID)
	require.NoError(t, err)
	require.Equal(t, 2, r2.Number)
	require.False(t, mr.Exists(roundlock.Key(tour.ID, 1)))
}

func TestListAndPlayerStats(t *testing.T) {
	ctx := context.Background()
	d := newTestDirector(t)
	clock := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return clock }

	first, r1, err := d.Start(ctx, sixPlayers())
	require.NoError(t, err)
	scoreRound(t, d, first.ID, r1)

	clock = clock.Add(7 * 24 * time.Hour)
	second, _, err := d.Start(ctx, sixPlayers())
	require.NoError(t, err)

	all, err := d.List(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, first.ID, all[0].ID)

	recent, err := d.List(ctx, clock.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, second.ID, recent[0].ID)

	stats, err := d.PlayerStats(ctx, "ann")
	require.NoError(t, err)
	require.Equal(t, 1, stats.TournamentsPlayed)
	require.Equal(t, 1, stats.TotalMatches())
}

func TestOpenLocal(t *testing.T) {
	ctx := context.Background()
	cfg := &internal.Config{DataDir: t.TempDir()}

	d, closer, err := Open(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer closer()

	tour, _, err := d.Start(ctx, sixPlayers())
	require.NoError(t, err)

	// a second Director over the same directory sees the tournament
	other, closer2, err := Open(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer closer2()
	got, err := other.Tournament(ctx, tour.ID)
	require.NoError(t, err)
	require.Equal(t, tour.Name, got.Name)
}

func TestOpenRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cfg := &internal.Config{DataDir: t.TempDir(), RedisAddr: mr.Addr()}

	d, closer, err := Open(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer closer()
	require.IsType(t, &roundlock.RedisLocker{}, d.locker)

	cfg.RedisAddr = "127.0.0.1:1"
	_, _, err = Open(ctx, cfg, zaptest.NewLogger(t))
	require.Error(t, err)
}
