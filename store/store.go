/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mikeb26/cubeswiss/internal"
	"github.com/mikeb26/cubeswiss/swiss"
	"golang.org/x/sync/errgroup"
)

const (
	rootPrefix       = "tournaments/"
	tournamentObject = "tournament.json"
	roundsDir        = "rounds/"

	// maxConcurrentLoads bounds parallel Gets per listing.
	maxConcurrentLoads = 8
)

type Status string

const (
	StatusRunning Status = "running"
	StatusEnded   Status = "ended"
)

// Tournament is the persisted header of a tournament. Rounds are stored as
// separate objects beside it.
type Tournament struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Status    Status             `json:"status"`
	CreatedAt string             `json:"created_at"`
	EndedAt   string             `json:"ended_at,omitempty"`
	Seed      int64              `json:"seed"`
	Groups    []swiss.TableGroup `json:"groups"`
}

func (t *Tournament) IsEnded() bool {
	return t.Status == StatusEnded
}

// Created returns the creation time, or the zero time if it is unparseable.
func (t *Tournament) Created() time.Time {
	ts, err := internal.ParseDateOrZero(t.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Store persists tournaments and rounds as JSON objects in a Blob:
//
//	tournaments/<id>/tournament.json
//	tournaments/<id>/rounds/<n>.json
type Store struct {
	blob Blob
}

func New(blob Blob) *Store {
	return &Store{blob: blob}
}

func (s *Store) Blob() Blob {
	return s.blob
}

func NewTournamentID() string {
	return uuid.NewString()
}

func tournamentKey(id string) string {
	return rootPrefix + id + "/" + tournamentObject
}

func roundsPrefix(id string) string {
	return rootPrefix + id + "/" + roundsDir
}

func roundKey(id string, number int) string {
	return fmt.Sprintf("%s%04d.json", roundsPrefix(id), number)
}

func (s *Store) SaveTournament(ctx context.Context, t *Tournament) error {
	if t.ID == "" {
		return fmt.Errorf("store.savetournament: tournament has no id")
	}
	return s.putJSON(ctx, tournamentKey(t.ID), t)
}

// LoadTournament returns ErrNotExist (wrapped) for unknown ids.
func (s *Store) LoadTournament(ctx context.Context, id string) (*Tournament, error) {
	var t Tournament
	if err := s.getJSON(ctx, tournamentKey(id), &t); err != nil {
		return nil, fmt.Errorf("store.loadtournament: %v: %w", id, err)
	}
	return &t, nil
}

// ListTournaments loads every tournament header, oldest first.
func (s *Store) ListTournaments(ctx context.Context) ([]*Tournament, error) {
	keys, err := s.blob.List(ctx, rootPrefix)
	if err != nil {
		return nil, fmt.Errorf("store.listtournaments: %w", err)
	}

	var headers []string
	for _, k := range keys {
		if path.Base(k) == tournamentObject {
			headers = append(headers, k)
		}
	}

	ret := make([]*Tournament, len(headers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for idx, key := range headers {
		g.Go(func() error {
			var t Tournament
			if err := s.getJSON(gctx, key, &t); err != nil {
				return fmt.Errorf("store.listtournaments: %v: %w", key, err)
			}
			ret[idx] = &t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(ret, func(i, j int) bool {
		ci, cj := ret[i].Created(), ret[j].Created()
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return ret[i].ID < ret[j].ID
	})
	return ret, nil
}

func (s *Store) SaveRound(ctx context.Context, id string, r *swiss.Round) error {
	if r.Number < 1 {
		return fmt.Errorf("store.saveround: invalid round number %d", r.Number)
	}
	return s.putJSON(ctx, roundKey(id, r.Number), r)
}

func (s *Store) LoadRound(ctx context.Context, id string, number int) (*swiss.Round, error) {
	var r swiss.Round
	if err := s.getJSON(ctx, roundKey(id, number), &r); err != nil {
		return nil, fmt.Errorf("store.loadround: %v round %d: %w", id, number,
			err)
	}
	return &r, nil
}

func (s *Store) DeleteRound(ctx context.Context, id string, number int) error {
	if err := s.blob.Delete(ctx, roundKey(id, number)); err != nil {
		return fmt.Errorf("store.deleteround: %v round %d: %w", id, number, err)
	}
	return nil
}

// RoundNumbers lists the stored round numbers of a tournament in ascending
// order without loading them.
func (s *Store) RoundNumbers(ctx context.Context, id string) ([]int, error) {
	keys, err := s.blob.List(ctx, roundsPrefix(id))
	if err != nil {
		return nil, fmt.Errorf("store.roundnumbers: %v: %w", id, err)
	}

	var ret []int
	for _, k := range keys {
		var n int
		name := strings.TrimPrefix(k, roundsPrefix(id))
		if _, err := fmt.Sscanf(name, "%d.json", &n); err != nil || n < 1 {
			continue
		}
		ret = append(ret, n)
	}
	sort.Ints(ret)
	return ret, nil
}

// LoadRounds fetches every round of a tournament concurrently and returns
// them ordered by number.
func (s *Store) LoadRounds(ctx context.Context, id string) ([]*swiss.Round, error) {
	numbers, err := s.RoundNumbers(ctx, id)
	if err != nil {
		return nil, err
	}

	ret := make([]*swiss.Round, len(numbers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for idx, n := range numbers {
		g.Go(func() error {
			r, err := s.LoadRound(gctx, id, n)
			if err != nil {
				return err
			}
			ret[idx] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ret, nil
}

// LoadAllRounds returns the rounds of every given tournament keyed by id.
func (s *Store) LoadAllRounds(ctx context.Context,
	tournaments []*Tournament) (map[string][]*swiss.Round, error) {

	var mu sync.Mutex
	ret := make(map[string][]*swiss.Round, len(tournaments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for _, t := range tournaments {
		g.Go(func() error {
			rounds, err := s.LoadRounds(gctx, t.ID)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			ret[t.ID] = rounds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ret, nil
}

func (s *Store) putJSON(ctx context.Context, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store.put: failed to encode %v: %w", key, err)
	}
	if err := s.blob.Put(ctx, key, data); err != nil {
		return fmt.Errorf("store.put: %v: %w", key, err)
	}
	return nil
}

func (s *Store) getJSON(ctx context.Context, key string, v any) error {
	data, err := s.blob.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("store.get: failed to decode %v: %w", key, err)
	}
	return nil
}

// IsNotExist reports whether err means a missing object.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}
