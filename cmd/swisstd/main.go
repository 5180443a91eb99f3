/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mikeb26/cubeswiss/director"
	"github.com/mikeb26/cubeswiss/internal"
	"github.com/mikeb26/cubeswiss/report"
	"github.com/mikeb26/cubeswiss/roster"
	"github.com/mikeb26/cubeswiss/store"
	"github.com/mikeb26/cubeswiss/swiss"
	"go.uber.org/zap"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":      handleHelp,
	"start":     handleStart,
	"groupings": handleGroupings,
	"pairings":  handlePairings,
	"report":    handleReport,
	"next":      handleNext,
	"retract":   handleRetract,
	"edit":      handleEdit,
	"standings": handleStandings,
	"export":    handleExport,
	"end":       handleEnd,
	"list":      handleList,
	"player":    handlePlayer,
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

// env holds what every stateful command needs.
type env struct {
	cfg    *internal.Config
	logger *zap.Logger
	td     *director.Director
	close  func()
}

func openEnv(ctx context.Context) *env {
	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	logger, err := internal.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	td, closer, err := director.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Error opening tournament storage: %v", err)
	}

	return &env{
		cfg:    cfg,
		logger: logger,
		td:     td,
		close: func() {
			closer()
			_ = logger.Sync()
		},
	}
}

func requireID(fs *flag.FlagSet, id string) {
	if id == "" {
		fmt.Fprintln(os.Stderr, "Please provide a tournament --id.")
		fs.Usage()
		os.Exit(1)
	}
}

func handleStart(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("start", flag.ExitOnError)
	name := fs.String("name", "", "Tournament name")
	rosterFile := fs.String("roster", "", "Roster file (.txt, .json or .html)")
	url := fs.String("url", "", "Registration page to read the roster from")
	seed := fs.Int64("seed", 0, "Round 1 shuffle seed (0 picks one)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if (*rosterFile == "") == (*url == "") {
		fmt.Fprintln(os.Stderr, "Please provide exactly one of --roster or --url.")
		fs.Usage()
		os.Exit(1)
	}

	e := openEnv(ctx)
	defer e.close()

	var tables []swiss.TableSpec
	var err error
	if *rosterFile != "" {
		tables, err = roster.ReadFile(*rosterFile)
	} else {
		cache := store.NewHTTPCache(ctx, e.td.Store().Blob(), e.logger)
		client := internal.NewCachedHttpClient(cache, 15*time.Minute)
		tables, err = roster.Fetch(ctx, client, *url)
	}
	if err != nil {
		log.Fatalf("Error reading roster: %v", err)
	}

	if *seed == 0 {
		*seed = e.cfg.PairingSeed
	}
	t, r, err := e.td.Start(ctx, director.StartRequest{
		Name:   *name,
		Tables: tables,
		Seed:   *seed,
	})
	if err != nil {
		log.Fatalf("Error starting tournament: %v", err)
	}

	fmt.Printf("Started tournament %s (ID:%s, seed:%d)\n\n", t.Name, t.ID,
		t.Seed)
	fmt.Print(swiss.BuildPairingsOutput(t.Groups, r))
}

func handleGroupings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("groupings", flag.ExitOnError)
	players := fs.Int("players", 0, "Number of registered players")
	url := fs.String("url", "", "Registration page to count players from")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if *url != "" {
		cfg, err := internal.LoadConfig()
		if err != nil {
			log.Fatalf("Error loading configuration: %v", err)
		}
		var client *http.Client
		if cfg.DataDir != "" {
			blob, err := store.NewDirBlob(cfg.DataDir)
			if err != nil {
				log.Fatalf("Error opening %v: %v", cfg.DataDir, err)
			}
			client = internal.NewCachedHttpClient(
				store.NewHTTPCache(ctx, blob, zap.NewNop()), 15*time.Minute)
		} else {
			client = internal.NewCachedHttpClient(nil, 15*time.Minute)
		}
		tables, err := roster.Fetch(ctx, client, *url)
		if err != nil {
			log.Fatalf("Error reading roster: %v", err)
		}
		*players = 0
		for _, t := range tables {
			*players += len(t.Players)
		}
	}
	if *players < 2 {
		fmt.Fprintln(os.Stderr, "Please provide --players of at least 2 or a --url.")
		fs.Usage()
		os.Exit(1)
	}

	groupings := swiss.FindGroupings(*players, swiss.AllowedTableSizes)
	if len(groupings) == 0 {
		fmt.Printf("No way to seat %d players at tables of %v.\n", *players,
			swiss.AllowedTableSizes)
		return
	}
	fmt.Printf("Ways to seat %d players:\n", *players)
	for _, g := range groupings {
		fmt.Printf("  - %v\n", g)
	}
}

func handlePairings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("pairings", flag.ExitOnError)
	id := fs.String("id", "", "Tournament ID")
	round := fs.Int("round", 0, "Round number (0 for the current round)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireID(fs, *id)

	e := openEnv(ctx)
	defer e.close()

	t, err := e.td.Tournament(ctx, *id)
	if err != nil {
		log.Fatalf("Error fetching tournament %v: %v", *id, err)
	}
	var r *swiss.Round
	if *round == 0 {
		r, err = e.td.CurrentRound(ctx, *id)
	} else {
		r, err = e.td.Round(ctx, *id, *round)
	}
	if err != nil {
		log.Fatalf("Error fetching pairings for %v: %v", *id, err)
	}
	fmt.Print(swiss.BuildPairingsOutput(t.Groups, r))
}

func handleReport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	id := fs.String("id", "", "Tournament ID")
	var res swiss.Result
	fs.IntVar(&res.Round, "round", 0, "Round number")
	fs.IntVar(&res.Table, "table", 0, "Table number")
	fs.StringVar(&res.PlayerOne, "p1", "", "Player 1 as paired")
	fs.StringVar(&res.PlayerTwo, "p2", "", "Player 2 as paired (or BYE)")
	fs.IntVar(&res.Score1, "s1", 0, "Games won by player 1")
	fs.IntVar(&res.Score2, "s2", 0, "Games won by player 2")
	fs.IntVar(&res.Draws, "draws", 0, "Drawn games")
	fs.BoolVar(&res.Dropout1, "drop1", false, "Player 1 drops after this round")
	fs.BoolVar(&res.Dropout2, "drop2", false, "Player 2 drops after this round")
	fs.IntVar(&res.TableSize, "size", 0, "Table size of the player's group")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireID(fs, *id)
	if res.Round <= 0 || res.Table <= 0 {
		fmt.Fprintln(os.Stderr, "Please provide a valid --round and --table.")
		fs.Usage()
		os.Exit(1)
	}

	e := openEnv(ctx)
	defer e.close()

	if _, err := e.td.SubmitResult(ctx, *id, res); err != nil {
		log.Fatalf("Error reporting table %d: %v", res.Table, err)
	}
	fmt.Printf("Recorded round %d table %d: %s %d-%d-%d %s\n", res.Round,
		res.Table, res.PlayerOne, res.Score1, res.Score2, res.Draws,
		res.PlayerTwo)
}

func handleNext(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("next", flag.ExitOnError)
	id := fs.String("id", "", "Tournament ID")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireID(fs, *id)

	e := openEnv(ctx)
	defer e.close()

	t, err := e.td.Tournament(ctx, *id)
	if err != nil {
		log.Fatalf("Error fetching tournament %v: %v", *id, err)
	}
	r, err := e.td.NextRound(ctx, *id)
	if err != nil {
		log.Fatalf("Error generating the next round: %v", err)
	}
	fmt.Print(swiss.BuildPairingsOutput(t.Groups, r))
}

func handleRetract(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("retract", flag.ExitOnError)
	id := fs.String("id", "", "Tournament ID")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireID(fs, *id)

	e := openEnv(ctx)
	defer e.close()

	n, err := e.td.RetractRound(ctx, *id)
	if err != nil {
		log.Fatalf("Error retracting round: %v", err)
	}
	fmt.Printf("Retracted round %d\n", n)
}

func handleEdit(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	id := fs.String("id", "", "Tournament ID")
	round := fs.Int("round", 0, "Round number to edit")
	file := fs.String("file", "", "JSON file of table edits")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireID(fs, *id)
	if *round <= 0 || *file == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --round and --file.")
		fs.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Error reading %v: %v", *file, err)
	}
	var edits []swiss.PairingEdit
	if err := json.Unmarshal(data, &edits); err != nil {
		log.Fatalf("Error parsing %v: %v", *file, err)
	}

	e := openEnv(ctx)
	defer e.close()

	t, err := e.td.Tournament(ctx, *id)
	if err != nil {
		log.Fatalf("Error fetching tournament %v: %v", *id, err)
	}
	r, changed, err := e.td.SavePairings(ctx, *id, *round, edits)
	if err != nil {
		log.Fatalf("Error editing round %d: %v", *round, err)
	}
	if !changed {
		fmt.Println("Pairings unchanged.")
	}
	fmt.Print(swiss.BuildPairingsOutput(t.Groups, r))
}

func handleStandings(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("standings", flag.ExitOnError)
	id := fs.String("id", "", "Tournament ID")
	round := fs.Int("round", 0, "Standings after this round (0 for latest)")
	group := fs.String("group", "", "Only this table group (e.g. 8-A)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireID(fs, *id)

	e := openEnv(ctx)
	defer e.close()

	t, err := e.td.Tournament(ctx, *id)
	if err != nil {
		log.Fatalf("Error fetching tournament %v: %v", *id, err)
	}
	groups, err := swiss.NewGroupIndex(t.Groups).Select(*group)
	if err != nil {
		log.Fatalf("Error selecting group: %v", err)
	}
	rounds, err := e.td.Rounds(ctx, *id)
	if err != nil {
		log.Fatalf("Error fetching rounds for %v: %v", *id, err)
	}
	upTo := *round
	if upTo == 0 {
		if latest := swiss.LatestRound(rounds); latest != nil {
			upTo = latest.Number
		}
	}
	fmt.Print(swiss.BuildStandingsOutput(groups, rounds, upTo))
}

func handleExport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	id := fs.String("id", "", "Tournament ID")
	out := fs.String("out", "", "Output .xlsx path (default <id>.xlsx)")
	round := fs.Int("round", 0, "Standings after this round (0 for latest)")
	group := fs.String("group", "", "Only this table group (e.g. 8-A)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireID(fs, *id)
	if *out == "" {
		*out = *id + ".xlsx"
	}

	e := openEnv(ctx)
	defer e.close()

	t, err := e.td.Tournament(ctx, *id)
	if err != nil {
		log.Fatalf("Error fetching tournament %v: %v", *id, err)
	}
	groups, err := swiss.NewGroupIndex(t.Groups).Select(*group)
	if err != nil {
		log.Fatalf("Error selecting group: %v", err)
	}
	rounds, err := e.td.Rounds(ctx, *id)
	if err != nil {
		log.Fatalf("Error fetching rounds for %v: %v", *id, err)
	}
	upTo := *round
	if upTo == 0 {
		if latest := swiss.LatestRound(rounds); latest != nil {
			upTo = latest.Number
		}
	}
	data, err := report.Workbook(t.Name, groups, rounds, upTo)
	if err != nil {
		log.Fatalf("Error building workbook: %v", err)
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		log.Fatalf("Error writing %v: %v", *out, err)
	}
	fmt.Printf("Wrote %v\n", *out)
}

func handleEnd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("end", flag.ExitOnError)
	id := fs.String("id", "", "Tournament ID")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	requireID(fs, *id)

	e := openEnv(ctx)
	defer e.close()

	t, err := e.td.EndTournament(ctx, *id)
	if err != nil {
		log.Fatalf("Error ending tournament %v: %v", *id, err)
	}
	fmt.Printf("Tournament %s ended at %s\n", t.Name, t.EndedAt)
}

func handleList(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	since := fs.String("since", "", "Only tournaments created on or after this date")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	sinceTime, err := internal.ParseDateOrZero(*since)
	if err != nil {
		log.Fatalf("Error parsing --since %q: %v", *since, err)
	}

	e := openEnv(ctx)
	defer e.close()

	tournaments, err := e.td.List(ctx, sinceTime)
	if err != nil {
		log.Fatalf("Error listing tournaments: %v", err)
	}
	if len(tournaments) == 0 {
		fmt.Println("No tournaments found.")
		return
	}
	for _, t := range tournaments {
		fmt.Printf("  - %s %s [%s] (ID:%s)\n",
			t.Created().Format("2006-01-02"), t.Name, t.Status, t.ID)
	}
	fmt.Printf("\nRun '%s standings --id <ID>' to see a tournament's standings\n",
		os.Args[0])
}

func handlePlayer(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("player", flag.ExitOnError)
	name := fs.String("name", "", "Player name")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *name == "" {
		fmt.Fprintln(os.Stderr, "Please provide a player --name.")
		fs.Usage()
		os.Exit(1)
	}

	e := openEnv(ctx)
	defer e.close()

	stats, err := e.td.PlayerStats(ctx, *name)
	if err != nil {
		log.Fatalf("Error fetching player %v: %v", *name, err)
	}
	if stats.TournamentsPlayed == 0 {
		fmt.Printf("No results found for %v.\n", *name)
		return
	}
	fmt.Printf("Player: %s\n", stats.Player)
	fmt.Printf("Tournaments: %d\n", stats.TournamentsPlayed)
	fmt.Printf("Matches: %d-%d-%d (%s)\n", stats.MatchesWon,
		stats.MatchesLost, stats.MatchesDrawn,
		swiss.FormatPercent(stats.MatchWinPct))
	fmt.Printf("Games: %d-%d-%d (%s)\n", stats.GamesWon, stats.GamesLost,
		stats.GamesDrawn, swiss.FormatPercent(stats.GameWinPct))
	fmt.Printf("Byes: %d\n", stats.Byes)
	fmt.Printf("Unique opponents: %d\n", stats.UniqueOpponents)
}
