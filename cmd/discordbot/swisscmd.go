/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/mikeb26/cubeswiss/swiss"
	"go.uber.org/zap"
)

type SwissSubCommand string

const (
	SwissAboutCmd     SwissSubCommand = "about"
	SwissHelpCmd      SwissSubCommand = "help"
	SwissPairingsCmd  SwissSubCommand = "pairings"
	SwissStandingsCmd SwissSubCommand = "standings"
	SwissReportCmd    SwissSubCommand = "report"
	SwissNextCmd      SwissSubCommand = "next"
)

var swissSubCmdHdlrs = map[SwissSubCommand]CmdHandler{
	SwissAboutCmd:     swissAboutCmdHandler,
	SwissHelpCmd:      swissHelpCmdHandler,
	SwissPairingsCmd:  swissPairingsCmdHandler,
	SwissStandingsCmd: swissStandingsCmdHandler,
	SwissReportCmd:    swissReportCmdHandler,
	SwissNextCmd:      swissNextCmdHandler,
}

func swissCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	data := inter.ApplicationCommandData()
	hdlr := swissHelpCmdHandler
	if len(data.Options) > 0 {
		if subName := data.Options[0].Name; subName != "" {
			h, ok := swissSubCmdHdlrs[SwissSubCommand(subName)]
			if ok {
				hdlr = h
			}
		}
	}
	return hdlr(ctx, inter)
}

func newResponse() *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}
}

// subOptions indexes the options of the invoked subcommand by name.
func subOptions(
	inter *discordgo.Interaction) map[string]*discordgo.ApplicationCommandInteractionDataOption {

	ret := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	data := inter.ApplicationCommandData()
	if len(data.Options) == 0 {
		return ret
	}
	for _, opt := range data.Options[0].Options {
		ret[opt.Name] = opt
	}
	return ret
}

func broadcastOpt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption) bool {
	if opt, ok := opts["broadcast"]; ok {
		return opt.BoolValue()
	}
	return false
}

func intOpt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption,
	name string) int {

	if opt, ok := opts[name]; ok {
		return int(opt.IntValue())
	}
	return 0
}

func stringOpt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption,
	name string) string {

	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

func boolOpt(opts map[string]*discordgo.ApplicationCommandInteractionDataOption,
	name string) bool {

	if opt, ok := opts[name]; ok {
		return opt.BoolValue()
	}
	return false
}

// failed fills resp with a user-facing error and logs it.
func failed(resp *discordgo.InteractionResponse, cmd SwissSubCommand,
	format string, args ...any) *discordgo.InteractionResponse {

	resp.Data.Content = fmt.Sprintf(format, args...)
	logger.Info("command failed", zap.String("cmd", string(cmd)),
		zap.String("reason", resp.Data.Content))
	return resp
}

//go:embed about.txt
var aboutText string

func swissAboutCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	resp.Data.Content = truncateContent(aboutText)
	return resp
}

//go:embed help.md
var helpText string

func swissHelpCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	resp.Data.Content = truncateContent(helpText)
	return resp
}

// swissPairingsCmdHandler handles /swiss pairings to display the current
// round's pairings
func swissPairingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := subOptions(inter)
	id := stringOpt(opts, "id")
	if id == "" {
		return failed(resp, SwissPairingsCmd, "Please provide a tournament ID.")
	}

	t, err := td.Tournament(ctx, id)
	if err != nil {
		return failed(resp, SwissPairingsCmd, "Error fetching tournament %v: %v",
			id, err)
	}
	r, err := td.CurrentRound(ctx, id)
	if err != nil {
		return failed(resp, SwissPairingsCmd, "Error fetching pairings for %v: %v",
			id, err)
	}

	// Wrap output in code block for monospace formatting in Discord
	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(swiss.BuildPairingsOutput(t.Groups, r)))
	if broadcastOpt(opts) {
		resp.Data.Flags = 0
	}

	return resp
}

// swissStandingsCmdHandler handles /swiss standings
func swissStandingsCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := subOptions(inter)
	id := stringOpt(opts, "id")
	if id == "" {
		return failed(resp, SwissStandingsCmd, "Please provide a tournament ID.")
	}

	t, err := td.Tournament(ctx, id)
	if err != nil {
		return failed(resp, SwissStandingsCmd, "Error fetching tournament %v: %v",
			id, err)
	}
	groups, err := swiss.NewGroupIndex(t.Groups).Select(stringOpt(opts, "group"))
	if err != nil {
		return failed(resp, SwissStandingsCmd, "Error selecting group: %v", err)
	}
	rounds, err := td.Rounds(ctx, id)
	if err != nil {
		return failed(resp, SwissStandingsCmd, "Error fetching standings for %v: %v",
			id, err)
	}
	upTo := intOpt(opts, "round")
	if upTo == 0 {
		if latest := swiss.LatestRound(rounds); latest != nil {
			upTo = latest.Number
		}
	}

	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(swiss.BuildStandingsOutput(groups, rounds, upTo)))
	if broadcastOpt(opts) {
		resp.Data.Flags = 0
	}

	return resp
}

// swissReportCmdHandler handles /swiss report to record one table's result.
// Confirmations are shared with the channel so opponents can see them.
func swissReportCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := subOptions(inter)
	id := stringOpt(opts, "id")
	if id == "" {
		return failed(resp, SwissReportCmd, "Please provide a tournament ID.")
	}
	res := swiss.Result{
		Round:     intOpt(opts, "round"),
		Table:     intOpt(opts, "table"),
		PlayerOne: stringOpt(opts, "player1"),
		PlayerTwo: stringOpt(opts, "player2"),
		Score1:    intOpt(opts, "score1"),
		Score2:    intOpt(opts, "score2"),
		Draws:     intOpt(opts, "draws"),
		Dropout1:  boolOpt(opts, "drop1"),
		Dropout2:  boolOpt(opts, "drop2"),
	}
	if res.Round <= 0 || res.Table <= 0 {
		return failed(resp, SwissReportCmd, "Please provide a round and table.")
	}

	if _, err := td.SubmitResult(ctx, id, res); err != nil {
		return failed(resp, SwissReportCmd, "Error reporting table %d: %v",
			res.Table, err)
	}

	resp.Data.Content = fmt.Sprintf("Round %d table %d: %s %d-%d-%d %s",
		res.Round, res.Table, res.PlayerOne, res.Score1, res.Score2, res.Draws,
		res.PlayerTwo)
	resp.Data.Flags = 0

	return resp
}

// swissNextCmdHandler handles /swiss next to pair the following round
func swissNextCmdHandler(ctx context.Context,
	inter *discordgo.Interaction) *discordgo.InteractionResponse {

	resp := newResponse()
	opts := subOptions(inter)
	id := stringOpt(opts, "id")
	if id == "" {
		return failed(resp, SwissNextCmd, "Please provide a tournament ID.")
	}

	t, err := td.Tournament(ctx, id)
	if err != nil {
		return failed(resp, SwissNextCmd, "Error fetching tournament %v: %v",
			id, err)
	}
	r, err := td.NextRound(ctx, id)
	if err != nil {
		return failed(resp, SwissNextCmd, "Error pairing the next round: %v", err)
	}

	resp.Data.Content = fmt.Sprintf("```\n%s```",
		truncateContent(swiss.BuildPairingsOutput(t.Groups, r)))
	if broadcastOpt(opts) {
		resp.Data.Flags = 0
	}

	return resp
}

// https://discord.com/developers/docs/resources/channel#start-thread-in-forum-or-media-channel-forum-and-media-thread-message-params-object
// limits messages to 2k characters
func truncateContent(s string) string {
	const MsgLimit = 1988 // keep space for newlines and markdown
	runes := []rune(s)
	if len(runes) > MsgLimit {
		s = fmt.Sprintf("%v...", string(runes[:MsgLimit]))
	}
	return s
}
