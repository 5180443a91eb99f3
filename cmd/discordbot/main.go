/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/bwmarrin/discordgo"
	"github.com/mikeb26/cubeswiss/director"
	"github.com/mikeb26/cubeswiss/internal"
	"go.uber.org/zap"
)

var (
	botPubKey ed25519.PublicKey
	td        *director.Director
	logger    = zap.NewNop()
)

type TopLevelCommand string

const SwissCmd TopLevelCommand = "swiss"

type CmdHandler func(ctx context.Context,
	i *discordgo.Interaction) *discordgo.InteractionResponse

var topLevelCmdHdlrs = map[TopLevelCommand]CmdHandler{
	SwissCmd: swissCmdHandler,
}

func interactionHandler(w http.ResponseWriter, r *http.Request) {
	if !discordgo.VerifyInteraction(r, botPubKey) {
		logger.Warn("failed to verify interaction",
			zap.String("remote", r.RemoteAddr))
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Warn("failed to read request body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var inter discordgo.Interaction
	if err := inter.UnmarshalJSON(body); err != nil {
		logger.Warn("failed to unmarshal interaction", zap.Error(err),
			zap.ByteString("body", body))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	resp := &discordgo.InteractionResponse{}
	if inter.Type == discordgo.InteractionPing {
		resp.Type = discordgo.InteractionResponsePong
	} else if inter.Type == discordgo.InteractionApplicationCommand {
		hdlr, ok :=
			topLevelCmdHdlrs[TopLevelCommand(inter.ApplicationCommandData().Name)]
		if !ok {
			resp.Type = discordgo.InteractionResponseChannelMessageWithSource
			resp.Data = &discordgo.InteractionResponseData{
				Content: fmt.Sprintf("unknown command '%v'",
					inter.ApplicationCommandData().Name),
				Flags: discordgo.MessageFlagsEphemeral,
			}
		} else {
			resp = hdlr(r.Context(), &inter)
		}
	} else {
		logger.Warn("unimplemented interaction type",
			zap.Int("type", int(inter.Type)))
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	rawResp, err := json.Marshal(resp)
	if err != nil {
		logger.Error("failed to marshal response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write(rawResp); err != nil {
		logger.Warn("failed to write response", zap.Error(err))
	}
}

func optionDesc(typ discordgo.ApplicationCommandOptionType, name, desc string,
	required bool) *discordgo.ApplicationCommandOption {

	return &discordgo.ApplicationCommandOption{
		Type:        typ,
		Name:        name,
		Description: desc,
		Required:    required,
	}
}

func swissCommand() *discordgo.ApplicationCommand {
	id := optionDesc(discordgo.ApplicationCommandOptionString, "id",
		"Tournament ID", true)
	broadcast := optionDesc(discordgo.ApplicationCommandOptionBoolean,
		"broadcast",
		"Share with the rest of the channel instead of only to you (default is false)",
		false)

	return &discordgo.ApplicationCommand{
		Name:        string(SwissCmd),
		Description: "Swiss tournament commands; try /swiss help to start",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissHelpCmd),
				Description: "Show usage for swiss",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissAboutCmd),
				Description: "Show information about cubeswiss",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissPairingsCmd),
				Description: "Show the current round's pairings",
				Options:     []*discordgo.ApplicationCommandOption{id, broadcast},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissStandingsCmd),
				Description: "Show the standings",
				Options: []*discordgo.ApplicationCommandOption{
					id,
					optionDesc(discordgo.ApplicationCommandOptionInteger,
						"round", "Standings after this round (default is latest)",
						false),
					optionDesc(discordgo.ApplicationCommandOptionString,
						"group", "Only this table group, e.g. 8-A (default is all)",
						false),
					broadcast,
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissReportCmd),
				Description: "Report the result of your table",
				Options: []*discordgo.ApplicationCommandOption{
					id,
					optionDesc(discordgo.ApplicationCommandOptionInteger,
						"round", "Round number", true),
					optionDesc(discordgo.ApplicationCommandOptionInteger,
						"table", "Table number", true),
					optionDesc(discordgo.ApplicationCommandOptionString,
						"player1", "Player 1 as paired", true),
					optionDesc(discordgo.ApplicationCommandOptionString,
						"player2", "Player 2 as paired", true),
					optionDesc(discordgo.ApplicationCommandOptionInteger,
						"score1", "Games won by player 1", true),
					optionDesc(discordgo.ApplicationCommandOptionInteger,
						"score2", "Games won by player 2", true),
					optionDesc(discordgo.ApplicationCommandOptionInteger,
						"draws", "Drawn games (default is 0)", false),
					optionDesc(discordgo.ApplicationCommandOptionBoolean,
						"drop1", "Player 1 drops after this round", false),
					optionDesc(discordgo.ApplicationCommandOptionBoolean,
						"drop2", "Player 2 drops after this round", false),
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        string(SwissNextCmd),
				Description: "Pair the next round once every table has reported",
				Options:     []*discordgo.ApplicationCommandOption{id, broadcast},
			},
		},
	}
}

// registerSlashCommands creates or overwrites the global /swiss command.
func registerSlashCommands(client *discordgo.Session, appID string) {
	cmd, err := client.ApplicationCommandCreate(appID, "", swissCommand())
	if err != nil {
		logger.Error("failed to register command", zap.Error(err))
		return
	}

	logger.Info("registered command", zap.String("name", cmd.Name),
		zap.String("cmd_id", cmd.ID))
}

func main() {
	ctx := context.Background()

	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("discordbot.main: %v", err)
	}
	logger, err = internal.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("discordbot.main: %v", err)
	}
	defer logger.Sync()

	pubKeyBytes, err := hex.DecodeString(cfg.DiscordPublicKey)
	if err != nil || len(pubKeyBytes) != ed25519.PublicKeySize {
		logger.Fatal("invalid public key",
			zap.String("env", internal.EnvDiscordKey), zap.Error(err))
	}
	botPubKey = ed25519.PublicKey(pubKeyBytes)

	var closer func()
	td, closer, err = director.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open tournament storage", zap.Error(err))
	}
	defer closer()

	if cfg.DiscordToken != "" && cfg.DiscordAppID != "" {
		client, err := discordgo.New("Bot " + cfg.DiscordToken)
		if err != nil {
			logger.Fatal("failed to initialize discord client", zap.Error(err))
		}
		go registerSlashCommands(client, cfg.DiscordAppID)
	}

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	logger.Info("starting server", zap.String("host", hostname),
		zap.Int("port", 8080))

	http.HandleFunc("/DiscordBot/Interaction", interactionHandler)
	if err := http.ListenAndServe(":8080", nil); err != nil {
		logger.Fatal("serve failed", zap.Error(err))
	}
}
