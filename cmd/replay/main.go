package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/justinabrahms/asyncchess/internal/chess"
	"github.com/justinabrahms/asyncchess/internal/config"
	"github.com/justinabrahms/asyncchess/internal/game"
	"github.com/justinabrahms/asyncchess/internal/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("Replay failed")
	}
}

type options struct {
	configPath string
	rules      string
	ply        int
	pgn        bool
	follow     bool
	moves      []string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to a config file (default: search for config.yaml)")
	fs.StringVar(&opts.rules, "rules", "", "Override configured rules: standard or baseline")
	fs.IntVar(&opts.ply, "ply", -1, "Render the game after this many half-moves instead of the last one")
	fs.BoolVar(&opts.pgn, "pgn", false, "Print PGN movetext instead of the JSON state")
	fs.BoolVar(&opts.follow, "follow", false, "Print every game update as a JSON line before the result")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: replay [flags] MOVE...\n\n")
		fmt.Fprintf(stderr, "Replays moves in coordinate notation (e2e4, e7e8q) and prints the result.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	opts.moves = fs.Args()
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	var cfg *config.Config
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLogging(cfg.Logging, stderr)

	switch opts.rules {
	case "":
	case "standard":
		cfg.Rules = chess.StandardRules
	case "baseline":
		cfg.Rules = chess.BaselineRules
	default:
		return fmt.Errorf("unknown rules %q", opts.rules)
	}

	mem := store.NewMemory()
	var svcOpts []game.Option
	var hub *game.Hub
	if opts.follow {
		hubCtx, stop := context.WithCancel(ctx)
		defer stop()
		hub = game.NewHub()
		go hub.Run(hubCtx)
		svcOpts = append(svcOpts, game.WithHub(hub))
	}
	svc := game.NewService(mem, mem, cfg, svcOpts...)

	gameID, state, err := svc.NewGame(ctx)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	var sub *game.Subscription
	if hub != nil {
		sub = hub.Subscribe(gameID)
		defer sub.Close()
	}

	updates := json.NewEncoder(stdout)
	for _, m := range opts.moves {
		var changes int
		if state, changes, err = play(ctx, svc, gameID, m); err != nil {
			return err
		}
		if sub == nil {
			continue
		}
		for i := 0; i < changes; i++ {
			u, err := await(ctx, sub)
			if err != nil {
				return err
			}
			if err := updates.Encode(u); err != nil {
				return err
			}
		}
	}

	if opts.pgn {
		pgn, err := svc.GetPGN(ctx, gameID)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, pgn)
		return err
	}

	if opts.ply >= 0 {
		if state, err = svc.GetStateAtPly(ctx, gameID, opts.ply); err != nil {
			return err
		}
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

func setupLogging(cfg config.LoggingConfig, w io.Writer) {
	var out io.Writer = w
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: w}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	// Level was validated when the config was loaded
	level, _ := cfg.ZerologLevel()
	zerolog.SetGlobalLevel(level)
}

// play submits one coordinate move, resolving its promotion when the move
// names a piece. It also reports how many changes were recorded.
func play(ctx context.Context, svc *game.Service, gameID, text string) (chess.RenderedState, int, error) {
	from, to, promo, err := parseMove(text)
	if err != nil {
		return chess.RenderedState{}, 0, err
	}
	state, err := svc.ApplyMove(ctx, gameID, chess.Candidate{From: from, To: to})
	if err != nil {
		return chess.RenderedState{}, 0, fmt.Errorf("move %s: %w", text, err)
	}
	if promo == chess.NoPieceType {
		return state, 1, nil
	}
	state, err = svc.ApplyPromotion(ctx, gameID, promo)
	if err != nil {
		return chess.RenderedState{}, 1, fmt.Errorf("move %s: %w", text, err)
	}
	return state, 2, nil
}

// await blocks for the next update on sub.
func await(ctx context.Context, sub *game.Subscription) (game.Update, error) {
	select {
	case u, ok := <-sub.C:
		if !ok {
			return game.Update{}, errors.New("update feed closed")
		}
		return u, nil
	case <-ctx.Done():
		return game.Update{}, ctx.Err()
	}
}

// parseMove reads "e2e4" or "e7e8q".
func parseMove(s string) (from, to chess.Square, promo chess.PieceType, err error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 5 {
		return chess.NoSquare, chess.NoSquare, chess.NoPieceType, fmt.Errorf("invalid move %q", s)
	}
	if from, err = chess.ParseSquare(s[0:2]); err != nil {
		return chess.NoSquare, chess.NoSquare, chess.NoPieceType, err
	}
	if to, err = chess.ParseSquare(s[2:4]); err != nil {
		return chess.NoSquare, chess.NoSquare, chess.NoPieceType, err
	}
	if len(s) == 5 {
		if promo, err = chess.ParsePieceType(s[4:]); err != nil {
			return chess.NoSquare, chess.NoSquare, chess.NoPieceType, err
		}
	}
	return from, to, promo, nil
}
