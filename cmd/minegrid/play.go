package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vancomm/minegrid/internal/command"
	"github.com/vancomm/minegrid/internal/config"
	"github.com/vancomm/minegrid/internal/mines"
	"github.com/vancomm/minegrid/internal/records"
	"github.com/vancomm/minegrid/internal/session"
)

var (
	size    int
	density float64
	seed    uint64
)

func init() {
	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Start a game",
		Long: `Start a game and read commands from stdin until EOF.

Examples:
  minegrid play
  minegrid play --size 9 --density 0.125
  minegrid play --seed 42 < moves.txt`,
		RunE: runPlay,
	}

	playCmd.Flags().IntVarP(&size, "size", "s", 0, "Board side length (default GAME_DEFAULT_SIZE or 16)")
	playCmd.Flags().Float64VarP(&density, "density", "d", 0, "Fraction of cells that are hazards (default GAME_DEFAULT_DENSITY or 0.16)")
	playCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for board generation, 0 for a random board")

	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewGame()
	if err != nil {
		return err
	}
	params := cfg.Defaults
	if cmd.Flags().Changed("size") {
		params.Size = size
	}
	if cmd.Flags().Changed("density") {
		params.Density = density
	}
	if err := params.Validate(); err != nil {
		return err
	}

	rnd := mines.NewRand()
	if seed != 0 {
		rnd = rand.New(rand.NewPCG(seed, seed))
	}

	var book *records.Book
	if recordsPath != "" {
		book, err = records.Open(recordsPath)
		if err != nil {
			return err
		}
		defer book.Close()
	}

	p, err := newPlayer(cmd.OutOrStdout(), params, rnd, book)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"game_id": p.game.ID,
		"params":  params.String(),
	}).Info("game started")

	return p.run(cmd.Context(), cmd.InOrStdin())
}

type player struct {
	out   io.Writer
	games *session.Registry
	game  *session.Game
	book  *records.Book
}

// newPlayer creates a game in a registry of its own. book may be nil.
func newPlayer(out io.Writer, params mines.Params, rnd *rand.Rand, book *records.Book) (*player, error) {
	games := session.NewRegistry(slogger, 24*time.Hour, rnd)
	game, err := games.Create(params, nil)
	if err != nil {
		return nil, err
	}
	return &player{out: out, games: games, game: game, book: book}, nil
}

func (p *player) run(ctx context.Context, in io.Reader) error {
	p.print()

	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		// runs before close, so errs is filled once lines is closed
		defer func() { errs <- scanner.Err() }()
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		if ctx.Err() != nil {
			log.Info("interrupted")
			return nil
		}
		select {
		case <-ctx.Done():
			log.Info("interrupted")
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-errs
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			p.handle(line)
		}
	}
}

// handle runs a single line. Bad input is reported to the player and never
// ends the game.
func (p *player) handle(line string) {
	cmd, err := command.Parse(line)
	if err != nil {
		fmt.Fprintf(p.out, "error: %s\n", err)
		return
	}
	log.WithField("command", cmd.String()).Debug("command")

	switch cmd.Kind {
	case command.Reset:
		game, err := p.games.Reset(p.game.ID)
		if err != nil {
			fmt.Fprintf(p.out, "error: %s\n", err)
			return
		}
		p.game = game
	case command.Noop:
	default:
		move, _, err := cmd.Apply(p.game)
		if err != nil {
			fmt.Fprintf(p.out, "error: %s\n", err)
			return
		}
		for _, o := range move.Outcomes {
			if o.Outcome == mines.Detonated {
				fmt.Fprintf(p.out, "boom at %d %d\n", o.Point.Row, o.Point.Col)
			}
		}
		if move.Finished {
			p.record(*move.Final)
		}
	}
	p.print()
}

func (p *player) record(s session.Snapshot) {
	log.WithFields(logrus.Fields{
		"game_id":  s.ID,
		"round":    s.Round,
		"status":   s.Status.String(),
		"playtime": s.Playtime().String(),
	}).Info("round finished")

	if p.book == nil {
		return
	}
	entry, ok := records.NewEntry(s)
	if !ok {
		return
	}
	if err := p.book.Put(entry); err != nil {
		log.WithError(err).Error("unable to save record")
	}
}

func (p *player) print() {
	s := p.game.Snapshot()
	fmt.Fprint(p.out, p.game.String())
	fmt.Fprintf(p.out, "round %d  %s  flags left %d\n", s.Round, s.Status, s.RemainingFlags)
	if s.Status != mines.InProgress {
		fmt.Fprintf(p.out, "%s in %.3fs, n for a new round\n", s.Status, s.Playtime().Seconds())
	}
}
