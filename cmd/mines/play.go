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
	"github.com/snowzach/rotatefilehook"
	"github.com/spf13/cobra"

	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/session"
)

const playHelp = `commands:
  R C        click: reveal, or flag in flag mode
  o R C      open a cell
  f R C      toggle a flag
  c R C      chord around a number
  m [on|off] toggle flag mode
  n [name]   new game, optionally easy, medium or hard
  r          give up
  g          show the board
  h          this help
  q          quit
`

type playOptions struct {
	difficulty string
	seed       *uint64
	logFile    string
	tick       time.Duration
}

func newPlayCmd() *cobra.Command {
	var (
		opts = playOptions{tick: time.Second}
		seed uint64
	)

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("seed") {
				opts.seed = &seed
			}
			return runPlay(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	playCmd.Flags().StringVarP(&opts.difficulty, "difficulty", "d", mines.Easy.Name, "easy, medium or hard")
	playCmd.Flags().Uint64Var(&seed, "seed", 0, "deal reproducible boards")
	playCmd.Flags().StringVar(&opts.logFile, "log-file", "", "write a debug log to this file")

	return playCmd
}

// setupPlayLogging points the engine log at a rotating file, or silences it.
// The returned func restores the previous engine logger.
func setupPlayLogging(path string) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	if path != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   path,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Level:      logrus.DebugLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open log file: %w", err)
		}
		logger.AddHook(hook)
		logger.SetLevel(logrus.DebugLevel)
	}

	prev := mines.Log
	mines.Log = logger
	return logger, func() { mines.Log = prev }, nil
}

func render(out io.Writer, snap session.Snapshot) {
	mode := ""
	if snap.FlagMode {
		mode = " | flag mode"
	}
	fmt.Fprintf(out, "%s | mines left %d | %ds | %s%s\n",
		snap.Difficulty, snap.MinesLeft, snap.Elapsed, snap.Status, mode,
	)
	fmt.Fprint(out, snap.Grid.ToString(snap.Difficulty.Cols))
}

func runPlay(ctx context.Context, in io.Reader, out io.Writer, opts playOptions) error {
	log, restore, err := setupPlayLogging(opts.logFile)
	if err != nil {
		return err
	}
	defer restore()

	d, err := mines.ParseDifficulty(opts.difficulty)
	if err != nil {
		return err
	}

	r := mines.NewRand()
	if opts.seed != nil {
		r = rand.New(rand.NewPCG(*opts.seed, 0))
	}
	game, err := mines.NewGame(d, r)
	if err != nil {
		return err
	}

	s := session.New(ctx, "local", game, opts.tick, nil)
	defer s.Close()

	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	log.WithField("difficulty", d.String()).Info("game started")
	render(out, snap)

	scanner := bufio.NewScanner(in)
	for fmt.Fprint(out, "> "); scanner.Scan(); fmt.Fprint(out, "> ") {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "q", "quit":
			log.Info("game quit")
			return nil
		case "h", "help", "?":
			fmt.Fprint(out, playHelp)
			continue
		}

		prev := snap.Status
		snap, err = s.Do(func(g *mines.Game) error {
			return session.Execute(g, line)
		})
		entry := log.WithFields(logrus.Fields{
			"command": line,
			"status":  snap.Status.String(),
		})
		if err != nil {
			entry.WithError(err).Warn("command failed")
			fmt.Fprintln(out, "error:", err)
			continue
		}
		entry.Debug("command")
		render(out, snap)

		if snap.Status != prev {
			switch snap.Status {
			case mines.Won:
				fmt.Fprintf(out, "You won in %ds!\n", snap.Elapsed)
			case mines.Lost:
				fmt.Fprintln(out, "Boom. Type n for a new game.")
			}
		}
	}
	return scanner.Err()
}
