package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/tomz197/warthreads/internal/config"
	"github.com/tomz197/warthreads/internal/draw"
	"github.com/tomz197/warthreads/internal/loop/client"
	gameconfig "github.com/tomz197/warthreads/internal/loop/config"
	"github.com/tomz197/warthreads/internal/loop/match"
	"github.com/tomz197/warthreads/internal/loop/tui"
	"github.com/tomz197/warthreads/internal/object"
	"golang.org/x/term"
)

func main() {
	// stdout is the game screen, so logs go to a file or nowhere.
	logOut := io.Discard
	if path := config.GetEnv("GAME_LOG", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "warthreads")

	tuning, err := gameconfig.Load(config.GetEnv("GAME_TUNING", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load tuning: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.GetEnv("GAME_UI", "ansi") == "tcell" {
		err = runTcell(ctx, tuning, logger)
	} else {
		err = runANSI(ctx, tuning, logger)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func runANSI(ctx context.Context, tuning gameconfig.Tuning, logger *log.Logger) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()
	draw.EnterAltScreen(os.Stdout)
	defer draw.ExitAltScreen(os.Stdout)

	c := client.NewClient(bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Logger:       logger,
		StartTimeout: tuning.StartTimeout,
		Arena:        object.Arena{Width: tuning.ArenaWidth, Height: tuning.ArenaHeight},
	})
	m := match.New(c, match.Options{Tuning: tuning, Logger: logger})
	return c.Run(ctx, m)
}

func runTcell(ctx context.Context, tuning gameconfig.Tuning, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorDefault).Foreground(tcell.ColorWhite))
	screen.HideCursor()

	ui := tui.New(screen, tui.Options{
		Logger: logger,
		Arena:  object.Arena{Width: tuning.ArenaWidth, Height: tuning.ArenaHeight},
	})
	m := match.New(ui, match.Options{Tuning: tuning, Logger: logger})
	return ui.Run(ctx, m)
}
