package main

import (
	"context"
	"errors"
	"fmt"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/willbeason/mandelbrot/pkg/explorer"
	"github.com/willbeason/mandelbrot/pkg/terminal"
	"os"
	"os/signal"
)

func mainCmd() *cobra.Command {
	cfg := explorer.DefaultConfig()
	cfg.Workers = 0

	cmd := &cobra.Command{
		Use:   "term",
		Short: "Explore the fractal in a true-color terminal",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCmd(cmd, &cfg)
		},
	}

	// The terminal decides the grid size.
	explorer.BindFlags(cmd.Flags(), &cfg)
	_ = cmd.Flags().MarkHidden("width")
	_ = cmd.Flags().MarkHidden("height")

	return cmd
}

func runCmd(cmd *cobra.Command, cfg *explorer.Config) error {
	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	if err := cfg.Resolve(); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	v, err := terminal.NewViewer(screen, *cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	err = v.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func main() {
	ctx := context.Background()

	err := mainCmd().ExecuteContext(ctx)
	if err != nil {
		// At this point the error has already been printed; no need to print again.
		os.Exit(1)
	}
}
