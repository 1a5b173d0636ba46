package main

import (
	"context"
	"embed"
	"errors"
	"github.com/spf13/cobra"
	"github.com/willbeason/mandelbrot/pkg/explorer"
	"github.com/willbeason/mandelbrot/pkg/remote"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"
)

//go:embed static
var static embed.FS

func mainCmd() *cobra.Command {
	cfg := explorer.DefaultConfig()
	cfg.Workers = 0

	var addr string
	var origins []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the explorer to browsers over a websocket",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCmd(cmd, &cfg, addr, origins)
		},
	}

	explorer.BindFlags(cmd.Flags(), &cfg)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().StringSliceVar(&origins, "origins", nil, "extra origin patterns allowed to open a websocket")

	return cmd
}

func runCmd(cmd *cobra.Command, cfg *explorer.Config, addr string, origins []string) error {
	// At this point usage information has already been printed if obviously incorrect.
	cmd.SilenceUsage = true

	if err := cfg.Resolve(); err != nil {
		return err
	}

	ws, err := remote.NewServer(*cfg, remote.WithOriginPatterns(origins...))
	if err != nil {
		return err
	}

	root, err := fs.Sub(static, "static")
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", ws)
	mux.Handle("/", http.FileServer(http.FS(root)))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on http://localhost%s", addr)
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
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
