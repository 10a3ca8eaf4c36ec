package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gardar/formscribe/internal/server"
	"github.com/gardar/formscribe/internal/watch"
	"github.com/gardar/formscribe/pkg/vision"
)

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			// Parsing and script generation still work without a backend.
			var extractor vision.Extractor
			ex, closeExtractor, err := a.newExtractor(ctx, nil)
			if err != nil {
				a.logger.Warn("extraction disabled", zap.Error(err))
			} else {
				defer closeExtractor()
				extractor = ex
			}

			store, err := a.openHistory()
			if err != nil {
				return err
			}
			var hist server.History
			if store != nil {
				defer store.Close()
				hist = store
			}

			srv := server.New(a.newPipeline(extractor, store), hist, a.logger)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address; overrides server.addr")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		dir      string
		outDir   string
		backfill bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process images dropped into a folder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			if dir == "" {
				dir = a.cfg.Watch.Dir
			}
			if outDir == "" {
				outDir = a.cfg.Watch.OutDir
			}
			if dir == "" {
				return errors.New("no folder to watch: set --dir or watch.dir")
			}

			extractor, closeExtractor, err := a.newExtractor(ctx, nil)
			if err != nil {
				return err
			}
			defer closeExtractor()

			store, err := a.openHistory()
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			w := watch.New(dir, outDir, a.newPipeline(extractor, store), a.logger)
			if backfill {
				if err := w.Backfill(ctx); err != nil {
					return err
				}
			}
			if err := w.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Watching folder:", dir)
			<-ctx.Done()
			// In-flight images must finish before the history store and extractor close.
			w.Wait()
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Folder to watch; overrides watch.dir")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Folder for results; overrides watch.out_dir")
	cmd.Flags().BoolVar(&backfill, "backfill", false, "Process images already in the folder first")
	return cmd
}
