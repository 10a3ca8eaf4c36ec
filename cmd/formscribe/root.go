package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gardar/formscribe/internal/config"
	"github.com/gardar/formscribe/internal/history"
	"github.com/gardar/formscribe/internal/logging"
	"github.com/gardar/formscribe/pkg/pipeline"
	"github.com/gardar/formscribe/pkg/vision"
)

// app carries the global flags and what is built from them.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "formscribe",
		Short:         "Extract company registration forms from images",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to the config YAML file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")

	root.AddCommand(
		newExtractCmd(a),
		newParseCmd(a),
		newScriptCmd(a),
		newServeCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

// newExtractor builds the configured backend. debug receives the raw Document AI response;
// it is ignored for Gemini.
func (a *app) newExtractor(ctx context.Context, debug io.Writer) (vision.Extractor, func() error, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	switch a.cfg.Backend {
	case config.BackendDocumentAI:
		d, err := vision.NewDocumentAI(ctx, a.cfg.VisionDocumentAI(), a.cfg.Retry, a.logger)
		if err != nil {
			return nil, nil, err
		}
		if debug != nil {
			d.SetDebugWriter(debug)
		}
		return d, d.Close, nil
	default:
		g, err := vision.NewGemini(ctx, a.cfg.VisionGemini(), a.cfg.Retry, a.logger)
		if err != nil {
			return nil, nil, err
		}
		return g, func() error { return nil }, nil
	}
}

// openHistory opens the run log when one is configured. The returned store is nil otherwise.
func (a *app) openHistory() (*history.Store, error) {
	if a.cfg.History.Path == "" {
		return nil, nil
	}
	return history.Open(a.cfg.History.Path)
}

// newPipeline wires extractor and the optional history store into a pipeline.
func (a *app) newPipeline(extractor vision.Extractor, store *history.Store) *pipeline.Pipeline {
	opts := []pipeline.Option{pipeline.WithLogger(a.logger)}
	if store != nil {
		opts = append(opts, pipeline.WithRecorder(store))
	}
	return pipeline.New(extractor, opts...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "formscribe", version)
		},
	}
}

func createFile(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}
