package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"legacy-modernizer/internal/classifier"
	"legacy-modernizer/internal/config"
	"legacy-modernizer/internal/generator"
	"legacy-modernizer/internal/logging"
	"legacy-modernizer/internal/model"
	"legacy-modernizer/internal/pipeline"
)

var (
	configPath string
	debug      bool
	forceMock  bool
)

var rootCmd = &cobra.Command{
	Use:   "modernizer",
	Short: "Analyse legacy COBOL programs and translate them to Java",
	Long: `modernizer scans fixed-format COBOL sources, scores their structural
complexity, classifies their migration risk, asks a generation service for a
Java translation and audits the result for lost variables and data access.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&forceMock, "mock", false, "Use the offline mock generator regardless of configuration")

	rootCmd.AddCommand(analyzeCmd, serveCmd, historyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds what every subcommand needs. Configuration problems abort
// here, before any program is scored.
type app struct {
	cfg *config.Config
	log *zap.SugaredLogger
	gen model.Generator
}

func setup(ctx context.Context) (*app, error) {
	log, err := logging.New(debug)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if forceMock {
		cfg.Generator.Provider = "mock"
	}

	gen, err := generator.New(ctx, cfg.Generator, log)
	if err != nil {
		return nil, fmt.Errorf("init generator: %w", err)
	}
	log.Debugw("configuration loaded", "config", configPath, "weights", cfg.Weights, "generator", gen.Name())

	return &app{cfg: cfg, log: log, gen: gen}, nil
}

func (a *app) pipeline(opts ...pipeline.Option) *pipeline.Pipeline {
	opts = append([]pipeline.Option{
		pipeline.WithGenerator(a.gen),
		pipeline.WithLogger(a.log),
	}, opts...)
	return pipeline.New(a.cfg.Weights, classifier.Default(), opts...)
}
