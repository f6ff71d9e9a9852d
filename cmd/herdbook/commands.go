package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"herdbook/internal/core"
	"herdbook/internal/fixture"
	"herdbook/pkg/domain"
)

// cli holds the state shared by all commands of one invocation.
type cli struct {
	stdout io.Writer
	stderr io.Writer

	datasetPath string
	logLevel    string
	logFormat   string

	cfg    core.Config
	logger *slog.Logger
	store  domain.PersistentStore
	svc    *core.Service
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{stdout: stdout, stderr: stderr}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "herdbook",
		Short:         "Breeder registry with pedigree queries",
		Long:          "herdbook tracks animals, their parents and their owners, and ranks them by pedigree.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.datasetPath, "dataset", "", "YAML dataset used to seed an empty registry (default: embedded reference herd)")
	flags.StringVar(&c.logLevel, "log-level", "", "log level: debug|info|warn|error (overrides HERDBOOK_LOG_LEVEL)")
	flags.StringVar(&c.logFormat, "log-format", "", "log format: text|json (overrides HERDBOOK_LOG_FORMAT)")

	root.AddCommand(
		c.demoCommand(),
		c.animalsCommand(),
		c.breedersCommand(),
		c.ancestorsCommand(),
		c.descendantsCommand(),
		c.transferCommand(),
		c.exportCommand(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := core.LoadConfig()
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}
	if c.logFormat != "" {
		cfg.LogFormat = c.logFormat
	}
	logger, err := core.NewLogger(c.stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	metrics, err := core.NewMetricsRecorder(cfg.Metrics, nil)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	engine := core.DefaultRulesEngine()
	store, err := core.OpenStore(ctx, cfg.Storage, engine)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Storage.Driver, err)
	}
	c.cfg, c.logger, c.store = cfg, logger, store
	c.svc = core.NewService(store, engine, core.WithLogger(logger), core.WithMetricsRecorder(metrics))
	logger.Debug("store opened", "driver", string(cfg.Storage.Driver))
	return c.seed(ctx)
}

// seed applies the dataset when the store holds no breeders or animals, so
// persistent stores are only populated once.
func (c *cli) seed(ctx context.Context) error {
	snapshot, err := c.svc.Snapshot(ctx)
	if err != nil {
		return err
	}
	if len(snapshot.Breeders) > 0 || len(snapshot.Animals) > 0 {
		c.logger.Debug("store already populated", "breeders", len(snapshot.Breeders), "animals", len(snapshot.Animals))
		return nil
	}
	var ds fixture.Dataset
	if c.datasetPath != "" {
		ds, err = fixture.LoadFile(c.datasetPath)
	} else {
		ds, err = fixture.Reference()
	}
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	if err := ds.Apply(ctx, c.svc); err != nil {
		return fmt.Errorf("seed dataset: %w", err)
	}
	c.logger.Info("dataset applied", "breeders", len(ds.Breeders), "animals", len(ds.Animals), "transfers", len(ds.Transfers))
	return nil
}

func (c *cli) close() error {
	if c.store == nil {
		return nil
	}
	err := core.CloseStore(c.store)
	c.store = nil
	return err
}
