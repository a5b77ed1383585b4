package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/onflow/corruptible-validator/cmd"
	"github.com/onflow/corruptible-validator/engine/collator"
	"github.com/onflow/corruptible-validator/model/flow"
	"github.com/onflow/corruptible-validator/module/component"
	"github.com/onflow/corruptible-validator/module/irrecoverable"
	"github.com/onflow/corruptible-validator/module/metrics"
	"github.com/onflow/corruptible-validator/module/spawner"
	"github.com/onflow/corruptible-validator/module/util"
	badgerstorage "github.com/onflow/corruptible-validator/storage/badger"
	"github.com/onflow/corruptible-validator/utils/rand"
)

const validationCodeSize = 1024

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "corrupted-validator",
		Short:        "Run a validator whose candidate backing can be corrupted, against a simulated relay chain",
		SilenceUsage: true,
	}
	addFlags(rootCmd.Flags())

	rootCmd.RunE = func(c *cobra.Command, _ []string) error {
		v, err := newViper(c.Flags())
		if err != nil {
			return err
		}
		cfg, err := loadConfig(v)
		if err != nil {
			return err
		}
		return run(cfg)
	}
	return rootCmd
}

func run(cfg config) error {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("variant", cfg.Variant).Logger()
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log = log.Level(level)

	gen, err := cfg.generator()
	if err != nil {
		return err
	}

	db, err := badger.Open(badger.DefaultOptions(cfg.DataDir).WithLogger(nil))
	if err != nil {
		return fmt.Errorf("could not open chain-state database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("could not close chain-state database")
		}
	}()

	pool, err := spawner.NewWorkerPool(log, cfg.SpawnerWorkers)
	if err != nil {
		return fmt.Errorf("could not create spawner: %w", err)
	}
	defer pool.Stop()

	registry := prometheus.NewRegistry()
	state := badgerstorage.NewChainState(metrics.NewCacheCollector(registry), db)

	o, handle, err := gen.Generate(cmd.OrchestratorGenArgs{
		Logger:         log,
		ChainState:     state,
		Spawner:        pool,
		BackingMetrics: metrics.NewBackingCollector(registry),
		MailboxSize:    cfg.MailboxSize,
	}, &cmd.ExtendedOrchestratorGenArgs{
		FetchTimeout:      cfg.FetchTimeout,
		CorruptionMetrics: metrics.NewCorruptionCollector(registry),
	})
	if err != nil {
		return fmt.Errorf("could not generate orchestrator: %w", err)
	}

	code, err := rand.Bytes(validationCodeSize)
	if err != nil {
		return fmt.Errorf("could not generate validation code: %w", err)
	}
	c, err := collator.New(flow.PartitionID(cfg.Partition), code)
	if err != nil {
		return fmt.Errorf("could not create collator: %w", err)
	}
	sim, err := collator.NewSimulator(log, c, state, handle, cfg.Validators, cfg.Interval)
	if err != nil {
		return fmt.Errorf("could not create simulator: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	signalerCtx, errChan := irrecoverable.WithSignaler(ctx)

	components := []component.Component{o, sim}
	if cfg.MetricsAddr != "" {
		components = append(components, metrics.NewServer(log, cfg.MetricsAddr, registry))
	}
	done := make([]<-chan struct{}, 0, len(components))
	for _, comp := range components {
		comp.Start(signalerCtx)
		done = append(done, comp.Done())
	}
	log.Info().Strs("subsystems", o.Subsystems()).Msg("corrupted validator started")

	// block until a SIGINT is received or a fatal error is encountered
	err = util.WaitError(errChan, ctx.Done())
	if err != nil {
		log.Error().Err(err).Msg("unhandled irrecoverable error")
	}

	// components stop before the database and the pool are closed by the deferred calls
	log.Info().Msg("corrupted validator shutting down")
	cancel()
	select {
	case <-util.AllClosed(done...):
	case <-time.After(10 * time.Second):
		log.Warn().Msg("shutdown timed out")
	}

	if err != nil {
		return fmt.Errorf("corrupted validator failed: %w", err)
	}
	log.Info().Msg("corrupted validator shutdown complete")
	return nil
}
