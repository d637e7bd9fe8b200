package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sheikh-saqib/payments-engine/internal/config"
	"github.com/sheikh-saqib/payments-engine/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/ledger"
	"github.com/sheikh-saqib/payments-engine/internal/logging"
	"github.com/sheikh-saqib/payments-engine/internal/models"
	"github.com/sheikh-saqib/payments-engine/internal/parser"
	"github.com/sheikh-saqib/payments-engine/internal/report"
	"github.com/sheikh-saqib/payments-engine/internal/storage/memory"
	"github.com/sheikh-saqib/payments-engine/internal/storage/postgres"
)

const exportTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run reads the transactions file named in args, writes the account report
// to stdout and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("engine", flag.ContinueOnError)
	fs.SetOutput(stderr)
	envFile := fs.String("env", "", "path to a .env file (default ./.env when present)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: engine [-env FILE] <transactions.csv>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}

	logger, err := logging.New(zapcore.AddSync(stderr), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	src, err := parser.Open(fs.Arg(0), logger)
	if err != nil {
		logger.Error("cannot read transactions", zap.Error(err))
		return 1
	}
	defer src.Close()

	processor := ledger.NewProcessor(memory.NewMemoryLedger(), memory.NewMemoryAccountTable(), logger)
	stats, err := processor.Run(ctx, src)
	if err != nil {
		logger.Error("processing aborted", zap.Error(err))
		return 1
	}

	accounts := processor.Snapshot()
	if err := report.WriteAccounts(stdout, accounts); err != nil {
		logger.Error("cannot write report", zap.Error(err))
		return 1
	}

	logger.Info("run finished",
		zap.Int("processed", stats.Processed),
		zap.Int("applied", stats.Applied),
		zap.Int("rejected", stats.RejectedTotal()),
		zap.Int("skipped_rows", src.Skipped()),
		zap.Int("accounts", len(accounts)),
	)

	if err := exportSnapshot(ctx, cfg, logger, runID, accounts); err != nil {
		logger.Error("snapshot export failed", zap.Error(err))
		return 1
	}
	return 0
}

// exportSnapshot hands the final accounts to every configured sink.
// All sinks are tried; their errors are joined.
func exportSnapshot(ctx context.Context, cfg *config.Config, logger *zap.Logger, runID string, accounts []models.Account) error {
	if !cfg.PostgresEnabled() && !cfg.KafkaEnabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, exportTimeout)
	defer cancel()

	var (
		sinks []interfaces.SnapshotSink
		errs  []error
	)

	if cfg.PostgresEnabled() {
		db, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			errs = append(errs, fmt.Errorf("postgres: %w", err))
		} else {
			defer db.Close()
			store := postgres.NewSnapshotStore(db, cfg.PostgresTable)
			if err := store.EnsureSchema(ctx); err != nil {
				errs = append(errs, fmt.Errorf("postgres schema: %w", err))
			} else {
				sinks = append(sinks, store)
			}
		}
	}

	if cfg.KafkaEnabled() {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		sinks = append(sinks, kafka.NewSnapshotSink(publisher))
	}

	for _, sink := range sinks {
		if err := sink.ExportSnapshot(ctx, runID, accounts); err != nil {
			errs = append(errs, err)
			continue
		}
		logger.Info("snapshot exported", zap.String("sink", fmt.Sprintf("%T", sink)), zap.Int("accounts", len(accounts)))
	}
	return errors.Join(errs...)
}
