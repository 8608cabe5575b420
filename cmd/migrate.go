package cmd

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"controller-migrate/core/config"
	"controller-migrate/core/controller"
	"controller-migrate/core/database"
	"controller-migrate/core/logger"
	"controller-migrate/core/reconcile"
	"controller-migrate/core/storage"
	"controller-migrate/feature/receipt"
	"controller-migrate/feature/runlog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Shared flags for all migrate subcommands
	dryRunFlag  bool
	prefixFlag  string
	includeFlag string
	excludeFlag string
	limitFlag   int
)

// migrateCmd is the parent command for all migration operations.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate objects from the source AWX to the target AAP",
	Long: `Migrate objects of one kind from the source AWX instance into the
target AAP gateway. Each subcommand handles one object kind and writes
a receipt describing every decision the run made.`,
}

func init() {
	migrateCmd.PersistentFlags().BoolVar(&dryRunFlag, "dry-run", false, "Plan and report without mutating the target")
	migrateCmd.PersistentFlags().StringVar(&prefixFlag, "prefix", "", "Name prefix applied to objects created in compare mode")
	migrateCmd.PersistentFlags().StringVar(&includeFlag, "include", "", "Only process objects whose name matches this regexp")
	migrateCmd.PersistentFlags().StringVar(&excludeFlag, "exclude", "", "Skip objects whose name matches this regexp")
	migrateCmd.PersistentFlags().IntVar(&limitFlag, "limit", 0, "Stop after N in-scope objects (0 = no limit)")

	RootCmd.AddCommand(migrateCmd)
}

// runEnv bundles the configuration, logger, and API clients every
// migrate subcommand needs.
type runEnv struct {
	cfg    *config.Config
	log    *zap.Logger
	source *controller.SourceClient
	target *controller.TargetClient
}

// newRunEnv loads configuration and verifies the target is reachable
// before any listing or mutation happens.
func newRunEnv(ctx context.Context) (*runEnv, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if !cfg.Source.Configured() {
		return nil, fmt.Errorf("source host is not configured (SOURCE_HOST)")
	}
	if !cfg.Target.Configured() {
		return nil, fmt.Errorf("target host is not configured (TARGET_HOST)")
	}

	target := controller.NewTarget(cfg.Target)
	if err := target.Ping(ctx); err != nil {
		return nil, fmt.Errorf("target is unreachable: %w", err)
	}
	if err := target.EnsureOrganization(ctx); err != nil {
		return nil, fmt.Errorf("target organization check failed: %w", err)
	}

	return &runEnv{
		cfg:    cfg,
		log:    l,
		source: controller.NewSource(cfg.Source),
		target: target,
	}, nil
}

// planOptions builds engine options from the shared flags.
func planOptions(mode reconcile.Mode) (reconcile.PlanOptions, error) {
	opts := reconcile.PlanOptions{Mode: mode, Prefix: prefixFlag, Limit: limitFlag}

	if includeFlag != "" {
		re, err := regexp.Compile(includeFlag)
		if err != nil {
			return opts, fmt.Errorf("invalid --include pattern: %w", err)
		}
		opts.Include = re
	}
	if excludeFlag != "" {
		re, err := regexp.Compile(excludeFlag)
		if err != nil {
			return opts, fmt.Errorf("invalid --exclude pattern: %w", err)
		}
		opts.Exclude = re
	}
	return opts, nil
}

// asItems converts a typed listing into engine items.
func asItems[T any](list []T) []reconcile.Item {
	items := make([]reconcile.Item, 0, len(list))
	for i := range list {
		items = append(items, &list[i])
	}
	return items
}

// logIndexDiagnostics surfaces duplicate keys and per-object
// normalization skips collected while indexing.
func logIndexDiagnostics(l *zap.Logger, ix *reconcile.Index) {
	for _, w := range ix.Warnings() {
		l.Warn("Duplicate comparison key",
			zap.String("index", ix.Label()),
			zap.String("detail", w.String()),
		)
	}
	for _, s := range ix.Skipped() {
		l.Warn("Object excluded from index",
			zap.String("index", ix.Label()),
			zap.String("name", s.Name),
			zap.Error(s.Err),
		)
	}
}

// finishRun writes the receipt, records run history when configured,
// logs the summary, and maps partial failures to the command error.
func finishRun(ctx context.Context, env *runEnv, kind reconcile.Kind, mode reconcile.Mode, entries []reconcile.ReceiptEntry, summary reconcile.Summary, startedAt time.Time) error {
	header := receipt.Header{
		RunID:        uuid.NewString(),
		Kind:         kind,
		Mode:         mode,
		Source:       env.cfg.Source.Host,
		Reference:    env.cfg.Reference.Host,
		Target:       env.cfg.Target.Host,
		Organization: env.cfg.Target.Organization,
		DryRun:       dryRunFlag,
		Prefix:       prefixFlag,
		StartedAt:    startedAt,
	}
	rec := receipt.New(header, entries, summary)

	path, err := rec.Write(env.cfg.Receipt.Dir)
	if err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	env.log.Info("Receipt written", zap.String("path", path))

	if env.cfg.Receipt.Upload {
		if client, err := storage.NewClient(env.cfg.Storage); err != nil {
			env.log.Warn("Receipt upload skipped", zap.Error(err))
		} else if object, err := rec.Upload(ctx, client, env.cfg.Storage.Bucket); err != nil {
			env.log.Warn("Receipt upload failed", zap.Error(err))
		} else {
			env.log.Info("Receipt uploaded", zap.String("object", object))
		}
	}

	if env.cfg.Database.Enabled {
		recordRun(ctx, env, header, summary, path, startedAt)
	}

	env.log.Info("Run complete",
		zap.String("kind", string(kind)),
		zap.String("mode", string(mode)),
		zap.Bool("dry_run", dryRunFlag),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Int("filtered", summary.Filtered),
	)

	if summary.HasFailures() {
		return fmt.Errorf("%d object(s) failed: %w", summary.Failed, reconcile.ErrPartialFailure)
	}
	return nil
}

// recordRun appends the run to the optional history database. History
// is best-effort; failures degrade to warnings.
func recordRun(ctx context.Context, env *runEnv, header receipt.Header, summary reconcile.Summary, receiptPath string, startedAt time.Time) {
	db, err := database.Connect(env.cfg.Database)
	if err != nil {
		env.log.Warn("Run history skipped", zap.Error(err))
		return
	}

	store := runlog.NewStore(db)
	if err := store.Migrate(); err != nil {
		env.log.Warn("Run history migration failed", zap.Error(err))
		return
	}

	run := &runlog.Run{
		ID:          header.RunID,
		Kind:        string(header.Kind),
		Mode:        string(header.Mode),
		DryRun:      header.DryRun,
		Created:     summary.Created,
		Updated:     summary.Updated,
		Skipped:     summary.Skipped,
		Failed:      summary.Failed,
		Filtered:    summary.Filtered,
		ReceiptPath: receiptPath,
		StartedAt:   startedAt,
		FinishedAt:  time.Now(),
	}
	if err := store.Save(ctx, run); err != nil {
		env.log.Warn("Run history save failed", zap.Error(err))
	}
}
