package cmd

import (
	"fmt"
	"time"

	"controller-migrate/core/reconcile"
	"controller-migrate/feature/schedules"
	"controller-migrate/feature/templates"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// schedulesCmd migrates schedules onto job templates that already
// exist on the target.
var schedulesCmd = &cobra.Command{
	Use:   "schedules",
	Short: "Migrate schedules onto already-migrated job templates",
	Long: `Migrate schedules from the source AWX into the target AAP.

A schedule is only created when its owning job template already exists
on the target; schedules whose template is absent are skipped, as are
schedules already present under the matched template. Credentials,
surveys, and notification sub-objects are never touched in this mode.

Examples:
  # Migrate all schedules whose templates already exist on the target
  controller-migrate migrate schedules

  # Plan without touching the target
  controller-migrate migrate schedules --dry-run`,
	RunE: runSchedules,
}

func init() {
	migrateCmd.AddCommand(schedulesCmd)
}

func runSchedules(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	env, err := newRunEnv(ctx)
	if err != nil {
		return err
	}
	startedAt := time.Now()
	orgID := env.cfg.Target.Organization

	adapter := schedules.NewAdapter(orgID)

	opts, err := planOptions(reconcile.ModeSchedulesOnly)
	if err != nil {
		return err
	}

	// Source schedules, gathered template by template so each carries
	// its owning template's name.
	sourceJTs, err := env.source.ListJobTemplates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list source job templates: %w", err)
	}

	var items []reconcile.Item
	for i := range sourceJTs {
		jt := &sourceJTs[i]
		scheds, err := env.source.ListTemplateSchedules(ctx, jt.ID)
		if err != nil {
			return fmt.Errorf("failed to list schedules for template %q: %w", jt.Name, err)
		}
		for j := range scheds {
			items = append(items, &schedules.Item{Schedule: scheds[j], TemplateName: jt.Name})
		}
	}
	env.log.Info("Fetched source schedules",
		zap.Int("templates", len(sourceJTs)),
		zap.Int("schedules", len(items)),
	)

	// Target template index gates which schedules may be created.
	targetJTs, err := env.target.ListJobTemplates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list target job templates: %w", err)
	}
	tplAdapter := templates.NewAdapter(orgID, templates.Refs{}, nil, nil)
	tplIndex := reconcile.BuildIndex(tplAdapter, "target", asItems(targetJTs))
	logIndexDiagnostics(env.log, tplIndex)

	// Existing schedules under the target's templates, so re-runs skip
	// what a previous run already created.
	var existingItems []reconcile.Item
	for i := range targetJTs {
		jt := &targetJTs[i]
		scheds, err := env.target.ListTemplateSchedules(ctx, jt.ID)
		if err != nil {
			return fmt.Errorf("failed to list target schedules for template %q: %w", jt.Name, err)
		}
		for j := range scheds {
			existingItems = append(existingItems, &schedules.Item{Schedule: scheds[j], TemplateName: jt.Name})
		}
	}
	existingIndex := reconcile.BuildIndex(adapter, "target", existingItems)
	logIndexDiagnostics(env.log, existingIndex)

	plan := reconcile.BuildSchedulePlan(adapter, items, tplIndex, existingIndex, opts)
	entries, summary := reconcile.Execute(ctx, plan, env.target, adapter, dryRunFlag)

	return finishRun(ctx, env, reconcile.KindSchedule, reconcile.ModeSchedulesOnly, entries, summary, startedAt)
}
