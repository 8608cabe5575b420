package cmd

import (
	"fmt"
	"time"

	"controller-migrate/core/controller"
	"controller-migrate/core/reconcile"
	"controller-migrate/feature/projects"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for migrate projects
	projectIDFlag   int
	allProjectsFlag bool
	compareFlag     bool
)

// projectsCmd migrates projects from the source AWX to the target AAP.
var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Migrate projects (SCM URL + branch matching)",
	Long: `Migrate projects from the source AWX into the target AAP.

Projects are matched by normalized SCM URL and branch, so the same
repository spelled differently (trailing slash, .git suffix, default
port, host case) still counts as the same project.

Examples:
  # Migrate every project, updating ones already on the target
  controller-migrate migrate projects --all

  # Migrate a single project by its source ID
  controller-migrate migrate projects --project-id 42

  # Compare against the reference environment; create only what is
  # missing there, prefixed to avoid name collisions
  controller-migrate migrate projects --all --compare --prefix PROD_

  # Plan without touching the target
  controller-migrate migrate projects --all --dry-run`,
	RunE: runProjects,
}

func init() {
	projectsCmd.Flags().IntVar(&projectIDFlag, "project-id", 0, "Migrate a single project by source ID")
	projectsCmd.Flags().BoolVar(&allProjectsFlag, "all", false, "Migrate every source project")
	projectsCmd.Flags().BoolVar(&compareFlag, "compare", false, "Compare against the reference environment instead of updating matches")

	migrateCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if projectIDFlag == 0 && !allProjectsFlag {
		return fmt.Errorf("either --project-id or --all is required")
	}

	env, err := newRunEnv(ctx)
	if err != nil {
		return err
	}
	startedAt := time.Now()
	orgID := env.cfg.Target.Organization

	mode := reconcile.ModeReconcile
	keyMode := projects.KeyByName
	if compareFlag {
		mode = reconcile.ModeCompareOnly
		keyMode = projects.KeyBySCM
	}
	adapter := projects.NewAdapter(orgID, keyMode)

	opts, err := planOptions(mode)
	if err != nil {
		return err
	}

	// Source listing
	var items []reconcile.Item
	if allProjectsFlag {
		list, err := env.source.ListProjects(ctx)
		if err != nil {
			return fmt.Errorf("failed to list source projects: %w", err)
		}
		items = asItems(list)
	} else {
		p, err := env.source.GetProject(ctx, projectIDFlag)
		if err != nil {
			return fmt.Errorf("failed to fetch source project %d: %w", projectIDFlag, err)
		}
		items = []reconcile.Item{p}
	}
	env.log.Info("Fetched source projects", zap.Int("count", len(items)))

	// Indexes, probed reference first in compare mode
	var indexes []*reconcile.Index
	if compareFlag {
		if !env.cfg.Reference.Configured() {
			return fmt.Errorf("reference host is not configured (REFERENCE_HOST)")
		}
		ref := controller.NewSource(env.cfg.Reference)
		refProjects, err := ref.ListProjects(ctx)
		if err != nil {
			return fmt.Errorf("failed to list reference projects: %w", err)
		}
		ix := reconcile.BuildIndex(adapter, "reference", asItems(refProjects))
		logIndexDiagnostics(env.log, ix)
		indexes = append(indexes, ix)
	}

	targetProjects, err := env.target.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to list target projects: %w", err)
	}
	targetIx := reconcile.BuildIndex(adapter, "target", asItems(targetProjects))
	logIndexDiagnostics(env.log, targetIx)
	indexes = append(indexes, targetIx)

	plan := reconcile.BuildPlan(adapter, items, indexes, opts)
	entries, summary := reconcile.Execute(ctx, plan, env.target, adapter, dryRunFlag)

	return finishRun(ctx, env, reconcile.KindProject, mode, entries, summary, startedAt)
}
