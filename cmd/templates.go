package cmd

import (
	"context"
	"fmt"
	"time"

	"controller-migrate/core/reconcile"
	"controller-migrate/feature/templates"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for migrate templates
	templateIDFlag   int
	allTemplatesFlag bool
	forceEEFlag      int
)

// templatesCmd migrates job templates from the source AWX to the target AAP.
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Migrate job templates (name + organization matching)",
	Long: `Migrate job templates from the source AWX into the target AAP.

Templates are matched by name within the target organization. Project
and inventory references are re-resolved by name on the target, and an
execution environment ID must be forced since source EE IDs do not
carry over. Credentials are attached after each create.

Examples:
  # Migrate every job template
  controller-migrate migrate templates --all --force-ee-id 3

  # Migrate a single template by its source ID
  controller-migrate migrate templates --template-id 17 --force-ee-id 3

  # Plan without touching the target
  controller-migrate migrate templates --all --force-ee-id 3 --dry-run`,
	RunE: runTemplates,
}

func init() {
	templatesCmd.Flags().IntVar(&templateIDFlag, "template-id", 0, "Migrate a single job template by source ID")
	templatesCmd.Flags().BoolVar(&allTemplatesFlag, "all", false, "Migrate every source job template")
	templatesCmd.Flags().IntVar(&forceEEFlag, "force-ee-id", 0, "Target execution environment ID forced onto migrated templates (required)")

	migrateCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if templateIDFlag == 0 && !allTemplatesFlag {
		return fmt.Errorf("either --template-id or --all is required")
	}
	if forceEEFlag <= 0 {
		return fmt.Errorf("--force-ee-id is required")
	}

	env, err := newRunEnv(ctx)
	if err != nil {
		return err
	}
	startedAt := time.Now()
	orgID := env.cfg.Target.Organization

	// The forced EE must exist and belong to the target organization
	// (or be globally scoped) before anything is planned.
	ee, err := env.target.GetExecutionEnvironment(ctx, forceEEFlag)
	if err != nil {
		return fmt.Errorf("failed to resolve execution environment %d: %w", forceEEFlag, err)
	}
	if ee.Organization != nil && *ee.Organization != orgID {
		return fmt.Errorf("execution environment %q belongs to organization %d, not %d", ee.Name, *ee.Organization, orgID)
	}

	refs, err := buildTemplateRefs(ctx, env, forceEEFlag)
	if err != nil {
		return err
	}
	adapter := templates.NewAdapter(orgID, refs, env.source, env.target)

	opts, err := planOptions(reconcile.ModeReconcile)
	if err != nil {
		return err
	}

	// Source listing
	var items []reconcile.Item
	if allTemplatesFlag {
		list, err := env.source.ListJobTemplates(ctx)
		if err != nil {
			return fmt.Errorf("failed to list source job templates: %w", err)
		}
		items = asItems(list)
	} else {
		jt, err := env.source.GetJobTemplate(ctx, templateIDFlag)
		if err != nil {
			return fmt.Errorf("failed to fetch source job template %d: %w", templateIDFlag, err)
		}
		items = []reconcile.Item{jt}
	}
	env.log.Info("Fetched source job templates", zap.Int("count", len(items)))

	targetJTs, err := env.target.ListJobTemplates(ctx)
	if err != nil {
		return fmt.Errorf("failed to list target job templates: %w", err)
	}
	ix := reconcile.BuildIndex(adapter, "target", asItems(targetJTs))
	logIndexDiagnostics(env.log, ix)

	plan := reconcile.BuildPlan(adapter, items, []*reconcile.Index{ix}, opts)
	entries, summary := reconcile.Execute(ctx, plan, env.target, adapter, dryRunFlag)

	return finishRun(ctx, env, reconcile.KindJobTemplate, reconcile.ModeReconcile, entries, summary, startedAt)
}

// buildTemplateRefs resolves target-side project and inventory IDs by
// name so payload construction stays free of API calls.
func buildTemplateRefs(ctx context.Context, env *runEnv, eeID int) (templates.Refs, error) {
	refs := templates.Refs{
		Projects:               map[string]int{},
		Inventories:            map[string]int{},
		ExecutionEnvironmentID: eeID,
	}

	targetProjects, err := env.target.ListProjects(ctx)
	if err != nil {
		return refs, fmt.Errorf("failed to list target projects: %w", err)
	}
	for _, p := range targetProjects {
		if _, ok := refs.Projects[p.Name]; !ok {
			refs.Projects[p.Name] = p.ID
		}
	}

	inventories, err := env.target.ListInventories(ctx)
	if err != nil {
		return refs, fmt.Errorf("failed to list target inventories: %w", err)
	}
	for _, inv := range inventories {
		if _, ok := refs.Inventories[inv.Name]; !ok {
			refs.Inventories[inv.Name] = inv.ID
		}
	}

	return refs, nil
}
