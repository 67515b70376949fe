package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/roster-engine/pkg/core/services"
	"github.com/jakechorley/roster-engine/pkg/snapshot"
)

// AllocateCmd creates the allocate command
func AllocateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Allocate staff to the shifts in a roster snapshot",
		Long: `Allocate staff to the shifts in a roster snapshot (YAML or JSON).

Overrides replace the allocator's choice for a shift with one of its listed
alternatives and are applied in the order given. Nothing is saved; the output
is a proposal to confirm elsewhere.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			preset, _ := cmd.Flags().GetString("preset")
			rawOverrides, _ := cmd.Flags().GetStringArray("override")
			asJSON, _ := cmd.Flags().GetBool("json")

			app.Logger.Debug("allocate command",
				zap.String("input", input),
				zap.String("preset", preset),
				zap.Strings("overrides", rawOverrides))

			overrides := make([]services.Override, 0, len(rawOverrides))
			for _, raw := range rawOverrides {
				o, err := services.ParseOverride(raw)
				if err != nil {
					return err
				}
				overrides = append(overrides, o)
			}

			roster, err := snapshot.LoadRoster(input)
			if err != nil {
				return fmt.Errorf("failed to load roster: %w", err)
			}

			result, err := services.AllocateShifts(app.Ctx, app.Cfg, app.Logger, roster, services.AllocateOptions{
				Preset:    preset,
				Overrides: overrides,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			renderRun(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "Roster snapshot file (YAML or JSON)")
	cmd.Flags().String("preset", "", "Weight preset for this run (balanced, cost_optimized, quality_first, fair_distribution)")
	cmd.Flags().StringArray("override", nil, "Override as shiftID=staffID (repeatable)")
	cmd.Flags().Bool("json", false, "Print the result as JSON")
	cmd.MarkFlagRequired("input")

	return cmd
}
