package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/roster-engine/pkg/core/services"
)

// PresetsCmd creates the presets command
func PresetsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the scoring weight presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Logger.Debug("presets command")
			renderPresets(cmd.OutOrStdout(), services.ListPresets())
			return nil
		},
	}
}
