package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/roster-engine/pkg/core/services"
	"github.com/jakechorley/roster-engine/pkg/snapshot"
)

// ValidateTimesheetCmd creates the validateTimesheet command
func ValidateTimesheetCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validateTimesheet",
		Short: "Check a timesheet against its award and show the approval chain it needs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			asJSON, _ := cmd.Flags().GetBool("json")

			app.Logger.Debug("validateTimesheet command", zap.String("input", input))

			ts, err := snapshot.LoadTimesheet(input)
			if err != nil {
				return fmt.Errorf("failed to load timesheet: %w", err)
			}

			review, err := services.ReviewTimesheet(app.Ctx, app.Cfg, app.Logger, *ts, time.Now())
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), review)
			}
			renderReview(cmd.OutOrStdout(), review)
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "Timesheet file (YAML or JSON)")
	cmd.Flags().Bool("json", false, "Print the review as JSON")
	cmd.MarkFlagRequired("input")

	return cmd
}
