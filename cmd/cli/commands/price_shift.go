package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/roster-engine/pkg/core/services"
)

// PriceShiftCmd creates the priceShift command
func PriceShiftCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "priceShift",
		Short: "Price a worked shift under an award's overtime and penalty rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, _ := cmd.Flags().GetFloat64("hours")
			rawRate, _ := cmd.Flags().GetString("rate")
			award, _ := cmd.Flags().GetString("award")
			day, _ := cmd.Flags().GetString("day")
			date, _ := cmd.Flags().GetString("date")
			casual, _ := cmd.Flags().GetBool("casual")
			night, _ := cmd.Flags().GetBool("night")
			evening, _ := cmd.Flags().GetBool("evening")
			asJSON, _ := cmd.Flags().GetBool("json")

			rate, err := decimal.NewFromString(rawRate)
			if err != nil {
				return fmt.Errorf("rate must be a number: %w", err)
			}

			app.Logger.Debug("priceShift command",
				zap.Float64("hours", hours),
				zap.String("rate", rate.String()),
				zap.String("award", award),
				zap.String("day", day),
				zap.String("date", date))

			breakdown, err := services.PriceShift(app.Ctx, app.Cfg, app.Logger, services.PriceRequest{
				Hours:    hours,
				BaseRate: rate,
				Award:    award,
				Date:     date,
				DayType:  day,
				Casual:   casual,
				Night:    night,
				Evening:  evening,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), breakdown)
			}
			renderBreakdown(cmd.OutOrStdout(), breakdown)
			return nil
		},
	}

	cmd.Flags().Float64("hours", 0, "Hours worked, excluding unpaid breaks")
	cmd.Flags().String("rate", "", "Base hourly rate")
	cmd.Flags().String("award", "", "Award type (defaults to the configured award)")
	cmd.Flags().String("day", "", "Day type: weekday, saturday, sunday or public_holiday")
	cmd.Flags().String("date", "", "Shift date (YYYY-MM-DD); derives the day type from the holiday calendar")
	cmd.Flags().Bool("casual", false, "Apply casual loading")
	cmd.Flags().Bool("night", false, "Night shift loading (weekdays only)")
	cmd.Flags().Bool("evening", false, "Evening shift loading (weekdays only)")
	cmd.Flags().Bool("json", false, "Print the breakdown as JSON")
	cmd.MarkFlagRequired("hours")
	cmd.MarkFlagRequired("rate")
	cmd.MarkFlagsMutuallyExclusive("day", "date")
	cmd.MarkFlagsMutuallyExclusive("night", "evening")

	return cmd
}
