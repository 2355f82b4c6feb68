package cli

import (
	"encoding/json"
	"fmt"

	"ukrbus/internal/domain"
	"ukrbus/internal/domain/models"
	"ukrbus/internal/utils"

	"github.com/spf13/cobra"
)

var scheduleOpts struct {
	locale string
	date   string
	from   string
	to     string
	on     string
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print the synthesized trip schedule as JSON",
	RunE:  printSchedule,
}

var pointsCmd = &cobra.Command{
	Use:   "points",
	Short: "Print the distinct start points and destinations",
	RunE:  printPoints,
}

func init() {
	f := scheduleCmd.Flags()
	f.StringVarP(&scheduleOpts.locale, "locale", "l", "", "trip locale (en, uk); default app.default_locale")
	f.StringVar(&scheduleOpts.date, "date", "", "reference date YYYY-MM-DD; default today")
	f.StringVar(&scheduleOpts.from, "from", "", "only trips from this start point")
	f.StringVar(&scheduleOpts.to, "to", "", "only trips to this destination")
	f.StringVar(&scheduleOpts.on, "on", "", "only trips departing on YYYY-MM-DD")
	pointsCmd.Flags().StringVarP(&scheduleOpts.locale, "locale", "l", "", "trip locale (en, uk)")

	rootCmd.AddCommand(scheduleCmd, pointsCmd)
}

func resolveLocale(raw, def string) (domain.Locale, error) {
	if raw == "" {
		raw = def
	}
	return domain.ParseLocale(raw)
}

func printSchedule(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	locale, err := resolveLocale(scheduleOpts.locale, env.App.DefaultLocale)
	if err != nil {
		return err
	}
	svc, err := newScheduleService(env, nil)
	if err != nil {
		return err
	}
	ref := svc.Clock.Now()
	if scheduleOpts.date != "" {
		ref, err = utils.ParseDate(scheduleOpts.date, env.Location())
		if err != nil {
			return domain.InvalidArgumentError{Arg: "date", Value: scheduleOpts.date, Msg: "want YYYY-MM-DD"}
		}
	}
	trips, err := svc.SearchAt(locale, models.TripQuery{
		StartPoint:  scheduleOpts.from,
		Destination: scheduleOpts.to,
		Date:        scheduleOpts.on,
	}, ref)
	if err != nil {
		return err
	}
	return writeJSON(cmd, trips)
}

func printPoints(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	locale, err := resolveLocale(scheduleOpts.locale, env.App.DefaultLocale)
	if err != nil {
		return err
	}
	svc, err := newScheduleService(env, nil)
	if err != nil {
		return err
	}
	starts, err := svc.StartPoints(locale)
	if err != nil {
		return err
	}
	dests, err := svc.Destinations(locale)
	if err != nil {
		return err
	}
	return writeJSON(cmd, map[string][]string{"startPoints": starts, "destinations": dests})
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
