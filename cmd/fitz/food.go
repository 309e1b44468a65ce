package fitz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rithankoushik/fitz-cli/internal/model"
	"github.com/rithankoushik/fitz-cli/internal/service"
	"github.com/rithankoushik/fitz-cli/internal/tracker"
)

var (
	searchLimit   int
	searchNoCache bool
	searchJSON    bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the food catalog (macros per 100g)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return withEnv(cmd, func(e *env) error {
			limit := searchLimit
			if limit <= 0 {
				limit = e.cfg.SearchLimit
			}
			var catalog tracker.Catalog = e.api
			if !searchNoCache {
				catalog = &service.CachedCatalog{DB: e.db, Source: e.api, TTL: e.cfg.SearchCacheTTL}
			}
			foods, err := catalog.SearchFoods(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if searchJSON {
				return writeJSON(out, foods)
			}
			if len(foods) == 0 {
				fmt.Fprintf(out, "No foods match %q\n", query)
				return nil
			}
			fmt.Fprintln(out, "NAME\tKCAL\tP\tC\tF")
			for _, f := range foods {
				fmt.Fprintf(out, "%s\t%g\t%g\t%g\t%g\n", f.Name, f.Calories, f.Protein, f.Carbs, f.Fat)
			}
			return nil
		})
	},
}

var logMeal string

var logCmd = &cobra.Command{
	Use:   "log <food> <quantity>",
	Short: "Log a food for today (quantity like 150, 150g, 0.2kg, 5oz)",
	Long: `Log a food for today (quantity like 150, 150g, 0.2kg, 5oz).

The entry lands on the server's current date. The day shown afterwards uses
this machine's clock, so near midnight in another timezone than the server
the summary can show a different day from the one written; check it with
` + "`fitz day --date`" + `.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		grams, err := service.ParseQuantity(args[1])
		if err != nil {
			return err
		}
		meal, err := model.ParseMealType(logMeal)
		if err != nil {
			return err
		}
		return withEnv(cmd, func(e *env) error {
			store, err := newDayStore(e, "")
			if err != nil {
				return err
			}
			req := model.LogFoodRequest{FoodName: args[0], QuantityGrams: grams, MealType: meal}
			if err := store.LogFood(cmd.Context(), req); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged %gg %s to %s\n", service.RoundTenth(grams), strings.TrimSpace(args[0]), meal.Title())
			snap := store.Snapshot()
			if snap.Stale || snap.Log == nil {
				fmt.Fprintln(out, "Could not refresh the day; run `fitz day` to see totals")
				return nil
			}
			printSummary(out, snap.Summary)
			return nil
		})
	},
}

var (
	dayDate string
	dayJSON bool
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Show a day's log by meal with progress against goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			store, err := loadDay(cmd.Context(), e, dayDate)
			if err != nil {
				return err
			}
			snap := store.Snapshot()
			if dayJSON {
				return writeJSON(cmd.OutOrStdout(), struct {
					Log     *model.DailyLog      `json:"log"`
					Goals   model.DailyGoals     `json:"goals"`
					Summary service.DailySummary `json:"summary"`
				}{snap.Log, snap.Goals, snap.Summary})
			}
			printDay(cmd.OutOrStdout(), snap)
			return nil
		})
	},
}

var deleteDate string

var deleteCmd = &cobra.Command{
	Use:   "delete <meal> <position>",
	Short: "Delete the entry at a 1-based position within a meal (see `fitz day`)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		meal, err := model.ParseMealType(args[0])
		if err != nil {
			return err
		}
		pos, err := parsePositionArg(args[1])
		if err != nil {
			return err
		}
		return withEnv(cmd, func(e *env) error {
			store, err := loadDay(cmd.Context(), e, deleteDate)
			if err != nil {
				return err
			}
			entries := store.Snapshot().Log.Entries(meal)
			if err := store.DeleteEntry(cmd.Context(), meal, pos-1); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s from %s\n", entries[pos-1].FoodName, meal.Title())
			return nil
		})
	},
}

// newDayStore builds a store for date with the goals in effect on that date.
func newDayStore(e *env, date string) (*tracker.Store, error) {
	date, err := service.ParseDate(date, time.Now())
	if err != nil {
		return nil, err
	}
	goals, err := service.GoalsFor(e.db, date)
	if err != nil {
		return nil, err
	}
	return tracker.NewStore(e.api, tracker.StoreConfig{
		Date:  date,
		Goals: &goals,
		Log:   e.log.With().Str("part", "day").Logger(),
	}), nil
}

func loadDay(ctx context.Context, e *env, date string) (*tracker.Store, error) {
	store, err := newDayStore(e, date)
	if err != nil {
		return nil, err
	}
	if err := store.Reload(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func printDay(w io.Writer, snap tracker.Snapshot) {
	fmt.Fprintf(w, "Date: %s\n", snap.Date)
	for _, meal := range model.MealTypes {
		entries := snap.Log.Entries(meal)
		fmt.Fprintf(w, "\n%s\n", meal.Title())
		if len(entries) == 0 {
			fmt.Fprintln(w, "  -")
			continue
		}
		for i, e := range entries {
			fmt.Fprintf(w, "  %d. %s %gg\t%g kcal\tP %gg\tC %gg\tF %gg\n", i+1, e.FoodName, e.QuantityGrams,
				service.RoundTenth(e.Calories), service.RoundTenth(e.Protein), service.RoundTenth(e.Carbs), service.RoundTenth(e.Fat))
		}
	}
	fmt.Fprintln(w)
	printSummary(w, snap.Summary)
}

func printSummary(w io.Writer, s service.DailySummary) {
	for _, p := range s.Progress {
		fmt.Fprintf(w, "%-8s %g/%g %s\t%d%%\t%s\n", p.Name, p.Current, p.Goal, p.Unit, p.Percent, p.Band)
	}
	if s.RemainingCalories != nil {
		fmt.Fprintf(w, "Remaining: %.0f kcal\n", *s.RemainingCalories)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(searchCmd, logCmd, dayCmd, deleteCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum results (default FITZ_SEARCH_LIMIT)")
	searchCmd.Flags().BoolVar(&searchNoCache, "no-cache", false, "Skip the local search cache")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print results as JSON")

	logCmd.Flags().StringVar(&logMeal, "meal", string(model.MealBreakfast), "Meal: breakfast, lunch, snacks or dinner")

	dayCmd.Flags().StringVar(&dayDate, "date", "", "Date YYYY-MM-DD, today or yesterday (default today)")
	dayCmd.Flags().BoolVar(&dayJSON, "json", false, "Print the log and summary as JSON")

	deleteCmd.Flags().StringVar(&deleteDate, "date", "", "Date YYYY-MM-DD, today or yesterday (default today)")
}
