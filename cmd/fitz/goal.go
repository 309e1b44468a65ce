package fitz

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rithankoushik/fitz-cli/internal/model"
	"github.com/rithankoushik/fitz-cli/internal/service"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage daily calorie and macro goals",
}

var (
	goalCalories float64
	goalProtein  float64
	goalCarbs    float64
	goalFat      float64
	goalDate     string
)

var goalSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set daily goals with an effective date",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := service.SetGoalInput{
			DailyGoals: model.DailyGoals{
				Calories: goalCalories,
				Protein:  goalProtein,
				Carbs:    goalCarbs,
				Fat:      goalFat,
			},
			EffectiveDate: goalDate,
		}
		return withLocalDB(cmd, func(sqldb *sql.DB) error {
			if err := service.SetGoal(sqldb, in); err != nil {
				return err
			}
			if in.EffectiveDate == "" {
				in.EffectiveDate = "today"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set goal effective %s\n", in.EffectiveDate)
			return nil
		})
	},
}

var currentGoalDate string

var goalCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the goal in effect",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLocalDB(cmd, func(sqldb *sql.DB) error {
			goal, err := service.CurrentGoal(sqldb, currentGoalDate)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if goal == nil {
				d := model.DefaultGoals()
				fmt.Fprintf(out, "No goal configured; using defaults\nCalories: %g\nProtein: %gg\nCarbs: %gg\nFat: %gg\n", d.Calories, d.Protein, d.Carbs, d.Fat)
				return nil
			}
			fmt.Fprintf(out, "Effective: %s\nCalories: %g\nProtein: %gg\nCarbs: %gg\nFat: %gg\n", goal.EffectiveDate, goal.Calories, goal.Protein, goal.Carbs, goal.Fat)
			return nil
		})
	},
}

var goalHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show goal history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLocalDB(cmd, func(sqldb *sql.DB) error {
			goals, err := service.GoalHistory(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "DATE\tKCAL\tP\tC\tF")
			for _, g := range goals {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%g\t%.1f\t%.1f\t%.1f\n", g.EffectiveDate, g.Calories, g.Protein, g.Carbs, g.Fat)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalSetCmd, goalCurrentCmd, goalHistoryCmd)

	goalSetCmd.Flags().Float64Var(&goalCalories, "calories", 0, "Daily calorie target")
	goalSetCmd.Flags().Float64Var(&goalProtein, "protein", 0, "Daily protein target grams")
	goalSetCmd.Flags().Float64Var(&goalCarbs, "carbs", 0, "Daily carbs target grams")
	goalSetCmd.Flags().Float64Var(&goalFat, "fat", 0, "Daily fat target grams")
	goalSetCmd.Flags().StringVar(&goalDate, "effective-date", "", "Effective date YYYY-MM-DD (default today)")
	_ = goalSetCmd.MarkFlagRequired("calories")
	_ = goalSetCmd.MarkFlagRequired("protein")
	_ = goalSetCmd.MarkFlagRequired("carbs")
	_ = goalSetCmd.MarkFlagRequired("fat")

	goalCurrentCmd.Flags().StringVar(&currentGoalDate, "date", "", "Resolve goal at date YYYY-MM-DD (default today)")
}
