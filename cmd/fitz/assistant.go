package fitz

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var chatPlan string

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Ask the nutrition assistant, optionally scoped to a plan",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			reply, err := e.api.Chat(cmd.Context(), strings.Join(args, " "), chatPlan)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply.Reply)
			return nil
		})
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "List, show and delete saved meal plans",
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			plans, err := e.api.ListPlans(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(plans) == 0 {
				fmt.Fprintln(out, "No plans")
				return nil
			}
			fmt.Fprintln(out, "ID\tLABEL\tCREATED")
			for _, p := range plans {
				created := "-"
				if p.CreatedAt != nil {
					created = p.CreatedAt.Local().Format(time.DateTime)
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", p.ID, p.ClassifierLabel, created)
			}
			return nil
		})
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			p, err := e.api.GetPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if p.ClassifierLabel != "" {
				fmt.Fprintf(out, "Plan %s (%s)\n\n", p.ID, p.ClassifierLabel)
			} else {
				fmt.Fprintf(out, "Plan %s\n\n", p.ID)
			}
			fmt.Fprintln(out, p.PlanText)
			return nil
		})
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnv(cmd, func(e *env) error {
			if err := e.api.DeletePlan(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", args[0])
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd, planCmd)
	planCmd.AddCommand(planListCmd, planShowCmd, planDeleteCmd)

	chatCmd.Flags().StringVar(&chatPlan, "plan", "", "Plan ID to scope the conversation to")
}
