package fitz

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rithankoushik/fitz-cli/internal/service"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fitz local configuration",
}

var cfgAPIURL string

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set configuration values",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLocalDB(cmd, func(sqldb *sql.DB) error {
			updates := 0
			if cmd.Flags().Changed("api-url") {
				v := strings.TrimRight(strings.TrimSpace(cfgAPIURL), "/")
				if u, err := url.Parse(v); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
					return fmt.Errorf("invalid api url %q", cfgAPIURL)
				}
				if err := service.SetConfig(sqldb, service.ConfigAPIURL, v); err != nil {
					return err
				}
				updates++
			}
			if updates == 0 {
				return fmt.Errorf("set at least one flag")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d config value(s)\n", updates)
			return nil
		})
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLocalDB(cmd, func(sqldb *sql.DB) error {
			items, err := service.ListConfig(sqldb)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "KEY\tVALUE\tUPDATED")
			for _, it := range items {
				v := it.Value
				if it.Secret {
					v = maskSecret(v)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", it.Key, v, it.UpdatedAt.Local().Format(time.DateTime))
			}
			return nil
		})
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLocalDB(cmd, func(sqldb *sql.DB) error {
			if err := service.DeleteConfig(sqldb, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", strings.ToLower(strings.TrimSpace(args[0])))
			return nil
		})
	},
}

func maskSecret(v string) string {
	if len(v) <= 8 {
		return "****"
	}
	return v[:4] + "…" + v[len(v)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetCmd, configGetCmd, configUnsetCmd)

	configSetCmd.Flags().StringVar(&cfgAPIURL, "api-url", "", "Base URL of the fitz API, e.g. https://fitz.example.com/api")
}
