package fitz

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rithankoushik/fitz-cli/internal/service"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or purge the local food search cache",
}

var cacheListLimit int

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached searches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLocalDB(cmd, func(sqldb *sql.DB) error {
			items, err := service.ListCatalogCache(sqldb, cacheListLimit)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "QUERY\tLIMIT\tRESULTS\tFETCHED\tEXPIRES")
			for _, it := range items {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%d\t%s\t%s\n", it.Query, it.LimitRequested, it.ResultCount,
					it.FetchedAt.Local().Format(time.DateTime), it.ExpiresAt.Local().Format(time.DateTime))
			}
			return nil
		})
	},
}

var cachePurgeAll bool

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired cached searches (or all with --all)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLocalDB(cmd, func(sqldb *sql.DB) error {
			n, err := service.PurgeCatalogCache(sqldb, !cachePurgeAll, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d cached search(es)\n", n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheListCmd, cachePurgeCmd)

	cacheListCmd.Flags().IntVar(&cacheListLimit, "limit", 50, "Maximum rows")
	cachePurgeCmd.Flags().BoolVar(&cachePurgeAll, "all", false, "Purge every cached search, not just expired ones")
}
