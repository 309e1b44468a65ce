package fitz

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rithankoushik/fitz-cli/internal/errs"
)

var (
	dbPath    string
	apiURL    string
	token     string
	logLevel  string
	debugHTTP bool
)

var rootCmd = &cobra.Command{
	Use:           "fitz",
	Short:         "fitz tracks meals against your daily nutrition goals",
	Long:          "fitz is a terminal client for the fitz nutrition service: search foods, log meals and watch your day add up.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

// describeError adds a next step to errors the user can act on.
func describeError(err error) string {
	switch {
	case errs.IsAuth(err):
		return fmt.Sprintf("%v\nsession expired or missing; run `fitz login`", err)
	case errs.IsTransient(err):
		return fmt.Sprintf("%v\nthe service could not be reached; try again", err)
	case errors.Is(err, context.Canceled):
		return "interrupted"
	default:
		return err.Error()
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", "", "Path to SQLite database")
	pf.StringVar(&apiURL, "api-url", "", "Base URL of the fitz API (overrides FITZ_API_URL and stored config)")
	pf.StringVar(&token, "token", "", "Bearer token to use instead of the stored session")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&debugHTTP, "debug", false, "Dump HTTP requests and responses at debug level")
}
