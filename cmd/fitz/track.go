package fitz

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rithankoushik/fitz-cli/internal/errs"
	"github.com/rithankoushik/fitz-cli/internal/service"
	"github.com/rithankoushik/fitz-cli/internal/tracker"
	"github.com/rithankoushik/fitz-cli/internal/tui"
)

var (
	trackDate   string
	trackNoLive bool
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Interactive screen: search, log and watch the day's progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
			return fmt.Errorf("track needs an interactive terminal; use `fitz day` and `fitz log` in scripts")
		}
		return withEnv(cmd, func(e *env) error {
			date, err := service.ParseDate(trackDate, time.Now())
			if err != nil {
				return err
			}
			goals, err := service.GoalsFor(e.db, date)
			if err != nil {
				return err
			}
			// The screen owns the terminal; keep log output to errors.
			log := e.log.Level(max(e.log.GetLevel(), zerolog.ErrorLevel))

			bridge := tui.NewBridge()
			tcfg := tracker.Config{
				Debounce:       e.cfg.SearchDebounce,
				SearchLimit:    e.cfg.SearchLimit,
				MinQueryLength: e.cfg.SearchMinChars,
				Date:           date,
				Goals:          &goals,
				Log:            log,
			}
			bridge.Hook(&tcfg)
			t := tracker.New(e.api, tcfg)
			defer t.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if !trackNoLive {
				go func() {
					err := tracker.Watch(ctx, tracker.DialEvents(e.api), t.Day, tracker.WatchConfig{Log: log})
					if err != nil && !errs.IsAuth(err) {
						log.Error().Err(err).Msg("live updates stopped")
					}
				}()
			}
			return tui.Run(ctx, t, bridge)
		})
	},
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func init() {
	rootCmd.AddCommand(trackCmd)
	trackCmd.Flags().StringVar(&trackDate, "date", "", "Start on date YYYY-MM-DD, today or yesterday (default today)")
	trackCmd.Flags().BoolVar(&trackNoLive, "no-live", false, "Do not subscribe to live log updates")
}
