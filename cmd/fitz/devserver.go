package fitz

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/rithankoushik/fitz-cli/internal/devserver"
	"github.com/rithankoushik/fitz-cli/internal/logger"
)

var (
	devAddr     string
	devSecret   string
	devEmail    string
	devPassword string
	devName     string
)

var devServerCmd = &cobra.Command{
	Use:   "dev-server",
	Short: "Run an in-memory fitz backend for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if devAddr == "" {
			devAddr = cfg.DevAddr
		}
		if devSecret == "" {
			devSecret = cfg.DevJWTSecret
		}
		if cfg.LogLevel != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		log := logger.New(cmd.ErrOrStderr(), "devserver", true).Level(logger.ParseLevel(cfg.LogLevel))

		srv, err := devserver.New(devserver.Config{
			Addr:      devAddr,
			JWTSecret: devSecret,
			Accounts:  []devserver.Account{{Email: devEmail, Password: devPassword, Name: devName}},
			Log:       log,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "fitz dev backend on %s (login: %s / %s)\n", devAddr, devEmail, devPassword)
		return srv.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(devServerCmd)

	devServerCmd.Flags().StringVar(&devAddr, "addr", "", "Listen address (default FITZ_DEV_ADDR)")
	devServerCmd.Flags().StringVar(&devSecret, "jwt-secret", "", "HS256 signing secret (default FITZ_DEV_JWT_SECRET)")
	devServerCmd.Flags().StringVar(&devEmail, "email", "demo@fitz.local", "Email of the account to seed")
	devServerCmd.Flags().StringVar(&devPassword, "password", "fitz", "Password of the seeded account")
	devServerCmd.Flags().StringVar(&devName, "name", "Demo", "Display name of the seeded account")
}
