/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ieti-edutrack/apiserver/config"
	"github.com/ieti-edutrack/apiserver/internal/activity"
	"github.com/ieti-edutrack/apiserver/internal/db"
	"github.com/ieti-edutrack/apiserver/internal/services"
	"github.com/ieti-edutrack/apiserver/internal/store"
	"github.com/spf13/cobra"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
)

// adminCmd groups account maintenance tasks.
var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the administrator account",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create or reset the administrator account",
	Long: `Creates the administrator as an active faculty row, or resets the
name and password when it already exists. Usage:

	edutrack admin create --name "Administrator" --password secret
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(adminPassword) == "" {
			return errors.New("--password is required")
		}

		cfg := config.LoadConfig()
		if email := strings.TrimSpace(adminEmail); email != "" {
			cfg.Accounts.AdminEmail = strings.ToLower(email)
		}
		logger := newLogger(cfg.Log)

		conn, err := db.Open(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer conn.Close()

		svc := services.NewAccountService(
			store.NewTeacherRepository(conn),
			store.NewStudentRepository(conn),
			services.NewActivityService(activity.NewLog(activity.DefaultCapacity), nil, logger),
			cfg.Accounts,
			validator.New(validator.WithRequiredStructEnabled()),
			logger,
		)

		created, err := svc.EnsureAdmin(cmd.Context(), adminName, adminPassword)
		if err != nil {
			return err
		}
		logger.Info().
			Str("email", cfg.Accounts.AdminEmail).
			Bool("created", created).
			Msg("administrator account ready")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminCreateCmd)

	adminCreateCmd.Flags().StringVar(&adminName, "name", "Administrator", "Display name of the administrator")
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "Administrator email (defaults to ADMIN_EMAIL)")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "Administrator password")
}
