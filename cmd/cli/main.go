package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zmiana/zmiana/internal/config"
	"github.com/zmiana/zmiana/pkg/clients/generatorclient"
	"github.com/zmiana/zmiana/pkg/core/services"
	"github.com/zmiana/zmiana/pkg/postgres"
	"github.com/zmiana/zmiana/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg       *config.Config
	database  *postgres.DB
	generator *generatorclient.Client
	logger    *zap.Logger
	ctx       context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "zmiana",
		Short: "Zmiana CLI - work-schedule compliance and suggestions",
		Long:  `A CLI for reviewing work schedules against Polish labour-law rules, validating assignments and ranking replacement candidates.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
			if app != nil && app.database != nil {
				app.database.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(reviewCmd())
	rootCmd.AddCommand(suggestCmd())
	rootCmd.AddCommand(assignCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, database and generator client
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	app.cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	app.database, err = postgres.NewDB(app.ctx, app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.logger.Debug("Database connected successfully")

	app.generator = generatorclient.NewClient(app.cfg.Generator.URL, app.cfg.Generator.APIKey)

	return nil
}

// Command definitions

func reviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "review <year> <month>",
		Short: "Scan a month's schedule for labour-law violations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseYearMonth(args[0], args[1])
			if err != nil {
				return err
			}

			result, err := services.ReviewSchedule(app.ctx, app.database, app.cfg, app.logger, year, month)
			if err != nil {
				return err
			}

			fmt.Printf("\nReviewed %d shifts for %04d-%02d\n\n", result.ShiftCount, year, month)

			if len(result.Violations) == 0 {
				fmt.Println("No violations found.")
				return nil
			}

			fmt.Printf("Found %d violations:\n", len(result.Violations))
			for _, v := range result.Violations {
				fmt.Printf("  [%s] %s: %s\n", v.Kind, v.EmployeeName, v.Details)
			}
			for _, dataErr := range result.DataErrors {
				fmt.Printf("  (skipped employee %s: %v)\n", dataErr.EmployeeID, dataErr.Err)
			}

			return nil
		},
	}
}

func suggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <date>",
		Short: "Rank candidate employees for a vacant shift",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templateID, _ := cmd.Flags().GetString("template")
			start, _ := cmd.Flags().GetString("start")
			end, _ := cmd.Flags().GetString("end")
			breakMinutes, _ := cmd.Flags().GetInt("break")

			result, err := services.SuggestCover(app.ctx, app.database, app.cfg, app.logger, args[0], templateID, start, end, breakMinutes)
			if err != nil {
				return err
			}

			if len(result.Suggestions) == 0 {
				fmt.Println("\nNo candidates found.")
				return nil
			}

			fmt.Printf("\nCandidates for %s %s-%s:\n", result.Vacancy.Date, result.Vacancy.StartTime, result.Vacancy.EndTime)
			for _, s := range result.Suggestions {
				marker := " "
				if s.Score == 0 {
					marker = "!"
				}
				fmt.Printf("  %s %5.1f  %-6s %s - %s\n", marker, s.Score, s.Kind, s.Employee.FullName(), s.Reason)
			}

			return nil
		},
	}
	cmd.Flags().String("template", "", "Shift template ID of the vacancy")
	cmd.Flags().String("start", "", "Start time (HH:MM) for a bespoke vacancy")
	cmd.Flags().String("end", "", "End time (HH:MM) for a bespoke vacancy")
	cmd.Flags().Int("break", 0, "Break minutes for a bespoke vacancy")
	return cmd
}

func assignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <employee_id> <date> <template_id>",
		Short: "Validate and save a single shift assignment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.ApplyAssignment(app.ctx, app.database, app.cfg, app.logger, args[0], args[1], args[2])
			if err != nil {
				return err
			}

			switch {
			case result.NoOp:
				fmt.Println("\nNothing to do - the employee already occupies this cell.")
			case result.Blocked != nil:
				fmt.Printf("\nAssignment blocked [%s]: %s\n", result.Blocked.Kind, result.Blocked.Details)
			default:
				fmt.Printf("\nAssignment saved (shift %s).\n", result.Shift.ID)
				if result.Warning != nil {
					fmt.Printf("Warning [%s]: %s\n", result.Warning.Kind, result.Warning.Details)
				}
			}

			return nil
		},
	}
}

func planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <employee_id> <template_id> <year> <month>",
		Short: "Bulk-add an employee onto a template's applicable days of a month",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseYearMonth(args[2], args[3])
			if err != nil {
				return err
			}

			result, err := services.PlanTemplate(app.ctx, app.database, app.cfg, app.logger, args[0], args[1], year, month)
			if err != nil {
				return err
			}

			fmt.Printf("\nAdded %d shifts.\n", len(result.Added))
			for _, skipped := range result.Skipped {
				fmt.Printf("  skipped %s [%s]: %s\n", skipped.Date, skipped.Violation.Kind, skipped.Violation.Details)
			}
			for _, warning := range result.Warnings {
				fmt.Printf("  warning [%s]: %s\n", warning.Kind, warning.Details)
			}

			return nil
		},
	}
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <year> <month>",
		Short: "Generate a month's schedule via the external service and review it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			year, month, err := parseYearMonth(args[0], args[1])
			if err != nil {
				return err
			}

			result, err := services.GenerateSchedule(app.ctx, app.database, app.generator, app.cfg, app.logger, year, month, dryRun)
			if err != nil {
				return err
			}

			mode := "saved"
			if result.DryRun {
				mode = "dry run, not saved"
			}
			fmt.Printf("\nGenerated %d shifts for %04d-%02d (%s)\n", len(result.Generated), year, month, mode)
			if result.Details != nil {
				fmt.Printf("Hours: required %.1f, available %.1f, shortage %.1f\n",
					result.Details.RequiredHours, result.Details.AvailableHours, result.Details.Shortage)
			}
			if len(result.Violations) > 0 {
				fmt.Printf("\n%d violations in the generated schedule:\n", len(result.Violations))
				for _, v := range result.Violations {
					fmt.Printf("  [%s] %s: %s\n", v.Kind, v.EmployeeName, v.Details)
				}
			}

			return nil
		},
	}
	cmd.Flags().Bool("dry-run", false, "Review the generated schedule without saving it")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.database.RunMigrations(app.ctx); err != nil {
				return err
			}
			fmt.Println("Migrations applied.")
			return nil
		},
	}
}

func parseYearMonth(yearArg, monthArg string) (int, int, error) {
	year, err := strconv.Atoi(yearArg)
	if err != nil {
		return 0, 0, fmt.Errorf("year must be a number: %w", err)
	}
	month, err := strconv.Atoi(monthArg)
	if err != nil {
		return 0, 0, fmt.Errorf("month must be a number: %w", err)
	}
	if month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("month must be between 1 and 12")
	}
	return year, month, nil
}
