// Command migrate applies the Warden schema to a Postgres database.
//
// The connection string comes from --dsn, then WARDEN_DB_DSN, then the
// database section of the Warden configuration.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/warden/internal/config"
	"github.com/JaimeStill/warden/migrations"
)

const envDSN = "WARDEN_DB_DSN"

type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
	Close() (error, error)
}

type opener func(dsn string) (migrator, error)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	open := func(dsn string) (migrator, error) { return migrations.New(dsn) }
	if err := newRootCmd(open, os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(open opener, stdout io.Writer) *cobra.Command {
	var dsn string

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply or inspect the Warden database schema",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "Postgres connection URL")
	root.SetOut(stdout)

	var with runner = func(fn func(migrator, []string) (string, error)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			url, err := resolveDSN(dsn)
			if err != nil {
				return err
			}

			m, err := open(url)
			if err != nil {
				return err
			}
			defer m.Close()

			msg, err := fn(m, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		}
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: with(func(m migrator, _ []string) (string, error) {
				if err := ignoreNoChange(m.Up()); err != nil {
					return "", fmt.Errorf("apply migrations: %w", err)
				}
				return "migrations applied", nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert every migration",
			Args:  cobra.NoArgs,
			RunE: with(func(m migrator, _ []string) (string, error) {
				if err := ignoreNoChange(m.Down()); err != nil {
					return "", fmt.Errorf("revert migrations: %w", err)
				}
				return "migrations reverted", nil
			}),
		},
		newStepsCmd(with),
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: with(func(m migrator, _ []string) (string, error) {
				v, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					return "version: none", nil
				}
				if err != nil {
					return "", fmt.Errorf("read version: %w", err)
				}
				return fmt.Sprintf("version: %d, dirty: %v", v, dirty), nil
			}),
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: `Set the schema version without running migrations ("none" clears it)`,
			Args:  cobra.ExactArgs(1),
			RunE: with(func(m migrator, args []string) (string, error) {
				v, err := parseForceVersion(args[0])
				if err != nil {
					return "", err
				}
				if err := m.Force(v); err != nil {
					return "", fmt.Errorf("force version: %w", err)
				}
				if v == database.NilVersion {
					return "version cleared", nil
				}
				return fmt.Sprintf("forced to version %d", v), nil
			}),
		},
	)

	return root
}

// runner wraps a subcommand body with DSN resolution and migrator setup.
type runner func(fn func(migrator, []string) (string, error)) func(*cobra.Command, []string) error

func newStepsCmd(with runner) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "steps N",
		Short: "Apply the next N migrations, or revert the last N with --down",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(m migrator, args []string) (string, error) {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return "", fmt.Errorf("steps must be a positive integer: %q", args[0])
			}

			delta, verb := n, "applied"
			if down {
				delta, verb = -n, "reverted"
			}
			if err := ignoreNoChange(m.Steps(delta)); err != nil {
				return "", fmt.Errorf("step migrations: %w", err)
			}
			return fmt.Sprintf("%s %d migration steps", verb, n), nil
		}),
	}
	cmd.Flags().BoolVar(&down, "down", false, "revert instead of apply")
	return cmd
}

// parseForceVersion accepts a schema version or "none" for golang-migrate's
// NilVersion. Negative numbers are not accepted as arguments.
func parseForceVersion(s string) (int, error) {
	if s == "none" {
		return database.NilVersion, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid version: %q", s)
	}
	return v, nil
}

func resolveDSN(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if v := os.Getenv(envDSN); v != "" {
		return v, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("load config: %w", err)
	}
	return cfg.Database.URL(), nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}
