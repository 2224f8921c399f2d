package main

import (
	"fmt"
	"log/slog"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/db"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/config"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/fixtures"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/service"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
	"github.com/spf13/cobra"
)

// withMigrator opens the database and hands a migrator over it to fn.
func withMigrator(fn func(m *db.Migrator) error) error {
	conn, err := openDB(config.DBFromEnv())
	if err != nil {
		return err
	}

	m, err := db.NewMigrator(conn)
	if err != nil {
		conn.Close()
		return err
	}
	defer m.Close()

	return fn(m)
}

func logVersion(m *db.Migrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}

	slog.Info("schema version", "version", v, "dirty", dirty)
	return nil
}

func newDBCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db-create",
		Short: "Create the tables of an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *db.Migrator) error {
				v, _, err := m.Version()
				if err != nil {
					return err
				}
				if v != 0 {
					return fmt.Errorf("database already initialized at version %d, use db-upgrade", v)
				}

				if err := m.Up(); err != nil {
					return err
				}
				return logVersion(m)
			})
		},
	}
}

func newDBRecreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db-recreate",
		Short: "Drop every table and create them again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *db.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				if err := m.Up(); err != nil {
					return err
				}
				return logVersion(m)
			})
		},
	}
}

func newDBUpgradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db-upgrade",
		Short: "Apply every pending schema migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *db.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return logVersion(m)
			})
		},
	}
}

func newDBAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "db-add",
		Short: "Apply the next pending schema migration only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *db.Migrator) error {
				applied, err := m.Next()
				if err != nil {
					return err
				}
				if !applied {
					slog.Info("schema is up to date")
				}
				return logVersion(m)
			})
		},
	}
}

func newDBFixturesCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "db-fixtures",
		Short: "Load sample users and corpora",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFixtures(file)
			if err != nil {
				return err
			}

			return withCorpora(func(pgs *store.PostgresStore, corpora *service.Corpora) error {
				return fixtures.NewLoader(pgs, corpora, 0).Load(cmd.Context(), f)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixtures to load instead of the bundled sample")
	return cmd
}
