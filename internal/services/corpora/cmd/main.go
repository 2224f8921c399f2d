package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/config"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/service"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
	"github.com/spf13/cobra"
)

var verbose bool

// cliActor runs administrative commands. It holds every permission but is
// no user, so corpora it creates have no owner.
var cliActor = model.Actor{Permissions: model.PermAdminister}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "corpora",
		Short:         "Collaborative correction of annotated corpora",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug messages")

	root.AddCommand(
		newServeCmd(),
		newDBCreateCmd(),
		newDBRecreateCmd(),
		newDBUpgradeCmd(),
		newDBAddCmd(),
		newDBFixturesCmd(),
		newEditUserCmd(),
		newCorpusFromFileCmd(),
		newCorpusFromDirCmd(),
		newCorpusDumpCmd(),
		newCorpusListCmd(),
	)
	return root
}

func openDB(cfg config.Config) (*sql.DB, error) {
	db, err := store.NewPostgresDB(store.PostgresConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	return db, nil
}

func newCorpora(pgs store.Store, cfg config.Config) *service.Corpora {
	return service.NewCorpora(
		service.WithCorporaStore(pgs),
		service.WithValidator(service.NewValidator(cfg.AllowedCache.MaxKeys, cfg.AllowedCache.MaxCost, cfg.AllowedCache.TTL)),
		service.WithPageSize(cfg.Corpora.PageSize),
		service.WithSuggestionLimit(cfg.Corpora.AutocompleteLimit),
	)
}

// withCorpora opens the database and hands the corpora service to fn.
func withCorpora(fn func(pgs *store.PostgresStore, corpora *service.Corpora) error) error {
	cfg := config.DBFromEnv()
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	pgs := store.NewPostgresStore(db)
	return fn(pgs, newCorpora(pgs, cfg))
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("corpora terminated with error", "error", err)
		os.Exit(1)
	}
}
