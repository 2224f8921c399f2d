package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/config"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/fixtures"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/ingest"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/model"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/service"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func loadFixtures(file string) (fixtures.Fixtures, error) {
	if file == "" {
		return fixtures.Default()
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fixtures.Fixtures{}, fmt.Errorf("read fixtures: %w", err)
	}
	return fixtures.Parse(data)
}

// corpusFlags are shared by the commands creating a corpus.
type corpusFlags struct {
	owner         string
	controlListID int64
	left, right   int
	delimiter     string
}

func (f *corpusFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.owner, "owner", "", "email of the user owning the corpus")
	def := config.DBFromEnv().Corpora.DefaultContextSize
	cmd.Flags().IntVar(&f.left, "left", def, "number of forms displayed before a token")
	cmd.Flags().IntVar(&f.right, "right", def, "number of forms displayed after a token")
	cmd.Flags().StringVar(&f.delimiter, "delimiter", "", "form of the tokens separating sections, dropped on import")
}

// actor returns the owner given on the command line, or the command line
// actor when there is none.
func (f *corpusFlags) actor(ctx context.Context, st store.Store) (model.Actor, error) {
	if f.owner == "" {
		return cliActor, nil
	}

	u, err := st.GetUserByEmail(ctx, f.owner)
	if err != nil {
		return model.Actor{}, fmt.Errorf("owner %s: %w", f.owner, err)
	}
	return model.Actor{UserID: u.ID, Permissions: u.Role.Permissions}, nil
}

func (f *corpusFlags) request(name string, tokens []model.WordToken) service.CreateCorpusRequest {
	r := service.CreateCorpusRequest{
		Name:         name,
		ContextLeft:  f.left,
		ContextRight: f.right,
		Tokens:       tokens,
	}
	if f.delimiter != "" {
		r.DelimiterToken = &f.delimiter
	}
	if f.controlListID != 0 {
		r.ControlListID = &f.controlListID
	}
	return r
}

func createCorpus(ctx context.Context, f *corpusFlags, r service.CreateCorpusRequest) error {
	return withCorpora(func(pgs *store.PostgresStore, corpora *service.Corpora) error {
		a, err := f.actor(ctx, pgs)
		if err != nil {
			return err
		}

		c, err := corpora.Create(ctx, a, r)
		if err != nil {
			return err
		}

		slog.Info("corpus created", "id", c.ID, "name", c.Name, "control_list_id", c.ControlListID, "tokens", len(r.Tokens))
		return nil
	})
}

func newCorpusFromFileCmd() *cobra.Command {
	var f corpusFlags
	cmd := &cobra.Command{
		Use:   "corpus-from-file NAME TOKENS_FILE",
		Short: "Create a corpus from a token file",
		Long: `Create a corpus from a tab separated token file. The corpus uses the
control list given with --control-list, or a new empty one.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[1]
			tokens, err := ingest.ReadFile(os.DirFS(filepath.Dir(path)), filepath.Base(path))
			if err != nil {
				return err
			}

			r := f.request(args[0], tokens)
			if r.ControlListID == nil {
				r.ControlList = &service.NewControlList{Name: args[0]}
			}
			return createCorpus(cmd.Context(), &f, r)
		},
	}
	f.register(cmd)
	cmd.Flags().Int64Var(&f.controlListID, "control-list", 0, "id of an existing control list")
	return cmd
}

func newCorpusFromDirCmd() *cobra.Command {
	var f corpusFlags
	cmd := &cobra.Command{
		Use:   "corpus-from-dir NAME DIR",
		Short: "Create a corpus and its control list from a directory",
		Long: `Create a corpus from DIR/tokens.csv. The allowed values found in
allowed_lemma.txt, allowed_pos.txt and allowed_morph.csv make up a new
control list; missing files leave the matching column unrestricted.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ingest.ReadDir(cmd.Context(), os.DirFS(args[1]))
			if err != nil {
				return err
			}

			r := f.request(args[0], b.Tokens)
			r.ControlList = &service.NewControlList{
				Name:  args[0],
				Lemma: b.Allowed[model.FieldLemma],
				POS:   b.Allowed[model.FieldPOS],
				Morph: b.Allowed[model.FieldMorph],
			}
			return createCorpus(cmd.Context(), &f, r)
		},
	}
	f.register(cmd)
	return cmd
}

func newCorpusDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "corpus-dump CORPUS_ID DIR",
		Short: "Write a corpus and its allowed values to a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid corpus id %q: %w", args[0], err)
			}

			return withCorpora(func(_ *store.PostgresStore, corpora *service.Corpora) error {
				exp, err := corpora.Export(cmd.Context(), cliActor, id)
				if err != nil {
					return err
				}

				if err := ingest.WriteDir(args[1], exp.Tokens, exp.Allowed); err != nil {
					return err
				}

				slog.Info("corpus dumped", "id", id, "dir", args[1], "tokens", len(exp.Tokens))
				return nil
			})
		},
	}
}

func newCorpusListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "corpus-list",
		Short: "List every corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCorpora(func(_ *store.PostgresStore, corpora *service.Corpora) error {
				cs, err := corpora.List(cmd.Context(), cliActor)
				if err != nil {
					return err
				}

				table := uitable.New()
				table.MaxColWidth = 50
				table.RightAlign(0)
				table.RightAlign(3)
				table.AddRow("ID", "NAME", "CONTROL LIST", "TOKENS")
				for _, c := range cs {
					d, err := corpora.Get(cmd.Context(), cliActor, c.ID)
					if err != nil {
						return err
					}
					table.AddRow(c.ID, c.Name, d.ControlList.Name, d.TokenCount)
				}

				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
}
