package main

import (
	"fmt"

	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/config"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/service"
	"github.com/gamma-omg/lexi-annotate/internal/services/corpora/internal/store"
	"github.com/spf13/cobra"
)

func newEditUserCmd() *cobra.Command {
	var (
		role     string
		confirm  bool
		password string
	)

	cmd := &cobra.Command{
		Use:   "edit-user EMAIL",
		Short: "Change the role, confirmation or password of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var e service.EditUser
			if cmd.Flags().Changed("role") {
				e.Role = &role
			}
			if cmd.Flags().Changed("confirm") {
				e.Confirmed = &confirm
			}
			if cmd.Flags().Changed("password") {
				e.Password = &password
			}
			if e == (service.EditUser{}) {
				return fmt.Errorf("nothing to change, pass --role, --confirm or --password")
			}

			cfg := config.FromEnv()
			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			codes := newRedis(cfg)
			defer codes.Close()

			u, err := newAccounts(store.NewPostgresStore(db), codes, cfg).EditUserByEmail(cmd.Context(), args[0], e)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tconfirmed=%t\n", u.Email, u.Role.Name, u.Confirmed)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "role name, User or Administrator")
	cmd.Flags().BoolVar(&confirm, "confirm", true, "mark the account as confirmed")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	return cmd
}
