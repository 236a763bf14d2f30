package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/pitch-booking/internal/model"
	"github.com/iliyamo/pitch-booking/internal/repository"
)

// createAdminCmd is the only way to get an ADMIN account; registration over
// HTTP always creates players.
func createAdminCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create-admin <email> <password>",
		Short: "Create an ADMIN user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, password := args[0], args[1]
			if len(password) < 8 {
				return errors.New("password must be at least 8 characters")
			}
			if name == "" {
				name = email
			}
			users := repository.NewUserRepo(app.db)
			id, err := users.Create(ctxOrBackground(cmd), email, name, password, model.RoleAdmin, app.cfg.BcryptCost)
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}
			app.logger.Info("admin created", zap.Uint64("user_id", id), zap.String("email", email))
			fmt.Printf("Admin %s created with id %d\n", email, id)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to the email)")
	return cmd
}
