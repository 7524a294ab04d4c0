package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openshelf/digital-library/internal/core/domain"
)

var (
	adminEmail    string
	adminPassword string
	adminName     string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account, or promote and reset an existing one",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(adminPassword) < domain.MinPasswordLength {
			return fmt.Errorf("password must be at least %d characters", domain.MinPasswordLength)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		client, db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer closeDB(client)

		if err := upsertAdmin(ctx, db, adminEmail, adminPassword, adminName); err != nil {
			return err
		}
		cmd.Printf("Admin account ready: %s\n", adminEmail)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email address")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	createAdminCmd.Flags().StringVar(&adminName, "name", "Admin", "display name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}
