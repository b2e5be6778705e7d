/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/taskvault/apiserver/config"
	"github.com/taskvault/apiserver/internal/db"
	"github.com/taskvault/apiserver/internal/store"
	"github.com/taskvault/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

var (
	seedAdminPassword  string
	seedViewerPassword string
)

// seedCmd inserts the default admin and viewer accounts.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default admin and viewer accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer func() {
			_ = dbConn.Close()
		}()

		users := store.NewUserRepository(dbConn)

		accounts := []struct {
			username string
			email    string
			role     types.Role
			password string
		}{
			{"admin", "admin@taskvault.local", types.RoleAdmin, seedAdminPassword},
			{"viewer", "viewer@taskvault.local", types.RoleViewer, seedViewerPassword},
		}

		for _, account := range accounts {
			hashed, err := bcrypt.GenerateFromPassword([]byte(account.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", account.username, err)
			}

			_, err = users.Create(cmd.Context(), types.User{
				Username:     account.username,
				Email:        account.email,
				Role:         account.role,
				PasswordHash: string(hashed),
			})
			if err != nil {
				if errors.Is(err, store.ErrDuplicate) {
					fmt.Printf("user %q already exists, skipping\n", account.username)
					continue
				}
				return fmt.Errorf("create %s: %w", account.username, err)
			}
			fmt.Printf("created user %q\n", account.username)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "", "password for the admin account")
	seedCmd.Flags().StringVar(&seedViewerPassword, "viewer-password", "", "password for the viewer account")
	_ = seedCmd.MarkFlagRequired("admin-password")
	_ = seedCmd.MarkFlagRequired("viewer-password")
}
