package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/azizjun/kvartal-api/internal/config"
	"github.com/azizjun/kvartal-api/internal/database"
	"github.com/azizjun/kvartal-api/internal/models"
	"github.com/azizjun/kvartal-api/internal/services"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration and seeding tool",
	}

	rootCmd.AddCommand(upCmd(), seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func connect() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return database.Connect(cfg.DatabaseURL)
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			fmt.Println("Schema migrated")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var email, password, fullName string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the initial admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("--email and --password are required")
			}

			db, err := connect()
			if err != nil {
				return err
			}

			var count int64
			if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				fmt.Println("User already exists, nothing to do")
				return nil
			}

			hash, err := services.HashPassword(password)
			if err != nil {
				return err
			}

			admin := &models.User{
				Email:             email,
				EncryptedPassword: hash,
				FullName:          fullName,
				Role:              models.RoleAdmin,
				Status:            models.StatusActive,
			}
			if err := db.Create(admin).Error; err != nil {
				return err
			}

			fmt.Printf("Admin user created: %s (id=%d)\n", admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&fullName, "full-name", "Administrator", "admin display name")

	return cmd
}
