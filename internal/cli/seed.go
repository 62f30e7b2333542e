package cli

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"quizhub-service/internal/auth"
	"quizhub-service/internal/config"
	"quizhub-service/internal/domain"
)

// NewSeedCmd creates an initial admin account, since self-registration only
// ever produces students.
func NewSeedCmd(configPath *string) *cobra.Command {
	var (
		name     string
		email    string
		password string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create an admin account in the configured store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return seedAdmin(cmd.Context(), cfg, name, email, password)
		},
	}
	cmd.Flags().StringVar(&name, "name", "Admin", "admin display name")
	cmd.Flags().StringVar(&email, "email", "admin@quizhub.local", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (required)")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func seedAdmin(ctx context.Context, cfg config.Config, name, email, password string) error {
	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if existing, err := store.FindUserByEmail(ctx, email); err == nil {
		log.Printf("admin %s already exists (%s)", email, existing.ID)
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	admin := domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Status:       domain.StatusActive,
	}
	if err := store.PutUser(ctx, admin); err != nil {
		return err
	}
	log.Printf("created admin %s (%s)", email, admin.ID)
	return nil
}
