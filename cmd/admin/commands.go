package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"diezagency/internal/database"
	"diezagency/internal/domain/admin"
	"diezagency/internal/domain/article"
	"diezagency/internal/domain/contact"
	"diezagency/internal/domain/realisation"
	"diezagency/internal/pkg/jwt"
	"diezagency/internal/pkg/markdown"
	"diezagency/internal/server"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		if err := database.Migrate(e.db, server.Models()...); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
		return nil
	},
}

var (
	adminEmail    string
	adminName     string
	adminPassword string
	adminRole     string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a back office account",
	Long: `Create a back office account.

Owners see the contact inbox and manage accounts. Editors manage articles,
realisations and uploads.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		a, err := adminService(e).CreateAdmin(cmd.Context(), adminEmail, adminName, adminPassword, adminRole)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) id=%s\n", a.Email, a.Role, a.ID)
		return nil
	},
}

var setPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Reset an account password and clear its lockout",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		if err := adminService(e).SetPassword(cmd.Context(), adminEmail, adminPassword); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "password updated for %s\n", adminEmail)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo articles and realisations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		if err := database.Migrate(e.db, server.Models()...); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		articles := article.NewService(article.NewRepository(e.db), markdown.New(), e.log)
		realisations := realisation.NewService(realisation.NewRepository(e.db), e.log)
		res, err := seedContent(cmd.Context(), articles, realisations)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded articles=%d realisations=%d skipped=%d\n", res.Articles, res.Realisations, res.Skipped)
		return nil
	},
}

var retention time.Duration

var pruneContactsCmd = &cobra.Command{
	Use:   "prune-contacts",
	Short: "Delete replied leads older than the retention period",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if retention <= 0 {
			return fmt.Errorf("--retention must be > 0")
		}
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.close()

		svc := contact.NewService(contact.NewRepository(e.db), nil, e.log)
		n, err := svc.Prune(cmd.Context(), retention)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pruned %d contacts\n", n)
		return nil
	},
}

func adminService(e *env) *admin.Service {
	return admin.NewService(admin.NewAdminRepository(e.db), jwt.New(e.cfg.Auth.JWTSecret, e.cfg.Auth.JWTTTL), admin.Counters{}, e.log)
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "account email")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password, at least 10 characters")
	createAdminCmd.Flags().StringVar(&adminRole, "role", admin.RoleOwner, "owner or editor")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	setPasswordCmd.Flags().StringVar(&adminEmail, "email", "", "account email")
	setPasswordCmd.Flags().StringVar(&adminPassword, "password", "", "new password")
	_ = setPasswordCmd.MarkFlagRequired("email")
	_ = setPasswordCmd.MarkFlagRequired("password")

	pruneContactsCmd.Flags().DurationVar(&retention, "retention", 365*24*time.Hour, "keep replied leads younger than this")
}
