package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"diezagency/internal/config"
	"diezagency/internal/database"
	"diezagency/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Diez Agency maintenance commands",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(migrateCmd, createAdminCmd, setPasswordCmd, seedCmd, pruneContactsCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env bundles what every command needs.
type env struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.Logger
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, err
	}
	db, err := database.Connect(cfg.Database.DSN, log, true)
	if err != nil {
		return nil, fmt.Errorf("database connect: %w", err)
	}
	return &env{cfg: cfg, db: db, log: log}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = e.log.Sync()
}
