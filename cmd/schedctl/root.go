package main

import (
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JonSnow1807/student-scheduler/pkg/config"
	"github.com/JonSnow1807/student-scheduler/pkg/database"
	"github.com/JonSnow1807/student-scheduler/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "schedctl",
	Short: "Operational CLI for the student scheduler",
	Long: `schedctl manages the scheduler database and runs scheduling passes
from the command line, against the same configuration the API gateway uses.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(reportCmd)
}

type env struct {
	cfg  *config.Config
	logr *zap.Logger
	db   *sqlx.DB
}

func (e *env) close() {
	if e.db != nil {
		e.db.Close() //nolint:errcheck
	}
	if e.logr != nil {
		e.logr.Sync() //nolint:errcheck
	}
}

// newEnv loads configuration and connects to the database. Redis is not
// opened here; CLI runs always read through to postgres.
func newEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sync() //nolint:errcheck
		return nil, err
	}

	return &env{cfg: cfg, logr: logr, db: db}, nil
}
