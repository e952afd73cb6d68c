package main

import (
	"context"
	"fmt"

	"meditation-server/internal/config"
	"meditation-server/internal/database"
	"meditation-server/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// commandContext лениво загружает конфигурацию и подключения для подкоманд.
type commandContext struct {
	envFile  *string
	logLevel *string

	cfg *config.Config
	log *zap.Logger
}

func newCommandContext(envFile, logLevel *string) *commandContext {
	return &commandContext{envFile: envFile, logLevel: logLevel}
}

func (c *commandContext) logger() *zap.Logger {
	if c.log == nil {
		log, err := logger.New(logger.Config{Level: *c.logLevel, Encoding: "console", OutputPath: "stderr"})
		if err != nil {
			log = zap.NewNop()
		}
		c.log = log
	}
	return c.log
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.LoadConfig(*c.envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	return cfg, nil
}

// withPool открывает пул PostgreSQL на время вызова fn.
func (c *commandContext) withPool(ctx context.Context, fn func(pool *pgxpool.Pool) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	pool, err := database.ConnectPostgres(ctx, cfg, c.logger())
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(pool)
}

func newRootCommand() *cobra.Command {
	var envFile string
	var logLevel string

	ctx := newCommandContext(&envFile, &logLevel)

	rootCmd := &cobra.Command{
		Use:           "medctl",
		Short:         "Operator CLI for the meditation service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file with configuration")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level for diagnostic output")

	rootCmd.AddCommand(newMigrateCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))

	return rootCmd
}
