package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"waterwatch.io/commissioning-service/pkg/common"
	"waterwatch.io/commissioning-service/pkg/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "commissioning-service",
		Short:         "Device lifecycle and field commissioning service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if err := godotenv.Load(); err != nil && !common.IsProduction() {
			return fmt.Errorf("error loading .env file, copy .env.example to .env first if in development: %w", err)
		}
		return nil
	}

	root.AddCommand(
		newServeCommand(),
		newDevicesCommand(),
		newTemplatesCommand(),
	)

	return root
}

func openDB(cfg *common.Config) *db.DB {
	switch cfg.DBType {
	case common.DBTypeMemory:
		return db.GetInstance(db.UseMemorySqliteDialector())
	default:
		return db.GetInstance(db.UseSqliteDialector())
	}
}
