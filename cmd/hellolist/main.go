package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/hellolist/internal/config"
	"github.com/dropDatabas3/hellolist/internal/store"

	_ "github.com/dropDatabas3/hellolist/internal/store/adapters/all"
)

// globalOpts son los flags persistentes del root.
type globalOpts struct {
	configPath string
	envFile    string
	driver     string
	dsn        string
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOpts{}
	root := &cobra.Command{
		Use:           "hellolist",
		Short:         "CLI de operación para hellolist (migraciones, operadores, publicación)",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.envFile == "" {
				return nil
			}
			if _, err := os.Stat(opts.envFile); err == nil {
				if err := godotenv.Load(opts.envFile); err != nil {
					return fmt.Errorf("dotenv %s: %w", opts.envFile, err)
				}
			}
			return nil
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", envOr("CONFIG_PATH", ""), "ruta a config.yaml (env CONFIG_PATH)")
	pf.StringVar(&opts.envFile, "env-file", ".env", "ruta a .env (si existe, se carga)")
	pf.StringVar(&opts.driver, "storage-driver", "", "pisa storage.driver (postgres|sqlite)")
	pf.StringVar(&opts.dsn, "dsn", "", "pisa storage.dsn")

	root.AddCommand(
		newMigrateCmd(opts),
		newOperatorCmd(opts),
		newHashCmd(),
		newPublishCmd(),
	)
	return root
}

// openStore carga la config y abre el storage configurado.
func openStore(ctx context.Context, opts *globalOpts) (store.Connection, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if opts.driver != "" {
		cfg.Storage.Driver = opts.driver
	}
	if opts.dsn != "" {
		cfg.Storage.DSN = opts.dsn
	}
	if cfg.Storage.Driver == "memory" {
		return nil, fmt.Errorf("storage driver memory no persiste; usar postgres o sqlite")
	}
	if cfg.Storage.DSN == "" {
		return nil, fmt.Errorf("falta storage.dsn (flag --dsn o env STORAGE_DSN)")
	}
	return store.Open(ctx, store.AdapterConfig{Name: cfg.Storage.Driver, DSN: cfg.Storage.DSN})
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	root := newRootCmd(os.Stdin, os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err.Error())
		os.Exit(1)
	}
}
