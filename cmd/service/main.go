package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dropDatabas3/hellolist/internal/app"
	"github.com/dropDatabas3/hellolist/internal/config"
	"github.com/dropDatabas3/hellolist/internal/observability/logger"
)

// version se setea con -ldflags "-X main.version=...".
var version = "dev"

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

// resolveConfigPath: flag > $CONFIG_PATH > configs/config.yaml. Vacío = solo env.
func resolveConfigPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if fileExists("configs/config.yaml") {
		return "configs/config.yaml"
	}
	return ""
}

func printConfigSummary(c *config.Config) {
	fmt.Printf(`hellolist %s
  env=%s base_url=%s addr=%s
  storage=%s auto_migrate=%v
  cache=%s token_ttl=%s
  email=%s from=%s
  newsletter.concurrency=%d hash.workers=%d metrics=%v
`,
		version,
		c.App.Env, c.App.BaseURL, c.Server.Addr,
		c.Storage.Driver, c.Storage.AutoMigrate,
		c.Cache.Kind, c.Cache.TokenTTL,
		c.Email.Driver, c.Email.FromEmail,
		c.Newsletter.Concurrency, c.Hash.Workers, c.Metrics.Enabled,
	)
}

func main() {
	var (
		flagConfigPath = flag.String("config", "", "ruta a config.yaml (fallback: $CONFIG_PATH o configs/config.yaml)")
		flagEnvFile    = flag.String("env-file", ".env", "ruta a .env (si existe, se carga)")
		flagPrint      = flag.Bool("print-config", false, "imprime config efectiva y termina")
	)
	flag.Parse()

	if *flagEnvFile != "" && fileExists(*flagEnvFile) {
		if err := godotenv.Load(*flagEnvFile); err == nil {
			log.Printf("dotenv: cargado %s", *flagEnvFile)
		}
	}

	cfg, err := config.Load(resolveConfigPath(*flagConfigPath))
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *flagPrint {
		printConfigSummary(cfg)
		return
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}

	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "hellolist", Version: version})
	defer func() { _ = logger.Sync() }()
	lg := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(logger.ToContext(ctx, lg), cfg, app.Deps{Version: version})
	if err != nil {
		lg.Fatal("wiring failed", logger.Err(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			lg.Warn("close failed", logger.Err(err))
		}
	}()

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      a.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("listening", logger.String("addr", cfg.Server.Addr), logger.String("base_url", cfg.App.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			lg.Error("server failed", logger.Err(err))
			return
		}
	case <-ctx.Done():
	}

	lg.Info("shutting down", logger.String("timeout", cfg.Server.ShutdownTimeout.String()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("graceful shutdown failed", logger.Err(err))
	}
}
