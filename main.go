package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	_ "github.com/km-arc/go-mvc/demo/action"
	_ "github.com/km-arc/go-mvc/demo/service/impl"
	"github.com/km-arc/go-mvc/framework/app"
	"github.com/km-arc/go-mvc/framework/config"
	mvcerrors "github.com/km-arc/go-mvc/framework/errors"
	"github.com/km-arc/go-mvc/framework/logging"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	routes := flag.Bool("routes", false, "print the route table as YAML and exit")
	flag.Parse()

	if err := run(*envFile, *routes); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(envFile string, printRoutes bool) error {
	cfg := config.Load(envFile)

	format := cfg.Log.Format
	if cfg.IsProduction() {
		format = "json"
	}
	log := logging.New(cfg.Log.Level, format)
	defer func() { _ = log.Sync() }()

	application := app.New(cfg, app.WithLogger(log))
	if err := application.Build(); err != nil {
		log.Error("boot failed", zap.String("code", mvcerrors.Code(err)), zap.Error(err))
		return err
	}

	if printRoutes {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(map[string]any{"routes": application.Routes()})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return application.Run(ctx)
}
