package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dmehra2102/storefront/internal/config"
	"github.com/dmehra2102/storefront/pkg/logging"
	"github.com/dmehra2102/storefront/pkg/shutdown"
)

const appID = "storefront"

func main() {
	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	app := &cli.App{
		Name:   appID,
		Usage:  "catalog and order service",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API, gRPC health and the order event relay",
				Action: serve,
			},
			{
				Name:   "seed",
				Usage:  "overwrite the stored catalog with the default products",
				Action: seed,
			},
		},
	}

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel)

	ctx := c.Context
	deps, err := newDependencies(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "err", err)
		return err
	}
	defer deps.Close()

	return runServer(ctx, cfg, log, deps)
}

func seed(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel)

	ctx := c.Context
	deps, err := newDependencies(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "err", err)
		return err
	}
	defer deps.Close()

	if err := deps.catalog.Reseed(ctx); err != nil {
		log.Error("seed failed", "err", err)
		return err
	}
	log.Info("catalog seeded", "backend", cfg.StoreBackend)
	return nil
}
