package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/vadimbarashkov/page-analyzer/internal/app"
	"github.com/vadimbarashkov/page-analyzer/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yml"
	}

	cfg, err := config.Load(path)
	if err != nil {
		panic(err)
	}

	if err := app.Run(ctx, cfg); err != nil {
		panic(err)
	}
}
