package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/studyvault/noteguard/internal/client/config"
	"github.com/studyvault/noteguard/internal/client/viewer"
	"github.com/studyvault/noteguard/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := viewer.NewApp(cfg, logger)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
