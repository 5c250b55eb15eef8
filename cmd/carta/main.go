package main

import (
	"context"
	"log"

	corecmd "github.com/m3rciful/carta/core/cmd"
	"github.com/m3rciful/carta/internal/app"
)

func main() {
	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: func(ctx context.Context, cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return app.Bootstrap(ctx, cfg.(*app.Config))
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
