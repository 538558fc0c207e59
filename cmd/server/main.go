package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/jobboard/internal/server"
	"github.com/dmitrijs2005/jobboard/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	app.Run(ctx)
}
