// Command admin creates the first administrator or promotes an existing
// user. It reads the same configuration as the server:
//
//	admin -d postgres://... -email root@example.com
package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/jobboard/internal/flagx"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server"
	"github.com/dmitrijs2005/jobboard/internal/server/bootstrap"
	"github.com/dmitrijs2005/jobboard/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	db, rm, err := server.OpenDB(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	users, _, err := server.NewUserService(db, rm, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := bootstrap.Run(ctx, users, flagx.AdminEmailFlag(), os.Stdin, os.Stdout); err != nil {
		db.Close()
		if bootstrap.IsUsageError(err) {
			log.Printf("%v", err)
			os.Exit(2)
		}
		log.Fatalf("%v", err)
	}
}
