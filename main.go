package main

import (
	"context"
	"os"

	"github.com/daper-app/daper/pkg/cli"
	"github.com/joho/godotenv"
)

func main() {
	// Missing .env is fine, environment variables still apply
	_ = godotenv.Load()

	ctx := context.Background()
	if err := cli.Run(ctx, os.Args); err != nil {
		os.Exit(err.Code)
	}
}
