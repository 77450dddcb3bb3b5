package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"kanban_api/internal/config"
	"kanban_api/internal/db"
	"kanban_api/internal/logger"
	"kanban_api/internal/migrations"

	"github.com/joho/godotenv"
)

func main() {
	apply := flag.Bool("apply", false, "apply pending migrations")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), false)

	if !*apply {
		all, err := migrations.List()
		if err != nil {
			logger.Fatal("list migrations", "error", err)
		}
		for _, m := range all {
			fmt.Println(m.Name)
		}
		return
	}

	ctx := context.Background()
	pool, err := db.Open(ctx, config.DatabaseURL(os.Getenv), db.PoolOptions{MaxConns: 1})
	if err != nil {
		logger.Fatal("connect", "error", err)
	}
	defer pool.Close()

	applied, err := migrations.Apply(ctx, pool)
	if err != nil {
		logger.Fatal("apply migrations", "error", err)
	}
	if len(applied) == 0 {
		fmt.Println("schema is up to date")
	}
	for _, name := range applied {
		fmt.Printf("applied %s\n", name)
	}
}
