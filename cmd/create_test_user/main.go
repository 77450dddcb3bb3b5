package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"syscall"

	"kanban_api/internal/config"
	"kanban_api/internal/db"
	"kanban_api/internal/domain"
	"kanban_api/internal/logger"
	"kanban_api/internal/perrors"
	"kanban_api/internal/service"

	"golang.org/x/term"
)

func main() {
	email := flag.String("email", "test@example.com", "user email")
	name := flag.String("name", "Tester", "display name")
	password := flag.String("password", "", "password (prompted when empty and stdin is a terminal)")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	pw := *password
	if pw == "" {
		if !term.IsTerminal(int(syscall.Stdin)) {
			logger.Fatal("no -password given and stdin is not a terminal")
		}
		fmt.Fprint(os.Stderr, "Password: ")
		b, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			logger.Fatal("read password", "error", err)
		}
		pw = string(b)
	}

	pool := db.Connect(cfg.DatabaseURL, db.PoolOptions{MaxConns: 2})
	defer pool.Close()

	auth := service.NewAuthService(pool, service.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiresIn))
	ctx := context.Background()

	res, err := auth.Register(ctx, domain.RegisterInput{Email: *email, Password: pw, Name: *name})
	if perrors.Is(err, perrors.ErrCodeConflict) {
		// already there, log in instead to print a fresh token
		res, err = auth.Login(ctx, domain.LoginInput{Email: *email, Password: pw})
	}
	if err != nil {
		logger.Fatal("create user failed", "error", err)
	}

	logger.Info("user ready", "id", res.User.ID, "email", res.User.Email)
	fmt.Println(res.Token)
}
