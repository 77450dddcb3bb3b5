package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"kanban_api/internal/client"
	"kanban_api/internal/logger"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/term"
)

func main() {
	login := flag.Bool("login", false, "prompt for email and password and print a token")
	flag.Parse()

	_ = godotenv.Load()
	// stdout carries the MCP protocol
	logger.InitWriter(os.Stderr, os.Getenv("LOG_LEVEL"), false)

	baseURL := os.Getenv("KANBAN_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	api := client.NewClient(baseURL, os.Getenv("KANBAN_TOKEN"))

	if *login {
		if err := interactiveLogin(api); err != nil {
			fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(api.Token())
		return
	}

	if api.Token() == "" {
		logger.Fatal("KANBAN_TOKEN is not set; run with -login to obtain one")
	}

	s := server.NewMCPServer(
		"Kanban MCP Server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)
	newTools(client.NewStore(api)).register(s)

	if err := server.ServeStdio(s); err != nil {
		logger.Fatal("mcp server stopped", "error", err)
	}
}

func interactiveLogin(api *client.Client) error {
	fmt.Fprint(os.Stderr, "Email: ")
	email, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	_, err = api.Login(context.Background(), strings.TrimSpace(email), string(password))
	return err
}
