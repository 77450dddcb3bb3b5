package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"kanban_api/internal/client"
	"kanban_api/internal/domain"
	"kanban_api/internal/logger"
)

// ws_smoke logs in, follows the board-events socket and prints every event
// along with the reloaded board count.
func main() {
	baseURL := flag.String("url", "http://127.0.0.1:3000", "API base url")
	email := flag.String("email", "test@example.com", "login email")
	password := flag.String("password", os.Getenv("KANBAN_PASSWORD"), "login password")
	flag.Parse()

	logger.Init("info", false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.NewClient(*baseURL, "")
	if _, err := api.Login(ctx, *email, *password); err != nil {
		logger.Fatal("login failed", "error", err)
	}

	store := client.NewStore(api)
	wsURL := "ws" + strings.TrimPrefix(api.BaseURL(), "http") + "/api/ws"

	err := store.Watch(ctx, wsURL, func(ev domain.Event) {
		fmt.Printf("%s board=%s entity=%s boards=%d tasks=%d\n",
			ev.Type, ev.BoardID, ev.EntityID, len(store.Boards()), len(store.AllTasks()))
	})
	if err != nil && ctx.Err() == nil {
		logger.Fatal("watch stopped", "error", err)
	}
}
