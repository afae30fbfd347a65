// dashmcp serves the dashboard state over MCP stdio, sharing the same
// database the HTTP daemon uses.
package main

import (
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/openclaw/dashboard/internal/config"
	"github.com/openclaw/dashboard/internal/eventbus"
	"github.com/openclaw/dashboard/internal/mcptools"
	"github.com/openclaw/dashboard/internal/state"
	"github.com/openclaw/dashboard/internal/status"
)

const version = "2.0.0"

func main() {
	cfg := config.Load()

	db, err := state.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	store := state.NewStore(db)
	bus := eventbus.NewBus()
	statusMgr := status.NewManager(store, bus, cfg.DefaultAgent)

	s := server.NewMCPServer(
		"claw-dashboard",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	mcptools.Register(s, mcptools.Deps{Store: store, Status: statusMgr})

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("mcp server: %v", err)
	}
}
