package main

import (
	"context"
	"flag"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	mcpadapter "mylibrary/internal/adapters/mcp"
	"mylibrary/internal/bootstrap"
	"mylibrary/internal/config"
	"mylibrary/internal/ports"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("mylibrary-mcp: %v", err)
	}

	apiFlag := flag.String("api", cfg.APIURL, "base URL of the library API")
	exportFlag := flag.String("export-dir", cfg.ExportDir, "default directory for export_csv")
	flag.Parse()
	if err := cfg.SetAPIURL(*apiFlag); err != nil {
		log.Fatalf("mylibrary-mcp: %v", err)
	}

	// stdout carries the protocol, so notifications only reach the log
	var logger *zap.Logger
	notifier := ports.NotifierFunc(func(level ports.Level, message string) {
		if logger != nil {
			logger.Info("notification", zap.Stringer("level", level), zap.String("message", message))
		}
	})

	rt, err := bootstrap.Open(cfg, notifier)
	if err != nil {
		log.Fatalf("mylibrary-mcp: %v", err)
	}
	defer rt.Close()
	logger = rt.Logger

	mcpServer := server.NewMCPServer(
		"mylibrary-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, rt.State)
	mcpadapter.RegisterWriteTools(mcpServer, rt.State, *exportFlag)

	if err := server.ServeStdio(mcpServer); err != nil {
		rt.Logger.Error("stdio server stopped", zap.Error(err))
		log.Fatalf("mylibrary-mcp: %v", err)
	}
}
