package main

import (
	"localpm/internal/mcp"
	"localpm/pkg/config"

	"go.uber.org/zap"
)

func main() {
	// The tool server only needs the API base URL; config files are optional.
	apiCfg := config.APIConfig{BaseURL: "http://localhost:3010"}
	if cfg, err := config.Load(config.GetConfigEnv(), ""); err == nil && cfg.API.BaseURL != "" {
		apiCfg = cfg.API
	}
	config.OverrideAPIFromEnv(&apiCfg)

	// Stdout carries the protocol, so logs go to stderr.
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{"stderr"}
	log, err := logCfg.Build()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	client := mcp.NewClient(apiCfg.BaseURL, log)
	server := mcp.NewServer(client, log)

	log.Info("Local PM MCP Server running on stdio", zap.String("base_url", apiCfg.BaseURL))
	if err := mcp.Serve(server); err != nil {
		log.Fatal("mcp server failed", zap.Error(err))
	}
}
