package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"tabsd/internal/app"
	"tabsd/pkg/config"
	"tabsd/pkg/logger"
	"tabsd/pkg/shutdown"
)

// build metadata - set via ldflags during build/release
var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	logger.Init()

	addrVal, dataVal, cfgVal, setFlags := config.ParseCommandFlags()

	// config path: flag wins over env
	cfgPath := config.ResolveConfigPath(cfgVal, setFlags["config"])

	cfg, _, envUsed, err := config.LoadEffective(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// flags explicitly set win over env/config
	addr := cfg.Addr()
	if setFlags["addr"] {
		addr = addrVal
	}
	dataDir := dataVal
	if !setFlags["data"] && cfg.Server.DataDir != "" {
		dataDir = cfg.Server.DataDir
	}

	// re-init the logger once the file-level log config is known
	if cfg.Logging.Level != "" {
		logger.InitWithLevel(cfg.Logging.Level)
	}

	srcs := []string{}
	if len(setFlags) > 0 {
		srcs = append(srcs, "flags")
	}
	if envUsed {
		srcs = append(srcs, "env")
	}
	if _, err := config.Load(cfgPath); err == nil {
		srcs = append(srcs, "config")
	}

	eff := config.EffectiveConfigResult{
		Config:  cfg,
		Addr:    addr,
		DataDir: dataDir,
		Source:  strings.Join(srcs, ", "),
	}

	a, err := app.New(eff, version, commit, buildDate)
	if err != nil {
		shutdown.Abort("startup_failed", err, dataDir, 0)
	}

	ctx, cancel := shutdown.SetupSignalHandler(context.Background())
	defer cancel()

	if err := a.Run(ctx); err != nil {
		shutdown.Abort("server_failed", err, dataDir, 0)
	}
	logger.Info("server_stopped")
}
