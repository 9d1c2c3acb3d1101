package main

import (
	"flag"
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/elpatron68/statusboard/internal/board"
	"github.com/elpatron68/statusboard/internal/config"
	applog "github.com/elpatron68/statusboard/internal/log"
	"github.com/elpatron68/statusboard/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: ./config.yaml if present)")
	listen := flag.String("listen", "", "listen address, overrides STATUSBOARD_LISTEN and config")
	data := flag.String("data", "", "spreadsheet to load (.xlsx or .csv), overrides config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		stdlog.Fatalf("config error: %v", err)
	}
	if *data != "" {
		cfg.Data.Path = *data
	}

	logs := applog.Init(cfg.Logging.Level, applog.FileOptions{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	defer logs.Close()

	// the data is read once; a bad file or missing column stops startup
	b, err := board.Load(cfg)
	if err != nil {
		logs.Close()
		stdlog.Fatalf("startup failed: %v", err)
	}
	srv := server.NewServer(cfg, b)

	addr := resolveListenAddress(cfg, *listen)
	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	applog.Infof("status board for %q listening on %s", cfg.Project.Name, addr)
	if err := hs.ListenAndServe(); err != nil {
		logs.Close()
		stdlog.Fatalf("server error: %v", err)
	}
}

// resolveListenAddress picks the listen address: flag > env > config > default.
func resolveListenAddress(cfg *config.Config, flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("STATUSBOARD_LISTEN"); v != "" {
		return v
	}
	if cfg != nil && cfg.Listen != "" {
		return cfg.Listen
	}
	return ":8050"
}
