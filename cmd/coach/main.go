package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/aaa474/ai-fitness-coach/internal/bootstrap"
	"github.com/aaa474/ai-fitness-coach/internal/config"
	"github.com/aaa474/ai-fitness-coach/internal/repl"
	"github.com/aaa474/ai-fitness-coach/internal/tui"
)

func main() {
	var (
		configPath string
		lineMode   bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config JSON/JSONC")
	flag.BoolVar(&lineMode, "repl", false, "Run the line-mode REPL instead of the TUI")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}

	router := tui.NewRouter()
	res, err := bootstrap.Build(cfg, router)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	defer res.Store.Close()

	if lineMode {
		res.Monitor.Start()
		defer res.Monitor.Stop()
		loop := &repl.Loop{
			Monitor:   res.Monitor,
			Chat:      res.Chat,
			Progress:  res.Progress,
			Generator: res.Generator,
			Daily:     res.Daily,
			DataDir:   res.DataDir,
		}
		if err := loop.Run(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "repl failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	app := tui.NewApp(res.Monitor, res.Chat, res.Progress, res.Generator, res.Daily, router, res.Store, res.Theme)
	if err := tui.Run(app, router, res.Monitor); err != nil {
		fmt.Fprintf(os.Stderr, "tui failed: %v\n", err)
		os.Exit(1)
	}
}
