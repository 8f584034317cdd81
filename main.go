package main

import (
	"embed"
	"log"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"github.com/chazu/drawchute/pkg/config"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg := config.Default()
	if path := os.Getenv("DRAWCHUTE_CONFIG"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			log.Fatalf("Loading config: %v", err)
		}
	}

	app := NewApp(cfg)
	err := wails.Run(&options.App{
		Title:       "drawchute",
		Width:       1024,
		Height:      768,
		AssetServer: &assetserver.Options{Assets: assets},
		OnStartup:   app.startup,
		Bind:        []interface{}{app},
	})
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}
