package main

import (
	"errors"
	"flag"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/golangdaddy/roadster/pkg/assets"
	"github.com/golangdaddy/roadster/pkg/config"
	"github.com/golangdaddy/roadster/pkg/game"
	"github.com/golangdaddy/roadster/pkg/logging"
)

func main() {
	configPath := flag.String("config", "roadster.toml", "settings file")
	trackPath := flag.String("track", "", "track definition, overrides the settings file")
	flag.Parse()

	settings, err := config.LoadSettings(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		settings = config.DefaultSettings()
		logging.Warn("settings file not found, using defaults", "path", *configPath)
	} else if err != nil {
		logging.Fatal("failed to load settings", "err", err)
	}
	if *trackPath != "" {
		settings.Track = *trackPath
	}
	if err := logging.SetLevel(settings.LogLevel); err != nil {
		logging.Fatal("bad log level", "level", settings.LogLevel, "err", err)
	}

	def, err := config.LoadTrack(settings.Track)
	if err != nil {
		logging.Fatal("failed to load track", "err", err)
	}
	loader := assets.NewLoader(settings.Assets)
	path, err := config.BuildPath(def, loader)
	if err != nil {
		logging.Fatal("failed to build track", "path", settings.Track, "err", err)
	}
	logging.Info("track loaded", "name", def.Name, "length", def.Length, "loop", def.Loop)

	var watcher *assets.Watcher
	if settings.HotReload {
		watcher, err = assets.NewWatcher(settings.Track)
		if err != nil {
			logging.Warn("hot reload disabled", "err", err)
		} else {
			defer watcher.Close()
		}
	}

	g, err := game.NewGame(settings, def.Name, path, loader, watcher)
	if err != nil {
		logging.Fatal("failed to create game", "err", err)
	}

	ebiten.SetWindowSize(settings.Window.Width, settings.Window.Height)
	ebiten.SetWindowTitle(settings.Window.Title)
	if err := ebiten.RunGame(g); err != nil {
		logging.Fatal("game stopped", "err", err)
	}
}
