package game

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/golangdaddy/roadster/pkg/assets"
	"github.com/golangdaddy/roadster/pkg/config"
	"github.com/golangdaddy/roadster/pkg/logging"
	"github.com/golangdaddy/roadster/pkg/ride"
	"github.com/golangdaddy/roadster/pkg/ui"
)

// Screen represents a UI screen interface
type Screen interface {
	Update() error
	Draw(screen *ebiten.Image)
}

// Game implements the ebiten.Game interface and manages the overall game state
type Game struct {
	settings config.Settings
	loader   *assets.Loader
	watcher  *assets.Watcher

	trackName string
	path      ride.PathMeta
	ride      *ride.Ride

	title         *ui.TitleScreen
	currentScreen Screen
}

// NewGame creates a new game instance on a built path. watcher may be nil
// when hot reloading is off.
func NewGame(settings config.Settings, trackName string, path ride.PathMeta, loader *assets.Loader, watcher *assets.Watcher) (*Game, error) {
	r, err := ride.New(settings.Ride())
	if err != nil {
		return nil, fmt.Errorf("failed to create ride: %w", err)
	}

	game := &Game{
		settings:  settings,
		loader:    loader,
		watcher:   watcher,
		trackName: trackName,
		path:      path,
		ride:      r,
	}
	game.showTitle("")
	return game, nil
}

// Update handles game logic updates
func (g *Game) Update() error {
	g.pollReload()
	if g.currentScreen != nil {
		return g.currentScreen.Update()
	}
	return nil
}

// Draw renders the current screen
func (g *Game) Draw(screen *ebiten.Image) {
	if g.currentScreen != nil {
		g.currentScreen.Draw(screen)
	}
}

// Layout returns the size of the software rendered frame; ebiten scales it
// up to the window
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.settings.Frame.Width, g.settings.Frame.Height
}

func (g *Game) showTitle(status string) {
	g.title = ui.NewTitleScreen(g.trackName, status, g.startRide)
	g.currentScreen = g.title
}

// startRide transitions to the actual gameplay
func (g *Game) startRide() {
	if err := g.ride.Start(g.path); err != nil {
		logging.Error("failed to start ride", "err", err)
		return
	}
	g.currentScreen = NewGameplayScreen(g.ride, g.settings.Frame.Width, g.settings.Frame.Height, g.path.Length, func(status string) {
		g.showTitle(status)
	})
}

// pollReload rebuilds the path when the watched track file changes. A
// broken edit keeps the previous path.
func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	select {
	case name := <-g.watcher.Events():
		def, err := config.LoadTrack(g.settings.Track)
		if err != nil {
			logging.Error("track reload failed", "file", name, "err", err)
			return
		}
		path, err := config.BuildPath(def, g.loader)
		if err != nil {
			logging.Error("track reload failed", "file", name, "err", err)
			return
		}
		g.path = path
		g.trackName = def.Name
		logging.Info("track reloaded", "name", def.Name, "file", name)

		if g.ride.Active() {
			g.startRide()
		} else if g.title != nil {
			g.title.SetTrackName(def.Name)
		}
	default:
	}
}
