package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/ride/common"
	"github.com/milk9111/ride/levels"
)

func main() {
	levelName := flag.String("level", "basement", "level name in levels/ (basename, .yaml optional)")
	configPath := flag.String("config", "", "YAML config file")
	debug := flag.Bool("debug", false, "draw constraints and contacts, log at debug level")
	scriptName := flag.String("script", "", "replay input from levels/scripts/<name>.tengo")
	watch := flag.Bool("watch", true, "reload when files under levels/ change")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("bad config", "path", *configPath, "err", err)
	}
	if *debug {
		cfg.Debug = true
	}
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	game, err := NewGame(*levelName, *scriptName, cfg, logger)
	if err != nil {
		logger.Fatal("cannot start", "level", *levelName, "err", err)
	}
	defer game.Close()

	if *watch {
		if err := game.Watch(levels.Dir); err != nil {
			logger.Warn("hot reload disabled", "dir", levels.Dir, "err", err)
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("ride")

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("game exited", "err", err)
		game.Close()
		os.Exit(1)
	}
}
