// Command ridesim runs a level headless for a fixed number of ticks,
// optionally replaying input from a tengo script, and logs where the camera
// ended up.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/milk9111/ride/common"
	"github.com/milk9111/ride/level"
	"github.com/milk9111/ride/levels"
	"github.com/milk9111/ride/script"
	"github.com/milk9111/ride/sim"
)

func main() {
	levelName := flag.String("level", "basement", "level name in levels/, or a path to a .yaml file")
	configPath := flag.String("config", "", "YAML config file")
	ticks := flag.Int("ticks", 600, "number of ticks to simulate")
	scriptName := flag.String("script", "", "tengo input script (name in levels/scripts/ or a path)")
	hold := flag.String("hold", "", "comma separated inputs held for the whole run")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	list := flag.Bool("list", false, "list built-in levels and exit")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "ridesim"})
	lvl, err := log.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatal("bad log level", "level", *logLevel, "err", err)
	}
	logger.SetLevel(lvl)

	if *list {
		for _, name := range levels.Names() {
			fmt.Println(name)
		}
		return
	}

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("bad config", "path", *configPath, "err", err)
	}

	desc, err := loadLevel(*levelName)
	if err != nil {
		logger.Fatal("cannot load level", "level", *levelName, "err", err)
	}

	var runner *script.Runner
	if *scriptName != "" {
		runner, err = loadScript(*scriptName, logger)
		if err != nil {
			logger.Fatal("cannot load script", "script", *scriptName, "err", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d := sim.New(cfg, logger.WithPrefix("sim"))
	if err := d.Load(desc); err != nil {
		logger.Fatal("cannot assemble level", "err", err)
	}
	defer d.Unload()

	for _, input := range strings.Split(*hold, ",") {
		if input = strings.TrimSpace(input); input == "" {
			continue
		}
		if !d.Press(input) {
			logger.Warn("input not bound", "input", input)
		}
	}

	if err := run(ctx, d, runner, *ticks); err != nil {
		logger.Error("run stopped", "tick", d.Ticks(), "err", err)
	}

	focus, ok := d.CameraFocus()
	goal := d.Goal()
	if !ok {
		logger.Info("done", "level", desc.Name, "ticks", d.Ticks(), "time", float64(d.Ticks())*d.Tick())
		return
	}
	logger.Info("done",
		"level", desc.Name,
		"ticks", d.Ticks(),
		"time", float64(d.Ticks())*d.Tick(),
		"focus", focus,
		"to_goal", focus.Dist(goal),
		"reached", focus.X >= goal.X,
	)
}

func run(ctx context.Context, d *sim.Driver, runner *script.Runner, ticks int) error {
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if runner != nil {
			if err := runner.Step(ctx, d.Ticks(), d.Tick(), d); err != nil {
				return err
			}
		}
		d.Advance(d.Tick())
	}
	return nil
}

func loadLevel(name string) (*level.Level, error) {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		if _, err := os.Stat(name); err == nil {
			return level.Load(name)
		}
	}
	return levels.LoadLevel(name)
}

func loadScript(name string, logger *log.Logger) (*script.Runner, error) {
	if strings.HasSuffix(name, ".tengo") {
		if _, err := os.Stat(name); err == nil {
			return script.Load(name, logger.WithPrefix("script"))
		}
	}
	src, err := levels.LoadScript(name)
	if err != nil {
		return nil, err
	}
	return script.Compile(name, src, logger.WithPrefix("script"))
}
