package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/harmonylink/audio"
	"github.com/lixenwraith/harmonylink/config"
	"github.com/lixenwraith/harmonylink/core"
	"github.com/lixenwraith/harmonylink/script"
	"github.com/lixenwraith/harmonylink/session"
)

var (
	scriptFlag = flag.String("script", "", "Narrative script YAML (default: built-in)")
	debugFlag  = flag.Bool("debug", false, "Write logs to logs/harmonylink.log")
	audioFlag  = flag.Bool("audio", true, "Enable sound cues")
	fpsFlag    = flag.Int("fps", 30, "Frames per second")
	volumeFlag = flag.Float64("volume", 0.6, "Cue volume 0..1")
	checkFlag  = flag.Bool("check", false, "Validate the script and exit")
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	flag.Parse()
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	sc, err := script.LoadOrDefault(cfg.Script)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *checkFlag {
		fmt.Printf("script ok: %d objects, %d panels, %d steps\n", len(sc.Objects), len(sc.Panels), len(sc.Steps))
		return
	}

	if err := run(cfg, sc); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// applyFlags overrides environment configuration with explicitly set flags
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "script":
			cfg.Script = *scriptFlag
		case "debug":
			cfg.Debug = *debugFlag
		case "audio":
			cfg.Audio = *audioFlag
		case "fps":
			cfg.FPS = *fpsFlag
		case "volume":
			cfg.Volume = *volumeFlag
		}
	})
}

func run(cfg config.Config, sc *script.Script) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()

	core.SetCleanup(screen.Fini)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	defer func() {
		core.SetCleanup(nil)
		screen.Fini()
	}()

	var cues audio.Cues = audio.Nop{}
	if cfg.Audio {
		player := audio.NewPlayer(audio.DefaultSampleRate, cfg.Volume)
		if err := player.Initialize(); err != nil {
			log.Printf("[main] audio unavailable: %v (continuing without audio)", err)
		} else {
			cues = player
			defer player.Close()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cols, rows := screen.Size()
	input := newInputMapper(cols, rows, cfg.ScrollStep)
	w, h := input.vp.size()

	sess, err := session.New(ctx, session.Options{
		Script: sc,
		Cues:   cues,
		Width:  w,
		Height: h,
	})
	if err != nil {
		return err
	}

	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				screen.Sync()
			}
			for _, e := range input.translate(ev) {
				sess.Push(e)
			}
		}
	})

	r := newRenderer(screen, sc)
	frameTicker := time.NewTicker(cfg.FrameInterval())
	defer frameTicker.Stop()

	log.Printf("[main] running at %d fps", cfg.FPS)
	for range frameTicker.C {
		if !sess.Tick() {
			log.Printf("[main] quit")
			return nil
		}
		r.draw(sess.Snapshot(), sess.Camera())
		screen.Show()
	}
	return nil
}
