package main

import (
	"errors"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Garsondee/Outbreak/internal/audio"
	"github.com/Garsondee/Outbreak/internal/config"
	"github.com/Garsondee/Outbreak/internal/game"
	"github.com/Garsondee/Outbreak/internal/metrics"
	"github.com/Garsondee/Outbreak/internal/sim"
)

func main() {
	configPath := flag.String("config", "", "scenario YAML (default $"+config.EnvConfigPath+")")
	seed := flag.Int64("seed", 0, "world seed override")
	entities := flag.Int("entities", 0, "population override")
	mute := flag.Bool("mute", false, "disable audio")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *seed != 0 {
		cfg.World.Seed = *seed
	}
	if *entities > 0 {
		cfg.World.Entities = *entities
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	w, err := sim.Generate(cfg.GenConfig())
	if err != nil {
		log.Fatal(err)
	}

	opts := game.Options{
		Width:       cfg.Display.Width,
		Height:      cfg.Display.Height,
		Zoom:        cfg.Display.Zoom,
		DT:          cfg.TickDT(),
		ReportEvery: cfg.Run.ReportEvery,
		Seed:        cfg.World.Seed,
	}

	if cfg.Audio.Enabled && !*mute {
		board := audio.NewSoundBoard(cfg.Audio.SampleRate, cfg.Audio.Volume)
		if err := board.Init(); err != nil {
			log.Printf("audio disabled: %v", err)
		} else {
			defer board.Close()
			opts.Sound = board
		}
	}

	if addr := cfg.Metrics.GetAddr(); addr != "" {
		reg := prometheus.NewRegistry()
		opts.Metrics = metrics.NewRecorder(reg)
		srv := &http.Server{Addr: addr, Handler: metrics.Handler(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	ebiten.SetWindowTitle("Outbreak")
	ebiten.SetWindowSize(opts.Width, opts.Height)
	ebiten.SetTPS(cfg.Run.GetTickRate())
	if err := ebiten.RunGame(game.New(w, opts)); err != nil {
		log.Fatal(err)
	}
}
