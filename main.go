package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/wordler/config"
	"github.com/domino14/wordler/dictionary"
	"github.com/domino14/wordler/engine"
	"github.com/domino14/wordler/shell"
)

var profilePath = flag.String("profilepath", "", "path for CPU profile")

func main() {
	flag.Parse()

	cfg := config.New()

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	var logger zerolog.Logger
	if cfg.Debug() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger

	if *profilePath != "" {
		f, err := os.Create(*profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal().Err(err).Msg("could not start CPU profile")
		}
		defer pprof.StopCPUProfile()
	}

	dict, err := dictionary.LoadFile(cfg.WordFile(), cfg.WordLength())
	if err != nil {
		log.Fatal().Err(err).Str("word-file", cfg.WordFile()).Msg("could not load dictionary")
	}
	log.Info().Int("words", dict.Len()).Int("word-length", dict.WordSize()).
		Msg("loaded dictionary")

	eng := engine.New(dict, cfg.MaxLetterRepeat())

	fmt.Printf("Analyzing %d words", dict.Len())
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fmt.Print("#")
			}
		}
	}()
	start := time.Now()
	err = eng.AnalyzeAll(context.Background(), cfg.Threads())
	close(done)
	fmt.Println()
	if err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("analysis done")

	idleConnsClosed := make(chan struct{})
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("got quit signal...")
		close(idleConnsClosed)
	}()

	sc := shell.NewShellController(cfg, eng)
	go sc.Loop(sig)

	<-idleConnsClosed
}
