package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/bounce/internal/audio"
	"github.com/tomz197/bounce/internal/config"
	"github.com/tomz197/bounce/internal/loop"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bounce: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", config.GetEnv("BOUNCE_CONFIG", ""), "YAML settings file")
		policy     = flag.String("policy", "", "collision policy: legacy or symmetric")
		seed       = flag.String("seed", "", "seed string; empty means random")
		sound      = flag.Bool("sound", false, "start with sound on")
		labels     = flag.Bool("labels", false, "start with labels on")
		explosions = flag.Bool("explosions", true, "animate deaths")
		music      = flag.Bool("music", false, "start with the soundtrack playing")
		logFile    = flag.String("log-file", "", "write logs to this file")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [balls]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// Flags given on the command line win over the file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "policy":
			settings.Policy = *policy
		case "seed":
			settings.Seed = *seed
		case "sound":
			settings.Sound = *sound
		case "labels":
			settings.Labels = *labels
		case "explosions":
			settings.Explosions = *explosions
		case "log-file":
			settings.LogFile = *logFile
		case "log-level":
			settings.LogLevel = *logLevel
		}
	})
	if flag.NArg() > 0 {
		n, err := strconv.Atoi(flag.Arg(0))
		if err != nil {
			return fmt.Errorf("ball count %q: %w", flag.Arg(0), err)
		}
		settings.Balls = n
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	// Stdout is the screen, so logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if settings.LogFile != "" {
		f, err := os.OpenFile(settings.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := config.NewLogger(logOut, settings.LogLevel)
	if err != nil {
		return err
	}

	worldOpts, err := settings.WorldOptions()
	if err != nil {
		return err
	}
	worldOpts.Logger = logger

	player := audio.NewPlayer(logger)
	if err := player.Initialize(); err != nil {
		logger.Warn("audio unavailable, running silent", "err", err)
	}
	defer player.Close()
	if *music {
		player.ToggleMusic()
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "balls", settings.Balls, "policy", settings.Policy)
	reader := bufio.NewReader(os.Stdin)
	return loop.Run(ctx, reader, os.Stdout, loop.RunOptions{
		World: worldOpts,
		Audio: player,
		Music: *music,
	})
}
