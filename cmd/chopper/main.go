// Package main implements the chopper CHIP-8 emulator
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mnafees/chopper/v2/internal"
	"github.com/mnafees/chopper/v2/pkg/gui"
	"github.com/mnafees/chopper/v2/pkg/sdl"
	"github.com/mnafees/chopper/v2/pkg/term"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

const (
	title = "Chopper | CHIP-8 Emulator"

	defaultScale = 20
)

// Supported front ends
const (
	frontendSDL    = "sdl"
	frontendEbiten = "ebiten"
	frontendTerm   = "term"
)

type optionFlags struct {
	rom      string
	frontend string
	ips      int
	scale    int
	seed     int64

	debug   bool
	quiet   bool
	disasm  bool
	version bool

	quirks internal.Quirks
}

func main() {
	options, err := parseFlags(os.Args[1:])
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
	if options.version {
		fmt.Printf("version: %s\n", buildinfo.Version(version, commit, date))
		return
	}

	logger := createLogger(options.debug, options.quiet)
	if options.disasm {
		if err := listFile(os.Stdout, options.rom); err != nil {
			logger.Fatal(err.Error())
		}
		return
	}

	if !options.quiet {
		printBanner()
	}

	ctx := app.Context()
	if err := run(ctx, logger, options); err != nil {
		// Handle context cancellation (Ctrl+C) gracefully
		if errors.Is(err, context.Canceled) {
			logger.Info("Operation cancelled")
			return
		}
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

func parseFlags(args []string) (optionFlags, error) {
	flags := flag.NewFlagSet("chopper", flag.ContinueOnError)
	options := optionFlags{}
	defaults := internal.DefaultConfig()

	flags.StringVar(&options.frontend, "frontend", frontendSDL, "front end to use: sdl, ebiten or term")
	flags.IntVar(&options.ips, "ips", defaults.InstructionsPerSecond, "instructions executed per second")
	flags.IntVar(&options.scale, "scale", defaultScale, "window pixels per CHIP-8 pixel")
	flags.Int64Var(&options.seed, "seed", 0, "seed of the random number generator, 0 seeds from the clock")
	flags.BoolVar(&options.debug, "debug", false, "enable debugging options and trace every instruction")
	flags.BoolVar(&options.quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&options.disasm, "disasm", false, "print a listing of the program instead of running it")
	flags.BoolVar(&options.version, "version", false, "print the version and exit")

	flags.BoolVar(&options.quirks.LogicResetsVF, "quirk-vf-reset", defaults.Quirks.LogicResetsVF, "OR, AND and XOR reset VF")
	flags.BoolVar(&options.quirks.ShiftUsesVY, "quirk-shift", defaults.Quirks.ShiftUsesVY, "shifts read VY instead of VX")
	flags.BoolVar(&options.quirks.LoadStoreIncrementsI, "quirk-memory", defaults.Quirks.LoadStoreIncrementsI, "FX55 and FX65 increment I")
	flags.BoolVar(&options.quirks.JumpUsesVX, "quirk-jump", defaults.Quirks.JumpUsesVX, "BNNN jumps to NNN plus VX")

	if err := flags.Parse(args); err != nil {
		return options, err
	}
	if options.version {
		return options, nil
	}

	if flags.NArg() != 1 {
		printBanner()
		fmt.Printf("usage: chopper [options] <CHIP-8 program>\n\n")
		flags.PrintDefaults()
		return options, errors.New("missing program argument")
	}
	options.rom = flags.Arg(0)

	switch options.frontend {
	case frontendSDL, frontendEbiten, frontendTerm:
	default:
		return options, fmt.Errorf("unsupported frontend '%s'", options.frontend)
	}
	if options.scale < 1 {
		return options, fmt.Errorf("invalid scale %d", options.scale)
	}
	return options, nil
}

func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func printBanner() {
	fmt.Println("[---------------------------------]")
	fmt.Println("[ chopper - CHIP-8 emulator       ]")
	fmt.Printf("[---------------------------------]\n\n")
	fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
}

func run(ctx context.Context, logger *log.Logger, options optionFlags) error {
	cfg := internal.DefaultConfig()
	cfg.InstructionsPerSecond = options.ips
	cfg.Seed = options.seed
	cfg.Quirks = options.quirks

	vm, err := internal.NewC8VM(cfg, logger)
	if err != nil {
		return err
	}
	if err := vm.LoadROM(options.rom); err != nil {
		return err
	}

	switch options.frontend {
	case frontendSDL:
		return runSDL(ctx, logger, vm, options.scale)
	case frontendEbiten:
		return runEbiten(ctx, logger, vm, options.scale)
	case frontendTerm:
		return runTerm(ctx, logger, vm)
	default:
		return fmt.Errorf("unsupported frontend '%s'", options.frontend)
	}
}

func runSDL(ctx context.Context, logger *log.Logger, vm *internal.C8VM, scale int) error {
	io := sdl.NewIO(logger, scale)
	if err := io.Open(title); err != nil {
		return fmt.Errorf("opening SDL front end: %w", err)
	}
	defer io.Close()
	io.OnExpose(vm.Invalidate)

	return vm.Run(ctx, io, io, io)
}

func runEbiten(ctx context.Context, logger *log.Logger, vm *internal.C8VM, scale int) error {
	var speaker internal.Speaker
	s, err := gui.NewSpeaker()
	if err != nil {
		logger.Warn("Sound disabled", log.Err(err))
	} else {
		speaker = s
		defer func() { _ = s.Close() }()
	}

	game := gui.NewGame(ctx, vm, logger, scale, speaker)
	return game.Run(title)
}

func runTerm(ctx context.Context, logger *log.Logger, vm *internal.C8VM) error {
	t := term.New(logger, os.Stdout)
	if err := t.Open(); err != nil {
		return fmt.Errorf("opening terminal front end: %w", err)
	}
	defer t.Close()

	return t.Run(ctx, vm)
}
