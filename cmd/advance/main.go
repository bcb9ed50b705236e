package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"
	"github.com/valerio/go-advance/advance"
	"github.com/valerio/go-advance/advance/memory"
)

func main() {
	app := cli.NewApp()
	app.Name = "Advance"
	app.Description = "A Game Boy Advance bus and timing core"
	app.Usage = "advance [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "bios",
			Usage: "Path to a 16 KiB BIOS image",
		},
		cli.BoolFlag{
			Name:  "skip-bios",
			Usage: "Start executing from the cartridge instead of the BIOS",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run",
			Value: 60,
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
	app.Action = runCore

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running core", "error", err)
		os.Exit(1)
	}
}

func runCore(c *cli.Context) error {
	if c.Bool("verbose") {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		slog.SetDefault(slog.New(handler))
	}

	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("failed to read ROM: %w", err)
	}
	pak := memory.NewGamePak(rom)
	slog.Info("Loaded ROM", "title", pak.Title(), "bytes", len(rom))

	gba := advance.New(pak)

	if biosPath := c.String("bios"); biosPath != "" {
		bios, err := os.ReadFile(biosPath)
		if err != nil {
			return fmt.Errorf("failed to read BIOS: %w", err)
		}
		gba.MMU.LoadBIOS(bios)
	} else if !c.Bool("skip-bios") {
		return errors.New("either --bios or --skip-bios is required")
	}

	if c.Bool("skip-bios") {
		gba.SkipBIOS()
	}

	frames := c.Int("frames")
	if frames <= 0 {
		return errors.New("--frames must be positive")
	}

	for i := 0; i < frames; i++ {
		gba.RunFrame()

		if i%60 == 0 {
			slog.Info("Frame progress", "completed", i+1, "total", frames, "cycles", gba.Scheduler.Now())
		}
	}

	slog.Info("Execution completed", "frames", frames, "cycles", gba.Scheduler.Now())
	return nil
}
