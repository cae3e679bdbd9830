package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/rgstephen/go-dmgcore/dmg"
	"github.com/rgstephen/go-dmgcore/dmg/debugview"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Description = "A headless DMG/Game Boy core driver"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM image",
		},
		cli.IntFlag{
			Name:  "instructions",
			Usage: "Number of instructions to execute before reporting state",
			Value: 0,
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of PPU frames to run before reporting state",
			Value: 0,
		},
		cli.BoolFlag{
			Name:  "trace-unimplemented",
			Usage: "Log every unimplemented opcode the core encounters",
		},
		cli.BoolFlag{
			Name:  "watch",
			Usage: "Show a live terminal view of register state while running",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgcore: run failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	image, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading ROM: %w", err)
	}

	m := dmg.New(dmg.Config{TraceUnimplementedOpcodes: c.Bool("trace-unimplemented")})
	if err := m.Load(image); err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	slog.Info("dmgcore: loaded cartridge", "cartridge", m.Cartridge().String())

	instructions := c.Int("instructions")
	frames := c.Int("frames")
	if instructions <= 0 && frames <= 0 {
		return errors.New("nothing to do: pass --instructions or --frames")
	}

	var view *debugview.View
	if c.Bool("watch") {
		view, err = debugview.Open()
		if err != nil {
			return fmt.Errorf("opening debug view: %w", err)
		}
		defer view.Close()
	}

	if instructions > 0 {
		for i := 0; i < instructions; i++ {
			m.StepInstruction()
			if view != nil {
				view.Draw(m.CPU.Snapshot(), i+1)
				if view.PollQuit() {
					break
				}
			}
		}
	}

	if frames > 0 {
		runFrames(m, frames, view)
	}

	snap := m.CPU.Snapshot()
	slog.Info("dmgcore: final state",
		"pc", fmt.Sprintf("0x%04X", snap.PC),
		"sp", fmt.Sprintf("0x%04X", snap.SP),
		"af", fmt.Sprintf("0x%02X%02X", snap.A, snap.F),
		"bc", fmt.Sprintf("0x%02X%02X", snap.B, snap.C),
		"de", fmt.Sprintf("0x%02X%02X", snap.D, snap.E),
		"hl", fmt.Sprintf("0x%02X%02X", snap.H, snap.L),
		"ime", snap.IME,
		"halted", snap.Halted,
		"cycles", snap.Cycles,
	)
	return nil
}

// runFrames steps the machine by whole PPU frames, using LY wraparound from
// 153 back to 0 as the frame boundary.
func runFrames(m *dmg.Machine, frames int, view *debugview.View) {
	instruction := 0
	for f := 0; f < frames; f++ {
		lastLY := m.Bus.PPU.LY
		for {
			m.StepInstruction()
			instruction++
			ly := m.Bus.PPU.LY
			if ly < lastLY {
				break
			}
			lastLY = ly
		}
		if view != nil {
			view.Draw(m.CPU.Snapshot(), instruction)
			if view.PollQuit() {
				return
			}
		}
	}
}
