// Package debugview renders live CPU register state to a terminal using
// tcell. It never touches pixel data; the core has no framebuffer to show.
package debugview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/rgstephen/go-dmgcore/dmg/cpu"
)

// View owns the tcell screen used to display register state between steps
// of a running machine.
type View struct {
	screen tcell.Screen
}

// Open initializes the terminal screen. Callers must call Close before the
// process exits to restore the terminal.
func Open() (*View, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.Clear()
	return &View{screen: screen}, nil
}

// Close restores the terminal to its prior state.
func (v *View) Close() {
	v.screen.Fini()
}

// Draw paints a Snapshot and the instruction count reached so far.
func (v *View) Draw(snap cpu.Snapshot, instruction int) {
	v.screen.Clear()

	lines := []string{
		fmt.Sprintf("instruction %d", instruction),
		fmt.Sprintf("AF %02X%02X  BC %02X%02X  DE %02X%02X  HL %02X%02X",
			snap.A, snap.F, snap.B, snap.C, snap.D, snap.E, snap.H, snap.L),
		fmt.Sprintf("SP %04X  PC %04X  IME %-5v  HALT %-5v", snap.SP, snap.PC, snap.IME, snap.Halted),
		fmt.Sprintf("cycles %d", snap.Cycles),
	}

	style := tcell.StyleDefault
	for row, line := range lines {
		for col, r := range line {
			v.screen.SetContent(col, row, r, nil, style)
		}
	}
	v.screen.Show()
}

// PollQuit reports whether the user requested the view be closed (Escape or
// Ctrl-C), without blocking if no event is pending.
func (v *View) PollQuit() bool {
	if v.screen.HasPendingEvent() {
		if ev, ok := v.screen.PollEvent().(*tcell.EventKey); ok {
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return true
			}
		}
	}
	return false
}
