// Command gbcore runs a DMG cartridge headlessly: it builds a
// system.System around the ROM, reports the cartridge header, ticks it
// under a hard-lock/cycle-count guard, and on exit reports (optionally)
// the accumulated serial-port stream — enough to drive the Blargg
// conformance ROMs, which report over serial, without a display. A GUI
// host would import internal/system the same way this CLI does and
// present System.Framebuffer() each time HasFrame reports true.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/thelolagemann/gbcore/internal/cartridge"
	"github.com/thelolagemann/gbcore/internal/saves"
	"github.com/thelolagemann/gbcore/internal/system"
	"github.com/thelolagemann/gbcore/pkg/log"
)

func main() {
	romPath := flag.String("rom", "", "path to the cartridge ROM image (required)")
	savePath := flag.String("save", "", "path to the battery-RAM save file (default: <rom>.sav)")
	maxCycles := flag.Uint64("max-cycles", 0, "stop after this many M-cycles (0 = run until hard-lock or -serial-log matches Passed/Failed)")
	serialLog := flag.Bool("serial-log", false, "watch the serial port for a Blargg-style Passed/Failed verdict and stop on it")
	loopDetect := flag.Bool("loop-detect", false, "hard-lock on a taken JR -2 instead of looping forever")
	strict := flag.Bool("strict", false, "report echo-RAM and unusable-region accesses (implies -v to be useful)")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "gbcore: -rom is required")
		flag.Usage()
		os.Exit(2)
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gbcore: unable to read ROM: %v\n", err)
		os.Exit(1)
	}

	cart, err := cartridge.New(rom)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gbcore: unable to load cartridge: %v\n", err)
		os.Exit(1)
	}

	h := cart.Header()
	fmt.Printf("gbcore: %q type=%s rom_banks=%d ram_banks=%d checksum_ok=%v logo_match=%v\n",
		h.Title, h.Type, h.ROMBankCount, h.RAMBankCount, h.ChecksumOK, h.LogoMatch)

	save := *savePath
	if save == "" {
		save = *romPath + ".sav"
	}
	ram, err := saves.Load(save, h.RAMSizeBytes())
	if err != nil {
		fmt.Fprintf(os.Stderr, "gbcore: unable to load save RAM: %v\n", err)
		os.Exit(1)
	}

	var opts []system.Option
	if *verbose {
		opts = append(opts, system.WithLogger(log.New()))
	}
	if *loopDetect {
		opts = append(opts, system.WithInfiniteLoopDetector())
	}
	if *strict {
		opts = append(opts, system.WithStrictMemory())
	}

	sys := system.New(cart, opts...)
	sys.LoadRAM(ram)

	run(sys, *maxCycles, *serialLog)

	fmt.Printf("gbcore: stopped after %d M-cycles, hard_lock=%v\n", sys.Cycles(), sys.HardLock)
	if *serialLog {
		fmt.Printf("gbcore: serial output:\n%s\n", sys.SerialOutput())
	}

	if err := saves.Save(save, sys.SaveRAM()); err != nil {
		fmt.Fprintf(os.Stderr, "gbcore: unable to write save RAM: %v\n", err)
		os.Exit(1)
	}
}

// run drives sys.Tick until it hard-locks, hits maxCycles (if nonzero),
// or — when watchSerial is set — the serial stream reports a verdict.
func run(sys *system.System, maxCycles uint64, watchSerial bool) {
	for i := uint64(0); maxCycles == 0 || i < maxCycles; i++ {
		sys.Tick()
		if sys.HardLock {
			return
		}
		if watchSerial && i%1000 == 0 {
			out := sys.SerialOutput()
			if strings.Contains(out, "Passed") || strings.Contains(out, "Failed") {
				return
			}
		}
	}
}
